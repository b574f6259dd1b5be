package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"tallerit/repair-intake-worker/internal/dto"
	"tallerit/repair-intake-worker/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RepairsController proxies repair card HTTP requests to the repairs backend
type RepairsController struct {
	repairAPI *handlers.RepairAPIHandler
}

// NewRepairsController creates a new RepairsController instance
func NewRepairsController(repairAPI *handlers.RepairAPIHandler) *RepairsController {
	return &RepairsController{
		repairAPI: repairAPI,
	}
}

// List godoc
// @Summary      List repair cards
// @Description  Retrieve repair cards with optional status, priority and search filters
// @Tags         repairs
// @Produce      json
// @Param        skip query int false "Records to skip"
// @Param        limit query int false "Maximum records to return"
// @Param        status query string false "Status lane filter (aliases are resolved)"
// @Param        priority query string false "Priority filter (low, normal, high, urgent)"
// @Param        search query string false "Free-text filter"
// @Success      200 {array} object "Repair cards"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs [get]
func (ctrl *RepairsController) List(c *gin.Context) {
	params := handlers.ListParams{
		Skip:     intQuery(c, "skip"),
		Limit:    intQuery(c, "limit"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}

	repairs, err := ctrl.repairAPI.ListRepairs(c.Request.Context(), params)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, repairs)
}

// Search godoc
// @Summary      Search repair cards
// @Description  Run a fast free-text search over repair cards
// @Tags         repairs
// @Produce      json
// @Param        q query string true "Search terms"
// @Param        limit query int false "Maximum records to return"
// @Success      200 {array} object "Matching repair cards"
// @Failure      400 {object} dto.ErrorResponse "Missing search terms"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/search [get]
func (ctrl *RepairsController) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "parámetro 'q' requerido",
		})
		return
	}

	repairs, err := ctrl.repairAPI.SearchRepairs(c.Request.Context(), q, intQuery(c, "limit"))
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, repairs)
}

// Get godoc
// @Summary      Get a repair card
// @Description  Retrieve one repair card by id
// @Tags         repairs
// @Produce      json
// @Param        id path int true "Repair card id"
// @Success      200 {object} object "Repair card"
// @Failure      400 {object} dto.ErrorResponse "Invalid id"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/{id} [get]
func (ctrl *RepairsController) Get(c *gin.Context) {
	id, ok := repairID(c)
	if !ok {
		return
	}

	repair, err := ctrl.repairAPI.GetRepair(c.Request.Context(), id)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, repair)
}

// ByStatus godoc
// @Summary      List repair cards in one lane
// @Description  Retrieve all repair cards with the given status; aliases are resolved first
// @Tags         repairs
// @Produce      json
// @Param        status path string true "Status lane (ingresado, diagnosticada, para-entregar, listos, or an alias)"
// @Success      200 {array} object "Repair cards in the lane"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/status/{status} [get]
func (ctrl *RepairsController) ByStatus(c *gin.Context) {
	repairs, err := ctrl.repairAPI.GetRepairsByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, repairs)
}

// Create godoc
// @Summary      Create a repair card
// @Description  Validate and create a new repair card
// @Tags         repairs
// @Accept       json
// @Produce      json
// @Param        request body object true "Repair card fields (camelCase)"
// @Success      201 {object} object "Created repair card"
// @Failure      400 {object} dto.ErrorResponse "Validation error"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs [post]
func (ctrl *RepairsController) Create(c *gin.Context) {
	var record map[string]any
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	if problems := dto.ValidateRepair(record); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": problems})
		return
	}

	repair, err := ctrl.repairAPI.CreateRepair(c.Request.Context(), record)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, repair)
}

// Update godoc
// @Summary      Update a repair card
// @Description  Replace a repair card's editable fields
// @Tags         repairs
// @Accept       json
// @Produce      json
// @Param        id path int true "Repair card id"
// @Param        request body object true "Repair card fields (camelCase)"
// @Success      200 {object} object "Updated repair card"
// @Failure      400 {object} dto.ErrorResponse "Invalid id or body"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/{id} [put]
func (ctrl *RepairsController) Update(c *gin.Context) {
	id, ok := repairID(c)
	if !ok {
		return
	}

	var record map[string]any
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	repair, err := ctrl.repairAPI.UpdateRepair(c.Request.Context(), id, record)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, repair)
}

// ChangeStatus godoc
// @Summary      Move a repair card to another lane
// @Description  Change a repair card's status, resolving aliases to the canonical lane name
// @Tags         repairs
// @Accept       json
// @Produce      json
// @Param        id path int true "Repair card id"
// @Param        request body dto.StatusChangeRequest true "Target status and optional note"
// @Success      200 {object} object "Updated repair card"
// @Failure      400 {object} dto.ErrorResponse "Invalid id, body or status"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/{id}/status [patch]
func (ctrl *RepairsController) ChangeStatus(c *gin.Context) {
	id, ok := repairID(c)
	if !ok {
		return
	}

	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	repair, err := ctrl.repairAPI.ChangeStatus(c.Request.Context(), id, req.Status, req.Note)
	if err != nil {
		if strings.HasPrefix(err.Error(), "estado inválido") {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: err.Error(),
			})
			return
		}
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, repair)
}

// Delete godoc
// @Summary      Delete a repair card
// @Description  Remove a repair card permanently
// @Tags         repairs
// @Produce      json
// @Param        id path int true "Repair card id"
// @Success      204 "Deleted"
// @Failure      400 {object} dto.ErrorResponse "Invalid id"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/{id} [delete]
func (ctrl *RepairsController) Delete(c *gin.Context) {
	id, ok := repairID(c)
	if !ok {
		return
	}

	if err := ctrl.repairAPI.DeleteRepair(c.Request.Context(), id); err != nil {
		respondBackendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats godoc
// @Summary      Board statistics
// @Description  Retrieve per-lane counts and other board statistics
// @Tags         repairs
// @Produce      json
// @Success      200 {object} object "Board statistics"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /stats [get]
func (ctrl *RepairsController) Stats(c *gin.Context) {
	stats, err := ctrl.repairAPI.GetStats(c.Request.Context())
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Overdue godoc
// @Summary      List overdue repair cards
// @Description  Retrieve repair cards whose due date has passed
// @Tags         repairs
// @Produce      json
// @Success      200 {array} object "Overdue repair cards"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/overdue [get]
func (ctrl *RepairsController) Overdue(c *gin.Context) {
	repairs, err := ctrl.repairAPI.GetOverdueRepairs(c.Request.Context())
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, repairs)
}

// DueSoon godoc
// @Summary      List repair cards due soon
// @Description  Retrieve repair cards approaching their due date
// @Tags         repairs
// @Produce      json
// @Success      200 {array} object "Repair cards due soon"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/due-soon [get]
func (ctrl *RepairsController) DueSoon(c *gin.Context) {
	repairs, err := ctrl.repairAPI.GetDueSoonRepairs(c.Request.Context())
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, repairs)
}

// WhatsApp godoc
// @Summary      WhatsApp contact link for a repair card
// @Description  Build the canonical WhatsApp number and wa.me link for a repair card's owner
// @Tags         repairs
// @Produce      json
// @Param        id path int true "Repair card id"
// @Success      200 {object} dto.WhatsAppLinkResponse "Canonical number and link"
// @Failure      400 {object} dto.ErrorResponse "Invalid id"
// @Failure      404 {object} dto.ErrorResponse "Card has no usable contact number"
// @Failure      502 {object} dto.ErrorResponse "Backend error"
// @Router       /repairs/{id}/whatsapp [get]
func (ctrl *RepairsController) WhatsApp(c *gin.Context) {
	id, ok := repairID(c)
	if !ok {
		return
	}

	repair, err := ctrl.repairAPI.GetRepair(c.Request.Context(), id)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	number, link := ctrl.repairAPI.WhatsAppLink(repair)
	if link == "" {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "la orden no tiene un número de contacto utilizable",
		})
		return
	}

	c.JSON(http.StatusOK, dto.WhatsAppLinkResponse{
		Number: number,
		Link:   link,
	})
}

// Health godoc
// @Summary      Repairs backend health
// @Description  Probe the repairs backend's health endpoint
// @Tags         repairs
// @Produce      json
// @Success      200 {object} object "Backend health payload"
// @Failure      502 {object} dto.ErrorResponse "Backend unreachable"
// @Router       /repairs/backend/health [get]
func (ctrl *RepairsController) Health(c *gin.Context) {
	health, err := ctrl.repairAPI.HealthCheck(c.Request.Context())
	if err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, health)
}

func repairID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "id inválido",
		})
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}

func respondBackendError(c *gin.Context, err error) {
	c.JSON(http.StatusBadGateway, dto.ErrorResponse{
		Error: err.Error(),
	})
}
