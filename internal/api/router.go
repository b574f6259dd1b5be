package api

import (
	"net/http"

	"tallerit/repair-intake-worker/internal/api/controllers"
	"tallerit/repair-intake-worker/internal/handlers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter creates and configures a new Gin router. The repairs proxy
// routes are only mounted when a backend handler is provided.
func NewRouter(extractor *handlers.ExtractorHandler, repairAPI *handlers.RepairAPIHandler) *gin.Engine {
	router := gin.Default() // Includes Logger and Recovery middleware

	// Initialize controllers
	extractController := controllers.NewExtractController(extractor)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/extract/image", extractController.ExtractImage)
		v1.POST("/extract/audio", extractController.TranscribeAudio)
		v1.POST("/extract/text", extractController.AnalyzeText)
		v1.GET("/providers", extractController.ListProviders)
		v1.POST("/providers/:name/test", extractController.TestProvider)

		if repairAPI != nil {
			repairsController := controllers.NewRepairsController(repairAPI)

			v1.GET("/repairs", repairsController.List)
			v1.POST("/repairs", repairsController.Create)
			v1.GET("/repairs/search", repairsController.Search)
			v1.GET("/repairs/overdue", repairsController.Overdue)
			v1.GET("/repairs/due-soon", repairsController.DueSoon)
			v1.GET("/repairs/backend/health", repairsController.Health)
			v1.GET("/repairs/status/:status", repairsController.ByStatus)
			v1.GET("/repairs/:id", repairsController.Get)
			v1.PUT("/repairs/:id", repairsController.Update)
			v1.PATCH("/repairs/:id/status", repairsController.ChangeStatus)
			v1.DELETE("/repairs/:id", repairsController.Delete)
			v1.GET("/repairs/:id/whatsapp", repairsController.WhatsApp)
			v1.GET("/stats", repairsController.Stats)
		}
	}

	return router
}
