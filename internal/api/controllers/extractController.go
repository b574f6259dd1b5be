package controllers

import (
	"io"
	"net/http"

	"tallerit/repair-intake-worker/internal/dto"
	"tallerit/repair-intake-worker/internal/handlers"
	"tallerit/repair-intake-worker/internal/model/provider"

	"github.com/gin-gonic/gin"
)

// 20MB is enough for phone camera photos and short voice notes.
const maxUploadBytes = 20 << 20

// ExtractController handles AI extraction HTTP requests
type ExtractController struct {
	extractor *handlers.ExtractorHandler
}

// NewExtractController creates a new ExtractController instance
func NewExtractController(extractor *handlers.ExtractorHandler) *ExtractController {
	return &ExtractController{
		extractor: extractor,
	}
}

// ExtractImage godoc
// @Summary      Extract equipment info from a device photo
// @Description  Analyze an uploaded device photo with an AI provider and return sanitized equipment details
// @Tags         extract
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "Device photo (JPEG, PNG or WebP)"
// @Param        provider formData string false "AI provider backend (gemini or openai, default gemini)"
// @Success      200 {object} dto.ExtractedEquipmentInfo "Sanitized equipment details"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing or invalid file"
// @Failure      429 {object} dto.ErrorResponse "Provider quota exhausted"
// @Failure      502 {object} dto.ErrorResponse "Provider error"
// @Failure      503 {object} dto.ErrorResponse "Provider not configured"
// @Router       /extract/image [post]
func (ctrl *ExtractController) ExtractImage(c *gin.Context) {
	backend, ok := requestedBackend(c, c.PostForm("provider"))
	if !ok {
		return
	}

	data, mimeType, ok := readUpload(c, "image")
	if !ok {
		return
	}

	result, err := ctrl.extractor.ExtractEquipmentInfo(c.Request.Context(), backend, data, mimeType)
	if err != nil {
		respondProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// TranscribeAudio godoc
// @Summary      Transcribe a voice note
// @Description  Transcribe an uploaded audio file describing a repair, using an AI provider
// @Tags         extract
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio formData file true "Voice note (MP3, WAV, OGG or M4A)"
// @Param        provider formData string false "AI provider backend (gemini or openai, default gemini)"
// @Success      200 {object} dto.TranscriptionResponse "Transcribed text"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing or invalid file"
// @Failure      429 {object} dto.ErrorResponse "Provider quota exhausted"
// @Failure      502 {object} dto.ErrorResponse "Provider error"
// @Failure      503 {object} dto.ErrorResponse "Provider not configured"
// @Router       /extract/audio [post]
func (ctrl *ExtractController) TranscribeAudio(c *gin.Context) {
	backend, ok := requestedBackend(c, c.PostForm("provider"))
	if !ok {
		return
	}

	data, mimeType, ok := readUpload(c, "audio")
	if !ok {
		return
	}

	text, err := ctrl.extractor.TranscribeAudio(c.Request.Context(), backend, data, mimeType)
	if err != nil {
		respondProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptionResponse{
		Provider: string(backend),
		Text:     text,
	})
}

// AnalyzeText godoc
// @Summary      Analyze free text describing a repair
// @Description  Send free text to an AI provider and return its analysis
// @Tags         extract
// @Accept       json
// @Produce      json
// @Param        request body dto.AnalyzeTextRequest true "Text to analyze"
// @Success      200 {object} dto.AnalyzeTextResponse "Analysis result"
// @Failure      400 {object} dto.ErrorResponse "Bad request - validation error"
// @Failure      429 {object} dto.ErrorResponse "Provider quota exhausted"
// @Failure      502 {object} dto.ErrorResponse "Provider error"
// @Failure      503 {object} dto.ErrorResponse "Provider not configured"
// @Router       /extract/text [post]
func (ctrl *ExtractController) AnalyzeText(c *gin.Context) {
	var req dto.AnalyzeTextRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	backend, ok := requestedBackend(c, req.Provider)
	if !ok {
		return
	}

	analysis, err := ctrl.extractor.AnalyzeText(c.Request.Context(), backend, req.Text)
	if err != nil {
		respondProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AnalyzeTextResponse{
		Provider: string(backend),
		Analysis: analysis,
	})
}

// ListProviders godoc
// @Summary      List AI providers
// @Description  Report the configuration status of every known AI provider backend
// @Tags         providers
// @Produce      json
// @Success      200 {array} dto.ProviderStatus "Provider statuses"
// @Router       /providers [get]
func (ctrl *ExtractController) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.extractor.Providers())
}

// TestProvider godoc
// @Summary      Test a provider connection
// @Description  Send a minimal probe request to an AI provider and report the outcome
// @Tags         providers
// @Produce      json
// @Param        name path string true "Provider backend name (gemini or openai)"
// @Success      200 {object} dto.TestConnectionResponse "Probe result"
// @Failure      400 {object} dto.ErrorResponse "Unknown provider"
// @Failure      503 {object} dto.ErrorResponse "Provider not configured"
// @Router       /providers/{name}/test [post]
func (ctrl *ExtractController) TestProvider(c *gin.Context) {
	backend, ok := requestedBackend(c, c.Param("name"))
	if !ok {
		return
	}

	reply, err := ctrl.extractor.TestConnection(c.Request.Context(), backend)
	if err != nil {
		if provider.KindOf(err) == provider.ErrNotConfigured {
			respondProviderError(c, err)
			return
		}
		// connectivity failures are a probe result, not a request error
		c.JSON(http.StatusOK, dto.TestConnectionResponse{
			Success:  false,
			Response: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.TestConnectionResponse{
		Success:  true,
		Response: reply,
	})
}

// requestedBackend resolves the provider name from a request, rejecting
// unknown names with a 400.
func requestedBackend(c *gin.Context, name string) (provider.Backend, bool) {
	backend, err := provider.ParseBackend(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return "", false
	}
	return backend, true
}

// readUpload pulls one multipart file into memory.
func readUpload(c *gin.Context, field string) (data []byte, mimeType string, ok bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "archivo '" + field + "' requerido",
		})
		return nil, "", false
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "el archivo excede el tamaño máximo permitido (20MB)",
		})
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return nil, "", false
	}

	mimeType = fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, true
}

// respondProviderError maps a provider failure kind to an HTTP status.
func respondProviderError(c *gin.Context, err error) {
	kind := provider.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case provider.ErrNotConfigured:
		status = http.StatusServiceUnavailable
	case provider.ErrQuota:
		status = http.StatusTooManyRequests
	case provider.ErrAuth, provider.ErrTransient:
		status = http.StatusBadGateway
	}

	c.JSON(status, dto.ErrorResponse{
		Error: err.Error(),
		Kind:  string(kind),
	})
}
