package dto

// ExtractedEquipmentInfo is the sanitized result of analyzing a device
// photo. Absence is always an empty string or false, never a sentinel token
// or a missing key.
// @Description Structured equipment details extracted from a device photo
type ExtractedEquipmentInfo struct {
	// Owner name read from labels or stickers, empty if not found
	OwnerName string `json:"ownerName" example:"Juan Pérez"`
	// Contact number in E.164-like form, empty if not found
	ContactNumber string `json:"contactNumber" example:"+573001234567"`
	// Whether a charger is visible in the photo
	HasCharger bool `json:"hasCharger" example:"true"`
	// Device category, empty if unknown
	DeviceType string `json:"deviceType" example:"Laptop"`
	// Brand and model, empty if unknown
	BrandModel string `json:"brandModel" example:"Dell Latitude 5420"`
}

// IsEmpty reports whether nothing at all could be determined.
func (e ExtractedEquipmentInfo) IsEmpty() bool {
	return e.OwnerName == "" && e.ContactNumber == "" && !e.HasCharger &&
		e.DeviceType == "" && e.BrandModel == ""
}

// AnalyzeTextRequest asks a provider for a summary of free text
// @Description Free-text analysis request
type AnalyzeTextRequest struct {
	// Text to analyze
	Text string `json:"text" binding:"required" example:"La laptop no enciende y la pantalla permanece negra"`
	// Provider backend to use (gemini or openai, default gemini)
	Provider string `json:"provider" example:"gemini"`
}

// AnalyzeTextResponse carries the provider's summary
// @Description Result of a free-text analysis
type AnalyzeTextResponse struct {
	// Provider backend that produced the analysis
	Provider string `json:"provider" example:"gemini"`
	// Analysis text
	Analysis string `json:"analysis"`
}

// TranscriptionResponse carries a voice note transcription
// @Description Result of an audio transcription
type TranscriptionResponse struct {
	// Provider backend that produced the transcription
	Provider string `json:"provider" example:"gemini"`
	// Transcribed text
	Text string `json:"text"`
}

// ProviderStatus describes one configured (or unconfigured) AI backend
// @Description Configuration status of an AI provider
type ProviderStatus struct {
	// Backend name
	Name string `json:"name" example:"gemini"`
	// Whether a usable credential is present
	Configured bool `json:"configured" example:"true"`
}

// TestConnectionResponse is the result of a provider connectivity probe
// @Description Result of a provider connection test
type TestConnectionResponse struct {
	// Whether the probe round trip succeeded
	Success bool `json:"success" example:"true"`
	// Raw provider reply (on success) or error detail (on failure)
	Response string `json:"response" example:"OK"`
}

// ErrorResponse represents an error response
// @Description Error response returned when a request fails
type ErrorResponse struct {
	// Error message describing what went wrong
	Error string `json:"error" example:"límite de cuota excedido, intenta nuevamente en unos minutos"`
	// Machine-readable failure kind (not_configured, auth, quota, transient)
	Kind string `json:"kind,omitempty" example:"quota"`
}
