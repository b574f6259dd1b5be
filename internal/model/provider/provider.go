// Package provider defines the capability set shared by all multimodal AI
// backends, the closed set of supported backends and the typed errors that
// classify provider call failures.
package provider

import (
	"context"
	"fmt"
)

// Backend identifies an AI backend.
type Backend string

const (
	// BackendGemini uses Google AI Studio (Gemini API).
	BackendGemini Backend = "gemini"
	// BackendOpenAI uses the OpenAI API.
	BackendOpenAI Backend = "openai"
)

// ParseBackend resolves a request-supplied backend name. An empty name
// selects Gemini, the primary backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendGemini, "":
		return BackendGemini, nil
	case BackendOpenAI:
		return BackendOpenAI, nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", s)
	}
}

// Provider is the capability set implemented once per AI backend.
// Every media call returns the provider's raw text reply; turning that text
// into a structured record is the response parser's job, not the adapter's.
// Calls on an unconfigured adapter fail with a not_configured error before
// any network attempt.
type Provider interface {
	// Name returns the backend this adapter talks to.
	Name() Backend

	// IsConfigured reports whether a non-placeholder credential is present.
	IsConfigured() bool

	// ExtractEquipmentInfo asks the model to read owner/contact/device
	// details from a device photo and answer with the five-key JSON contract.
	ExtractEquipmentInfo(ctx context.Context, image []byte, mimeType string) (string, error)

	// TranscribeAudio transcribes a short Spanish voice note describing a
	// technical problem.
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)

	// AnalyzeText asks the model for a short useful summary of free text.
	AnalyzeText(ctx context.Context, text string) (string, error)

	// TestConnection performs a minimal round trip to verify the credential.
	TestConnection(ctx context.Context) (string, error)
}

// RawExtraction is the five-key JSON object the extraction prompt demands.
// Field values may still carry sentinel tokens ("NO_ENCONTRADO") or
// affirmation words ("SÍ"/"NO"); the sanitizer translates those away.
type RawExtraction struct {
	NombreCliente  string `json:"nombreCliente"`
	WhatsappNumber string `json:"whatsappNumber"`
	TieneCargador  string `json:"tieneCargador"`
	TipoEquipo     string `json:"tipoEquipo"`
	MarcaModelo    string `json:"marcaModelo"`
}
