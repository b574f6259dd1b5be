package handlers

import (
	"context"
	"log"
	"time"

	"tallerit/repair-intake-worker/internal/dto"
	"tallerit/repair-intake-worker/internal/model/pacer"
	"tallerit/repair-intake-worker/internal/model/provider"
	"tallerit/repair-intake-worker/internal/sanitize"
)

// ExtractorConfig holds configuration for the ExtractorHandler
type ExtractorConfig struct {
	// DefaultCountryCode is prepended to bare 10-digit local numbers
	DefaultCountryCode string
	// GeminiRetryBaseDelay is the quota backoff base for Gemini calls
	GeminiRetryBaseDelay time.Duration
	// OpenAIRetryBaseDelay is the quota backoff base for OpenAI calls
	OpenAIRetryBaseDelay time.Duration
}

// ExtractorHandler is the extraction pipeline orchestrator: it paces each
// provider call, runs it under the retry policy, parses the free-form reply
// (with heuristic fallback) and sanitizes every field before returning.
type ExtractorHandler struct {
	providers   map[provider.Backend]provider.Provider
	pacer       *pacer.Pacer
	retries     map[provider.Backend]*RetryPolicy
	countryCode string
}

// NewExtractorHandler creates the pipeline over the given adapters.
// Unconfigured adapters stay registered so their status is reportable; their
// calls fail fast with a not-configured error.
func NewExtractorHandler(config ExtractorConfig, p *pacer.Pacer, providers ...provider.Provider) *ExtractorHandler {
	if config.DefaultCountryCode == "" {
		config.DefaultCountryCode = sanitize.DefaultCountryCode
	}
	if config.GeminiRetryBaseDelay == 0 {
		config.GeminiRetryBaseDelay = 5 * time.Second
	}
	if config.OpenAIRetryBaseDelay == 0 {
		config.OpenAIRetryBaseDelay = 3 * time.Second
	}

	byBackend := make(map[provider.Backend]provider.Provider, len(providers))
	for _, adapter := range providers {
		byBackend[adapter.Name()] = adapter
		log.Printf("[ExtractorHandler] Registered provider %s (configured: %v)",
			adapter.Name(), adapter.IsConfigured())
	}

	return &ExtractorHandler{
		providers: byBackend,
		pacer:     p,
		retries: map[provider.Backend]*RetryPolicy{
			provider.BackendGemini: NewRetryPolicy(provider.BackendGemini, config.GeminiRetryBaseDelay),
			provider.BackendOpenAI: NewRetryPolicy(provider.BackendOpenAI, config.OpenAIRetryBaseDelay),
		},
		countryCode: config.DefaultCountryCode,
	}
}

// ExtractEquipmentInfo analyzes a device photo and returns the sanitized
// structured record. Unparseable provider replies resolve to a best-effort
// record, never an error; every other failure kind surfaces classified.
func (h *ExtractorHandler) ExtractEquipmentInfo(ctx context.Context, backend provider.Backend, image []byte, mimeType string) (*dto.ExtractedEquipmentInfo, error) {
	adapter, err := h.adapter(backend)
	if err != nil {
		return nil, err
	}

	log.Printf("[ExtractorHandler] Analyzing image with %s (%d bytes, %s)", backend, len(image), mimeType)

	text, err := h.retries[backend].Do(ctx, "extract", func(ctx context.Context) (string, error) {
		if err := h.pacer.Pace(ctx, backend); err != nil {
			return "", err
		}
		return adapter.ExtractEquipmentInfo(ctx, image, mimeType)
	})
	if err != nil {
		return nil, err
	}

	raw := ParseExtraction(text)
	info := h.sanitizeExtraction(raw)
	log.Printf("[ExtractorHandler] Extraction complete (owner: %q, device: %q, charger: %v)",
		info.OwnerName, info.DeviceType, info.HasCharger)
	return info, nil
}

// TranscribeAudio transcribes a voice note through the selected backend.
func (h *ExtractorHandler) TranscribeAudio(ctx context.Context, backend provider.Backend, audio []byte, mimeType string) (string, error) {
	adapter, err := h.adapter(backend)
	if err != nil {
		return "", err
	}

	log.Printf("[ExtractorHandler] Transcribing audio with %s (%d bytes)", backend, len(audio))

	return h.retries[backend].Do(ctx, "transcribe", func(ctx context.Context) (string, error) {
		if err := h.pacer.Pace(ctx, backend); err != nil {
			return "", err
		}
		return adapter.TranscribeAudio(ctx, audio, mimeType)
	})
}

// AnalyzeText asks the selected backend for a summary of free text.
func (h *ExtractorHandler) AnalyzeText(ctx context.Context, backend provider.Backend, text string) (string, error) {
	adapter, err := h.adapter(backend)
	if err != nil {
		return "", err
	}

	return h.retries[backend].Do(ctx, "analyze", func(ctx context.Context) (string, error) {
		if err := h.pacer.Pace(ctx, backend); err != nil {
			return "", err
		}
		return adapter.AnalyzeText(ctx, text)
	})
}

// TestConnection probes the selected backend with a minimal round trip.
// No retry: the probe's point is reporting the current state.
func (h *ExtractorHandler) TestConnection(ctx context.Context, backend provider.Backend) (string, error) {
	adapter, err := h.adapter(backend)
	if err != nil {
		return "", err
	}
	if err := h.pacer.Pace(ctx, backend); err != nil {
		return "", provider.Classify(backend, err)
	}
	reply, err := adapter.TestConnection(ctx)
	if err != nil {
		return "", provider.Classify(backend, err)
	}
	return reply, nil
}

// Providers reports the configuration status of every registered backend.
func (h *ExtractorHandler) Providers() []dto.ProviderStatus {
	statuses := make([]dto.ProviderStatus, 0, len(h.providers))
	for _, backend := range []provider.Backend{provider.BackendGemini, provider.BackendOpenAI} {
		if adapter, ok := h.providers[backend]; ok {
			statuses = append(statuses, dto.ProviderStatus{
				Name:       string(backend),
				Configured: adapter.IsConfigured(),
			})
		}
	}
	return statuses
}

func (h *ExtractorHandler) adapter(backend provider.Backend) (provider.Provider, error) {
	adapter, ok := h.providers[backend]
	if !ok || !adapter.IsConfigured() {
		return nil, provider.NotConfiguredError(backend)
	}
	return adapter, nil
}

// sanitizeExtraction applies the field sanitizer to every raw field,
// translating sentinel tokens away before the record leaves the pipeline.
func (h *ExtractorHandler) sanitizeExtraction(raw provider.RawExtraction) *dto.ExtractedEquipmentInfo {
	return &dto.ExtractedEquipmentInfo{
		OwnerName:     sanitize.CleanText(raw.NombreCliente),
		ContactNumber: sanitize.CleanPhone(raw.WhatsappNumber, h.countryCode),
		HasCharger:    sanitize.CleanBoolean(raw.TieneCargador),
		DeviceType:    sanitize.CleanText(raw.TipoEquipo),
		BrandModel:    sanitize.CleanText(raw.MarcaModelo),
	}
}
