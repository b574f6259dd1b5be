// Package openai implements the provider capability set against the OpenAI
// API over plain HTTP: chat completions with inline vision content for image
// analysis, and audio transcriptions for voice notes.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"tallerit/repair-intake-worker/internal/model/provider"
)

const (
	// DefaultBaseURL is the OpenAI API endpoint
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout for API requests
	DefaultTimeout = 120 * time.Second
	// DefaultModel is the default vision-capable chat model
	DefaultModel = "gpt-4o"
	// DefaultTranscriptionModel is the default speech-to-text model
	DefaultTranscriptionModel = "whisper-1"
	// PlaceholderAPIKey is the unset-credential marker from env templates.
	PlaceholderAPIKey = "YOUR_OPENAI_API_KEY"
)

// Config holds configuration for the OpenAI adapter
type Config struct {
	// APIKey is the OpenAI API key. Empty or placeholder disables the adapter.
	APIKey string
	// BaseURL is the API base URL (defaults to api.openai.com)
	BaseURL string
	// Model is the chat/vision model (default: gpt-4o)
	Model string
	// TranscriptionModel is the speech-to-text model (default: whisper-1)
	TranscriptionModel string
	// HTTPClient allows a custom HTTP client (optional)
	HTTPClient *http.Client
	// Timeout for requests (defaults to 120s)
	Timeout time.Duration
}

// Adapter implements provider.Provider against the OpenAI API
type Adapter struct {
	config     Config
	httpClient *http.Client
}

// NewAdapter creates a new OpenAI adapter instance. A missing or placeholder
// key yields an adapter that reports not-configured and refuses calls
// without any network attempt.
func NewAdapter(config Config) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.TranscriptionModel == "" {
		config.TranscriptionModel = DefaultTranscriptionModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	if config.APIKey == "" || config.APIKey == PlaceholderAPIKey {
		log.Printf("[OpenAIAdapter] No API key configured - adapter disabled")
	} else {
		log.Printf("[OpenAIAdapter] Initialized with model: %s", config.Model)
	}

	return &Adapter{
		config:     config,
		httpClient: httpClient,
	}
}

// Name implements provider.Provider.
func (a *Adapter) Name() provider.Backend {
	return provider.BackendOpenAI
}

// IsConfigured implements provider.Provider.
func (a *Adapter) IsConfigured() bool {
	return a.config.APIKey != "" && a.config.APIKey != PlaceholderAPIKey
}

// ExtractEquipmentInfo implements provider.Provider.
func (a *Adapter) ExtractEquipmentInfo(ctx context.Context, image []byte, mimeType string) (string, error) {
	if !a.IsConfigured() {
		return "", provider.NotConfiguredError(provider.BackendOpenAI)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	maxTokens := 1000
	temperature := float32(0.1)

	req := &chatRequest{
		Model: a.config.Model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: extractionPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL, Detail: "high"}},
				},
			},
		},
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	return a.chat(ctx, req)
}

// TranscribeAudio implements provider.Provider. Audio goes through the
// transcriptions endpoint as a multipart upload.
func (a *Adapter) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if !a.IsConfigured() {
		return "", provider.NotConfiguredError(provider.BackendOpenAI)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	filename := "audio" + extensionForMime(mimeType)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", provider.Classify(provider.BackendOpenAI, fmt.Errorf("failed to build upload: %w", err))
	}
	if _, err := part.Write(audio); err != nil {
		return "", provider.Classify(provider.BackendOpenAI, fmt.Errorf("failed to build upload: %w", err))
	}
	_ = writer.WriteField("model", a.config.TranscriptionModel)
	_ = writer.WriteField("language", "es")
	if err := writer.Close(); err != nil {
		return "", provider.Classify(provider.BackendOpenAI, fmt.Errorf("failed to build upload: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", provider.Classify(provider.BackendOpenAI, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	respBody, err := a.do(httpReq)
	if err != nil {
		return "", err
	}
	defer respBody.Close()

	var resp transcriptionResponse
	if err := json.NewDecoder(respBody).Decode(&resp); err != nil {
		return "", provider.Classify(provider.BackendOpenAI, fmt.Errorf("failed to decode response: %w", err))
	}

	transcription := strings.TrimSpace(resp.Text)
	if transcription == "" {
		return "", provider.WrapError(provider.BackendOpenAI, provider.ErrTransient,
			"no se pudo transcribir el audio", nil)
	}
	return transcription, nil
}

// AnalyzeText implements provider.Provider.
func (a *Adapter) AnalyzeText(ctx context.Context, text string) (string, error) {
	if !a.IsConfigured() {
		return "", provider.NotConfiguredError(provider.BackendOpenAI)
	}
	prompt := fmt.Sprintf("Analiza el siguiente texto y proporciona un resumen útil: %q", text)
	return a.chat(ctx, &chatRequest{
		Model:    a.config.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
}

// TestConnection implements provider.Provider.
func (a *Adapter) TestConnection(ctx context.Context) (string, error) {
	if !a.IsConfigured() {
		return "", provider.NotConfiguredError(provider.BackendOpenAI)
	}
	return a.chat(ctx, &chatRequest{
		Model:    a.config.Model,
		Messages: []chatMessage{{Role: "user", Content: `Responde solo "OK" si puedes procesar este mensaje.`}},
	})
}

// chat performs a chat completions request and returns the assistant text.
func (a *Adapter) chat(ctx context.Context, req *chatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", provider.Classify(provider.BackendOpenAI, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", provider.Classify(provider.BackendOpenAI, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	respBody, err := a.do(httpReq)
	if err != nil {
		return "", err
	}
	defer respBody.Close()

	var resp chatResponse
	if err := json.NewDecoder(respBody).Decode(&resp); err != nil {
		return "", provider.Classify(provider.BackendOpenAI, fmt.Errorf("failed to decode response: %w", err))
	}
	if resp.Error != nil {
		return "", provider.Classify(provider.BackendOpenAI,
			fmt.Errorf("OpenAI API error: %s (code: %v)", resp.Error.Message, resp.Error.Code))
	}
	if len(resp.Choices) == 0 {
		return "", provider.WrapError(provider.BackendOpenAI, provider.ErrTransient,
			"respuesta vacía del proveedor", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

// do executes the request and classifies HTTP-level failures by status code.
func (a *Adapter) do(req *http.Request) (io.ReadCloser, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, provider.WrapError(provider.BackendOpenAI, provider.ErrTransient,
			"error de red, no se puede conectar al proveedor", err)
	}

	if resp.StatusCode == http.StatusOK {
		return resp.Body, nil
	}

	defer resp.Body.Close()
	bodyBytes, _ := io.ReadAll(resp.Body)
	apiErr := fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, provider.WrapError(provider.BackendOpenAI, provider.ErrAuth,
			"API key de OpenAI inválida, verifica tu configuración", apiErr)
	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, provider.WrapError(provider.BackendOpenAI, provider.ErrQuota,
			"sin créditos en OpenAI, verifica tu facturación", apiErr)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, provider.WrapError(provider.BackendOpenAI, provider.ErrQuota,
			"límite de cuota excedido", apiErr)
	case resp.StatusCode >= 500:
		return nil, provider.WrapError(provider.BackendOpenAI, provider.ErrTransient,
			"error del servidor del proveedor", apiErr)
	default:
		return nil, provider.Classify(provider.BackendOpenAI, apiErr)
	}
}

func extensionForMime(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "webm"):
		return ".webm"
	case strings.Contains(mimeType, "mp3") || strings.Contains(mimeType, "mpeg"):
		return ".mp3"
	case strings.Contains(mimeType, "wav"):
		return ".wav"
	case strings.Contains(mimeType, "ogg"):
		return ".ogg"
	case strings.Contains(mimeType, "m4a") || strings.Contains(mimeType, "mp4"):
		return ".m4a"
	default:
		return ".webm"
	}
}
