// Package gemini implements the provider capability set on Google AI Studio
// (Gemini API) through the Google ADK runner.
package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tallerit/repair-intake-worker/internal/model/provider"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model, fast and multimodal.
	DefaultModel = "gemini-2.5-flash"
	// PlaceholderAPIKey is the unset-credential marker from env templates.
	PlaceholderAPIKey = "YOUR_GEMINI_API_KEY"

	appName = "equipment_extractor"
	userID  = "system"
)

// Config holds configuration for the Gemini adapter.
type Config struct {
	// APIKey is the Google AI Studio key. Empty or placeholder means the
	// adapter reports not-configured and refuses calls.
	APIKey string
	// Model is the Gemini model name (default: gemini-2.5-flash).
	Model string
}

// Adapter implements provider.Provider against the Gemini API.
type Adapter struct {
	config         Config
	runner         *runner.Runner
	sessionService session.Service
	configured     bool
}

// NewAdapter creates the Gemini adapter. With a missing or placeholder key
// it still succeeds, returning an adapter whose calls fail with a
// not-configured error before any network attempt.
func NewAdapter(ctx context.Context, config Config) (*Adapter, error) {
	if config.Model == "" {
		config.Model = DefaultModel
	}

	a := &Adapter{config: config}
	if config.APIKey == "" || config.APIKey == PlaceholderAPIKey {
		log.Printf("[GeminiAdapter] No API key configured - adapter disabled")
		return a, nil
	}

	model, err := gemini.NewModel(ctx, config.Model, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("[GeminiAdapter] Failed to create Gemini model: %v", err)
		return nil, fmt.Errorf("failed to create Gemini model: %w", err)
	}

	extractorAgent, err := llmagent.New(llmagent.Config{
		Name:        "equipment_extractor_agent",
		Model:       model,
		Description: "An AI agent that reads repair intake details from device photos and voice notes.",
		Instruction: agentInstruction,
	})
	if err != nil {
		log.Printf("[GeminiAdapter] Failed to create agent: %v", err)
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          extractorAgent,
		SessionService: sessionService,
	})
	if err != nil {
		log.Printf("[GeminiAdapter] Failed to create runner: %v", err)
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	log.Printf("[GeminiAdapter] Initialized with model: %s", config.Model)

	a.runner = r
	a.sessionService = sessionService
	a.configured = true
	return a, nil
}

const agentInstruction = `Eres un asistente de un taller de reparación de equipos electrónicos.
Analizas fotos de equipos, transcribes notas de voz y resumes descripciones de problemas técnicos.
Sigue exactamente el formato de salida que pide cada solicitud y nunca inventes información.`

// Name implements provider.Provider.
func (a *Adapter) Name() provider.Backend {
	return provider.BackendGemini
}

// IsConfigured implements provider.Provider.
func (a *Adapter) IsConfigured() bool {
	return a.configured
}

// ExtractEquipmentInfo implements provider.Provider.
func (a *Adapter) ExtractEquipmentInfo(ctx context.Context, image []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		{Text: extractionPrompt},
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
	}
	return a.generate(ctx, parts)
}

// TranscribeAudio implements provider.Provider.
func (a *Adapter) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
		{Text: transcriptionPrompt},
	}
	transcription, err := a.generate(ctx, parts)
	if err != nil {
		return "", err
	}
	transcription = strings.TrimSpace(transcription)
	if transcription == "" {
		return "", provider.WrapError(provider.BackendGemini, provider.ErrTransient,
			"no se pudo transcribir el audio", nil)
	}
	return transcription, nil
}

// AnalyzeText implements provider.Provider.
func (a *Adapter) AnalyzeText(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Analiza el siguiente texto y proporciona un resumen útil: %q", text)
	return a.generate(ctx, []*genai.Part{{Text: prompt}})
}

// TestConnection implements provider.Provider.
func (a *Adapter) TestConnection(ctx context.Context) (string, error) {
	return a.generate(ctx, []*genai.Part{
		{Text: `Responde solo "OK" si puedes procesar este mensaje.`},
	})
}

// generate runs one user message through the ADK runner and collects the
// model's text reply. Each call gets its own short-lived session.
func (a *Adapter) generate(ctx context.Context, parts []*genai.Part) (string, error) {
	if !a.configured {
		return "", provider.NotConfiguredError(provider.BackendGemini)
	}

	createResp, err := a.sessionService.Create(ctx, &session.CreateRequest{
		AppName: appName,
		UserID:  userID,
	})
	if err != nil {
		return "", provider.Classify(provider.BackendGemini, fmt.Errorf("failed to create session: %w", err))
	}
	sessionID := createResp.Session.ID()
	defer func() {
		_ = a.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role:  "user",
		Parts: parts,
	}

	var responseText strings.Builder
	runConfig := agent.RunConfig{
		StreamingMode: agent.StreamingModeNone,
	}

	for event, err := range a.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			log.Printf("[GeminiAdapter] Error during generation: %v", err)
			return "", provider.Classify(provider.BackendGemini, err)
		}
		if event.Content != nil {
			for _, part := range event.Content.Parts {
				if part.Text != "" {
					responseText.WriteString(part.Text)
				}
			}
		}
	}

	return responseText.String(), nil
}
