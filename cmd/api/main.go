package main

import (
	"context"
	"log"
	"time"

	"tallerit/repair-intake-worker/internal/api"
	"tallerit/repair-intake-worker/internal/config"
	"tallerit/repair-intake-worker/internal/handlers"
	"tallerit/repair-intake-worker/internal/model/gemini"
	"tallerit/repair-intake-worker/internal/model/openai"
	"tallerit/repair-intake-worker/internal/model/pacer"
	"tallerit/repair-intake-worker/internal/model/provider"

	_ "tallerit/repair-intake-worker/docs" // Swagger generated docs
)

// @title Repair Intake Worker API
// @version 1.0
// @description A REST API service that extracts equipment details from device photos and voice notes using AI providers, and proxies repair card operations to the repairs backend.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @schemes http https
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize the Gemini adapter. A missing key yields a disabled
	// adapter rather than a startup failure, so the other provider and the
	// repairs proxy stay available.
	geminiAdapter, err := gemini.NewAdapter(context.Background(), gemini.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Gemini adapter: %v", err)
	}
	if geminiAdapter.IsConfigured() {
		model := cfg.GeminiModel
		if model == "" {
			model = gemini.DefaultModel
		}
		log.Printf("Gemini adapter initialized - extraction enabled (model: %s)", model)
	} else {
		log.Printf("GEMINI_API_KEY not set - Gemini extraction disabled")
	}

	// Initialize the OpenAI adapter
	openaiAdapter := openai.NewAdapter(openai.Config{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
	})
	if openaiAdapter.IsConfigured() {
		model := cfg.OpenAIModel
		if model == "" {
			model = openai.DefaultModel
		}
		log.Printf("OpenAI adapter initialized - extraction enabled (model: %s)", model)
	} else {
		log.Printf("OPENAI_API_KEY not set - OpenAI extraction disabled")
	}

	// Per-provider request pacing
	requestPacer := pacer.New(map[provider.Backend]time.Duration{
		provider.BackendGemini: cfg.GeminiMinInterval,
		provider.BackendOpenAI: cfg.OpenAIMinInterval,
	})

	// Extraction pipeline orchestrator
	extractor := handlers.NewExtractorHandler(handlers.ExtractorConfig{
		DefaultCountryCode:   cfg.DefaultCountryCode,
		GeminiRetryBaseDelay: cfg.GeminiRetryBaseDelay,
		OpenAIRetryBaseDelay: cfg.OpenAIRetryBaseDelay,
	}, requestPacer, geminiAdapter, openaiAdapter)

	// Initialize RepairAPIHandler if the backend URL is configured
	var repairAPI *handlers.RepairAPIHandler
	if cfg.RepairsAPIURL != "" {
		repairAPI, err = handlers.NewRepairAPIHandler(handlers.RepairAPIConfig{
			BaseURL:     cfg.RepairsAPIURL,
			Timeout:     cfg.RepairsAPITimeout,
			CountryCode: cfg.DefaultCountryCode,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize RepairAPIHandler: %v", err)
			log.Printf("Continuing without repairs proxy functionality")
			repairAPI = nil
		} else {
			log.Printf("RepairAPIHandler initialized - repairs proxy enabled")
		}
	} else {
		log.Printf("REPAIRS_API_URL not set - repairs proxy disabled")
	}

	// Setup router
	router := api.NewRouter(extractor, repairAPI)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
