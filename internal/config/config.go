package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port string

	GeminiAPIKey string
	GeminiModel  string // Optional: overrides the default Gemini model
	OpenAIAPIKey string
	OpenAIModel  string // Optional: overrides the default OpenAI model

	RepairsAPIURL     string // Optional: repairs backend base URL (leave empty to disable the proxy)
	RepairsAPITimeout time.Duration

	DefaultCountryCode string

	GeminiMinInterval    time.Duration
	OpenAIMinInterval    time.Duration
	GeminiRetryBaseDelay time.Duration
	OpenAIRetryBaseDelay time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	countryCode := os.Getenv("DEFAULT_COUNTRY_CODE")
	if countryCode == "" {
		countryCode = "+57"
	}

	return &Config{
		Port:         port,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"), // Optional
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"), // Optional

		RepairsAPIURL:     os.Getenv("REPAIRS_API_URL"), // Optional
		RepairsAPITimeout: durationFromEnv("REPAIRS_API_TIMEOUT_MS", 60000),

		DefaultCountryCode: countryCode,

		GeminiMinInterval:    durationFromEnv("GEMINI_MIN_INTERVAL_MS", 4000),
		OpenAIMinInterval:    durationFromEnv("OPENAI_MIN_INTERVAL_MS", 1000),
		GeminiRetryBaseDelay: durationFromEnv("GEMINI_RETRY_BASE_DELAY_MS", 5000),
		OpenAIRetryBaseDelay: durationFromEnv("OPENAI_RETRY_BASE_DELAY_MS", 3000),
	}
}

// durationFromEnv reads a millisecond value, falling back on empty or
// unparseable input.
func durationFromEnv(key string, fallbackMs int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackMs) * time.Millisecond
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return time.Duration(fallbackMs) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}
