package config

import (
	"os"
	"strconv"
	"time"
)

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	EstimatorTimeout time.Duration
	// EstimatorEnabled is decided once at startup and passed into the
	// forecast engine as an explicit capability flag, so both prediction
	// branches can be exercised deterministically in tests.
	EstimatorEnabled bool
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Sample .env files ship with this placeholder; a key equal to it means
// the estimator is not actually configured.
const placeholderAPIKey = "your_gemini_api_key"

// Load reads configuration from environment variables.
func Load() {
	key := os.Getenv("GEMINI_API_KEY")

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-pro-latest"
	}

	timeout := 20 * time.Second
	if raw := os.Getenv("ESTIMATOR_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	AppConfig = Config{
		GeminiAPIKey:     key,
		GeminiModel:      model,
		EstimatorTimeout: timeout,
		EstimatorEnabled: key != "" && key != placeholderAPIKey,
	}
}
