// ABOUTME: Configuration loader for the LeishVet CLI
// ABOUTME: Loads settings from .env files and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL         string // backend base URL
	RequestTimeout int    // seconds, per-request HTTP timeout
	ConfigDir      string // persistent token tier and other client state
	RuntimeDir     string // ephemeral token tier
}

// Load reads configuration from a .env file (if present) and the
// environment. Directory defaults follow the XDG spec and are filled in by
// the session store when left empty.
func Load() (*Config, error) {
	// A missing .env is fine; explicit env vars win over file values
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         ensureScheme(getEnv("LEISHVET_API_URL", "http://localhost:8000")),
		RequestTimeout: getEnvInt("LEISHVET_TIMEOUT", 30),
		ConfigDir:      os.Getenv("LEISHVET_CONFIG_DIR"),
		RuntimeDir:     os.Getenv("LEISHVET_RUNTIME_DIR"),
	}

	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 600 {
		return nil, fmt.Errorf("LEISHVET_TIMEOUT must be between 1 and 600, got %d", cfg.RequestTimeout)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
