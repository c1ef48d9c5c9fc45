package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is the canonical backend address. Deployments that
	// serve the API elsewhere set API_BASE_URL.
	DefaultBaseURL = "http://localhost:8002"
	// DefaultTimeout bounds every HTTP call issued by the client.
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the hrpulse client.
type Config struct {
	BaseURL     string        // Backend base URL (API_BASE_URL)
	Timeout     time.Duration // Per-request timeout (API_TIMEOUT_MS)
	LogLevel    string        // Log level: debug, info, warn, error
	LogFormat   string        // Log format: text, json
	HistoryPath string        // SQLite job-history path (":memory:" for testing)
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds a Config from the environment. A .env file in the working
// directory is applied first if present; real environment variables win
// over it.
func Load() (Config, error) {
	// Best-effort: a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("API_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("invalid API_TIMEOUT_MS %q", v)
		}
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("HRPULSE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HRPULSE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("HRPULSE_HISTORY"); v != "" {
		cfg.HistoryPath = v
	}

	return cfg, nil
}

// HistoryDBPath returns the job-history database path, defaulting to
// ~/.hrpulse/history.db when unconfigured.
func (c Config) HistoryDBPath() (string, error) {
	if c.HistoryPath != "" {
		return c.HistoryPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".hrpulse", "history.db"), nil
}
