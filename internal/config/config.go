package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port           string
	DataPath       string
	Backend        string
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables, falling back to
// defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		DataPath: getEnv("DATA_PATH", "./data/todos.csv"),
		Backend:  getEnv("STORE_BACKEND", "file"),
	}

	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return Config{}, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	if cfg.Backend != "file" && cfg.Backend != "sqlite" {
		return Config{}, fmt.Errorf("invalid STORE_BACKEND %q: must be 'file' or 'sqlite'", cfg.Backend)
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT %s: must be positive", timeout)
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
