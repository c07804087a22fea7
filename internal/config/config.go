// Package config handles application configuration management.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all lorakeep data (~/.lorakeep)
	BaseDir string

	// Catalog API settings
	Catalog CatalogConfig
}

// CatalogConfig holds catalog API settings.
type CatalogConfig struct {
	// BaseURL of the model catalog API
	BaseURL string
	// Token for authenticated requests (optional)
	Token string
	// RateLimit in requests per minute
	RateLimit int
	// Timeout per request
	Timeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if dir := os.Getenv("LORAKEEP_BASE_DIR"); dir != "" {
		cfg.BaseDir = dir
	}

	if base := os.Getenv("LORAKEEP_API_BASE"); base != "" {
		cfg.Catalog.BaseURL = base
	}

	if token := os.Getenv("CIVITAI_API_TOKEN"); token != "" {
		cfg.Catalog.Token = token
	}

	// Ensure directories exist
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{
		cfg.BaseDir,
		filepath.Join(cfg.BaseDir, "exports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
