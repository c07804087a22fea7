package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),

		Catalog: CatalogConfig{
			BaseURL:   "https://civitai.com/api/v1/models",
			RateLimit: 30,
			Timeout:   30 * time.Second,
		},
	}
}
