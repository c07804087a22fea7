package config

import (
	"os"
	"path/filepath"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Main SQLite database
	Config   string // Config file
	Exports  string // Export output directory
	Logs     string // Log directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "lorakeep.db"),
		Config:   filepath.Join(cfg.BaseDir, "config.yaml"),
		Exports:  filepath.Join(cfg.BaseDir, "exports"),
		Logs:     filepath.Join(cfg.BaseDir, "logs"),
	}
}

// DefaultBaseDir returns the default base directory (~/.lorakeep).
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lorakeep"
	}
	return filepath.Join(home, ".lorakeep")
}
