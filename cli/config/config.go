// Package config handles CLI configuration loading and management.
//
// Configuration is resolved in three layers: the YAML config file, a .env
// file in the working directory when present, and process environment
// variables. Later layers win.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	DefaultModel string `yaml:"default_model" env:"VENICE_MODEL"`
	BaseURL      string `yaml:"base_url,omitempty" env:"VENICE_BASE_URL"`

	// APIKey and AdminKey come from the environment only; the config file
	// stores no secrets.
	APIKey   string `yaml:"-" env:"VENICE_API_KEY"`
	AdminKey string `yaml:"-" env:"VENICE_ADMIN_API_KEY"`

	// RequestTimeout is a per-request timeout such as "30s". Empty means
	// no timeout.
	RequestTimeout string `yaml:"request_timeout,omitempty" env:"VENICE_REQUEST_TIMEOUT"`
}

// DefaultConfigPath returns the default configuration file path for the
// current platform.
//   - macOS/Linux: ~/.venice/config.yaml
//   - Windows: %USERPROFILE%\.venice\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		// Fallback to current directory
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".venice", "config.yaml")
}

// LoadConfig loads configuration from the specified path and overlays
// environment variables. A missing config file is not an error; a present
// but unreadable or malformed file is.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// A .env in the working directory is a convenience for development;
	// absence is the normal case.
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
