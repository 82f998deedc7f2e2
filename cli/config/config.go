// Package config handles CLI configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	// Provider selects the generation backend: "gemini" or "ollama".
	Provider string `yaml:"provider"`

	// ListenAddr is the address the HTTP service binds to.
	ListenAddr string `yaml:"listen_addr"`

	// DetectorURL is the object-detection inference endpoint. Empty
	// disables detection.
	DetectorURL string `yaml:"detector_url,omitempty"`

	// OCREnabled turns on local text recognition.
	OCREnabled bool `yaml:"ocr_enabled"`

	Gemini GeminiConfig `yaml:"gemini,omitempty"`
	Ollama OllamaConfig `yaml:"ollama,omitempty"`
}

// GeminiConfig holds overrides for the remote backend.
type GeminiConfig struct {
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// OllamaConfig holds overrides for the local backend.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// Defaults applied when neither file nor environment sets a value.
const (
	DefaultProvider   = "gemini"
	DefaultListenAddr = ":8080"
)

// DefaultConfigPath returns the default configuration file path.
// - macOS/Linux: ~/.lumen/config.yaml
// - Windows: %USERPROFILE%\.lumen\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".lumen", "config.yaml")
}

// LoadConfig loads configuration from the specified path, then applies
// environment overrides and defaults. A missing file is not an error.
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

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overlays environment variables onto the file configuration.
// Environment wins over the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("LUMEN_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DETECTOR_URL"); v != "" {
		c.DetectorURL = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		c.Ollama.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.Ollama.Model = v
	}
}

func (c *Config) applyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
}
