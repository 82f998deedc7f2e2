package commands

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/lumen-labs/lumen/cli/config"
	"github.com/lumen-labs/lumen/core"
)

func TestBuildPreprocessorDisabledWithoutStages(t *testing.T) {
	cfg = &config.Config{}

	if pre := buildPreprocessor(slog.New(slog.NewTextHandler(io.Discard, nil))); pre != nil {
		t.Error("no detector and no OCR should yield a nil preprocessor")
	}
}

func TestBuildPreprocessorWithDetector(t *testing.T) {
	cfg = &config.Config{DetectorURL: "http://localhost:8000/detect"}

	if pre := buildPreprocessor(slog.New(slog.NewTextHandler(io.Discard, nil))); pre == nil {
		t.Error("configured detector should yield a preprocessor")
	}
}

func TestProviderFromConfigUnknownBackend(t *testing.T) {
	cfg = &config.Config{Provider: "no-such-backend"}

	_, err := providerFromConfig()
	if !errors.Is(err, core.ErrConfig) {
		t.Errorf("error = %v, want ErrConfig", err)
	}
}

func TestProviderFromConfigGeminiWithoutKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HOME", t.TempDir())
	cfg = &config.Config{Provider: "gemini"}

	_, err := providerFromConfig()
	if !errors.Is(err, core.ErrConfig) {
		t.Errorf("error = %v, want ErrConfig", err)
	}
}

func TestProviderFromConfigGeminiFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg = &config.Config{Provider: "gemini"}

	p, err := providerFromConfig()
	if err != nil {
		t.Fatalf("providerFromConfig() error = %v", err)
	}
	if p.ID() != "gemini" {
		t.Errorf("ID() = %q", p.ID())
	}
}

func TestProviderFromConfigOllama(t *testing.T) {
	cfg = &config.Config{Provider: "ollama", Ollama: config.OllamaConfig{Model: "llava"}}

	p, err := providerFromConfig()
	if err != nil {
		t.Fatalf("providerFromConfig() error = %v", err)
	}
	if p.ID() != "ollama" {
		t.Errorf("ID() = %q", p.ID())
	}
}
