package gemini

import (
	"errors"
	"strings"
	"testing"

	"github.com/lumen-labs/lumen/core"
	"github.com/lumen-labs/lumen/providers"
)

func TestNewDefaults(t *testing.T) {
	p := New("test-key")

	if p.ID() != "gemini" {
		t.Errorf("ID() = %q, want 'gemini'", p.ID())
	}
	if p.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", p.config.BaseURL)
	}
	if p.config.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", p.config.Model, DefaultModel)
	}
}

func TestBuildHeaders(t *testing.T) {
	p := New("secret-key", WithHeader("X-Custom", "value"))

	headers := p.buildHeaders()

	if got := headers.Get("x-goog-api-key"); got != "secret-key" {
		t.Errorf("x-goog-api-key = %q", got)
	}
	if got := headers.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := headers.Get("X-Custom"); got != "value" {
		t.Errorf("X-Custom = %q", got)
	}
}

func TestAPIKeyRedacted(t *testing.T) {
	p := New("secret-key")

	if strings.Contains(p.apiKey.String(), "secret-key") {
		t.Error("API key should be redacted in String()")
	}
}

func TestRegistryFactory(t *testing.T) {
	if !providers.IsRegistered("gemini") {
		t.Fatal("gemini should self-register")
	}

	_, err := providers.Create("gemini", providers.Config{})
	if !errors.Is(err, core.ErrConfig) {
		t.Errorf("Create without API key: error = %v, want ErrConfig", err)
	}

	p, err := providers.Create("gemini", providers.Config{
		APIKey:  "k",
		BaseURL: "http://example.test",
		Model:   "gemini-custom",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	g, ok := p.(*Gemini)
	if !ok {
		t.Fatalf("provider type = %T", p)
	}
	if g.config.BaseURL != "http://example.test" {
		t.Errorf("BaseURL = %q", g.config.BaseURL)
	}
	if g.config.Model != "gemini-custom" {
		t.Errorf("Model = %q", g.config.Model)
	}
}
