package gemini

import (
	"context"
	"net/http"

	"github.com/lumen-labs/lumen/core"
)

// Gemini is a generation backend for the Google Gemini API.
// Gemini is safe for concurrent use.
type Gemini struct {
	config Config
	apiKey core.Secret
}

// New creates a new Gemini backend with the given API key and options.
func New(apiKey string, opts ...Option) *Gemini {
	cfg := Config{
		BaseURL:    DefaultBaseURL,
		Model:      DefaultModel,
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Gemini{config: cfg, apiKey: core.NewSecret(apiKey)}
}

// ID returns the backend identifier.
func (p *Gemini) ID() string {
	return "gemini"
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *Gemini) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("x-goog-api-key", p.apiKey.Expose())
	headers.Set("Content-Type", "application/json")

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// GenerateStream sends a single-shot image description request and streams
// the response.
func (p *Gemini) GenerateStream(ctx context.Context, req *core.GenerateRequest) (*core.Stream, error) {
	return p.doStream(ctx, buildGenerateRequest(req))
}

// ChatStream replays a conversation about an image and streams the next
// assistant turn.
func (p *Gemini) ChatStream(ctx context.Context, req *core.ChatRequest) (*core.Stream, error) {
	return p.doStream(ctx, buildChatRequest(req))
}

// Compile-time check that Gemini implements Provider.
var _ core.Provider = (*Gemini)(nil)
