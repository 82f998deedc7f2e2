package ollama

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lumen-labs/lumen/core"
)

// healthCheckTimeout bounds the reachability probe against /api/tags.
const healthCheckTimeout = 5 * time.Second

// Ollama is a generation backend for a local Ollama server.
// Ollama is safe for concurrent use.
type Ollama struct {
	config  Config
	healthy atomic.Bool
}

// New creates a new Ollama backend with the given options.
func New(opts ...Option) *Ollama {
	cfg := Config{
		BaseURL:    DefaultBaseURL,
		Model:      DefaultModel,
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Ollama{config: cfg}
}

// ID returns the backend identifier.
func (p *Ollama) ID() string {
	return "ollama"
}

// checkHealth verifies the Ollama server is reachable. A successful check
// is cached for the lifetime of the provider; failures are re-checked on
// the next call so a server started later is picked up.
func (p *Ollama) checkHealth(ctx context.Context) error {
	if p.healthy.Load() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return p.unreachableError(err)
	}

	resp, err := p.config.HTTPClient.Do(req)
	if err != nil {
		return p.unreachableError(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return p.unreachableError(fmt.Errorf("unexpected status %d from /api/tags", resp.StatusCode))
	}

	p.healthy.Store(true)
	return nil
}

func (p *Ollama) unreachableError(err error) error {
	return &core.ProviderError{
		Provider: "ollama",
		Code:     "unreachable",
		Message: fmt.Sprintf("cannot reach Ollama at %s (is it running, with model %q pulled?): %v",
			p.config.BaseURL, p.config.Model, err),
		Err: core.ErrNetwork,
	}
}

// GenerateStream sends a single-shot image description request and streams
// the response.
func (p *Ollama) GenerateStream(ctx context.Context, req *core.GenerateRequest) (*core.Stream, error) {
	if err := p.checkHealth(ctx); err != nil {
		return nil, err
	}
	return p.doStream(ctx, buildGenerateMessages(req))
}

// ChatStream replays a conversation about an image and streams the next
// assistant turn.
func (p *Ollama) ChatStream(ctx context.Context, req *core.ChatRequest) (*core.Stream, error) {
	if err := p.checkHealth(ctx); err != nil {
		return nil, err
	}
	return p.doStream(ctx, buildChatMessages(req))
}

// Compile-time check that Ollama implements Provider.
var _ core.Provider = (*Ollama)(nil)
