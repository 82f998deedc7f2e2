package ollama

import "net/http"

// DefaultBaseURL is the default URL for local Ollama instances.
const DefaultBaseURL = "http://localhost:11434"

// DefaultModel is the vision model used when none is configured.
const DefaultModel = "moondream"

// Config holds the configuration for the Ollama backend.
type Config struct {
	// BaseURL is the base URL for the Ollama API.
	// Defaults to DefaultBaseURL.
	BaseURL string

	// Model is the model identifier. Defaults to DefaultModel.
	Model string

	// HTTPClient is the HTTP client to use for requests.
	// Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Option is a function that configures the Ollama backend.
type Option func(*Config)

// WithBaseURL sets a custom base URL for the Ollama API.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}
