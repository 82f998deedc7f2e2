package providers

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/lumen-labs/lumen/core"
)

// Config carries the configuration surface a backend factory may consume.
// Fields a backend does not need are ignored; a missing field a backend
// requires is a configuration error.
type Config struct {
	// APIKey authenticates a remote backend.
	APIKey string

	// BaseURL overrides the backend's default base address.
	BaseURL string

	// Model overrides the backend's default model identity.
	Model string

	// HTTPClient overrides the HTTP client used for backend calls.
	HTTPClient *http.Client
}

// Factory creates a provider instance from the given configuration.
// Factories validate required configuration and return an error wrapping
// core.ErrConfig when it is missing or invalid.
type Factory func(cfg Config) (core.Provider, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a provider factory to the registry. It is typically called
// from a backend's init() function. A factory registered under an existing
// name overwrites the previous one.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Create instantiates the named provider with the given configuration.
// An unrecognized name is a configuration error naming the available
// backends.
func Create(name string, cfg Config) (core.Provider, error) {
	registryMu.RLock()
	factory := registry[name]
	registryMu.RUnlock()

	if factory == nil {
		return nil, fmt.Errorf("%w: unknown provider %q (available: %v)", core.ErrConfig, name, List())
	}
	return factory(cfg)
}

// List returns the names of all registered providers in sorted order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a provider with the given name exists.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
