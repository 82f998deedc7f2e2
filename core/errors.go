package core

import (
	"errors"
	"fmt"
)

// ProviderError represents an error returned by a generation backend with
// full context.
type ProviderError struct {
	Provider string
	Status   int
	Code     string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status=%d, code=%s)",
			e.Provider, e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s: %s (code=%s)", e.Provider, e.Message, e.Code)
}

// Unwrap returns the underlying error for error chaining.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classification.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("decode error")

	// ErrConfig indicates missing or invalid startup configuration for the
	// selected backend. Configuration errors are fatal for the request, not
	// retryable, and surfaced with guidance sufficient to self-diagnose.
	ErrConfig = errors.New("configuration error")
)
