// Package providers contains generation backend implementations and the
// registry through which exactly one backend is selected per process.
//
// Each backend lives in its own subpackage (providers/gemini,
// providers/ollama) and implements core.Provider. Backends register a
// factory from their init() function; the session layer never imports a
// concrete backend, so adding a third variant requires no handler change.
//
// # Streaming
//
// GenerateStream and ChatStream return a *core.Stream. Providers MUST
// close both channels when finished, terminate promptly on context
// cancellation, and send at most one error.
package providers

import "github.com/lumen-labs/lumen/core"

// Re-export core types for convenience. Backend implementations can import
// just the providers package.
type (
	// Provider is the interface that generation backends must implement.
	Provider = core.Provider

	// Stream is a streaming response from a backend.
	Stream = core.Stream

	// Chunk is an incremental text fragment.
	Chunk = core.Chunk

	// Message is a single turn in a conversation.
	Message = core.Message

	// Role is a message participant role.
	Role = core.Role

	// GenerateRequest is a single-shot generation request.
	GenerateRequest = core.GenerateRequest

	// ChatRequest is a multi-turn chat request.
	ChatRequest = core.ChatRequest

	// ProviderError is an error returned by a backend.
	ProviderError = core.ProviderError
)

// Re-export role constants.
const (
	RoleSystem    = core.RoleSystem
	RoleUser      = core.RoleUser
	RoleAssistant = core.RoleAssistant
)

// Re-export sentinel errors.
var (
	ErrUnauthorized = core.ErrUnauthorized
	ErrBadRequest   = core.ErrBadRequest
	ErrServer       = core.ErrServer
	ErrNetwork      = core.ErrNetwork
	ErrDecode       = core.ErrDecode
	ErrConfig       = core.ErrConfig
)
