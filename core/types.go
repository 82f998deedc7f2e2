package core

import "context"

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether the role is one of the recognized conversation
// roles accepted from clients. RoleSystem is internal and never appears in
// client-supplied history.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single turn in a conversation about an image. The first
// entry of a history must logically correspond to the turn that introduced
// the image.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest describes a single-shot generation call: one image, one
// prompt, one system instruction. Request-scoped; never mutated after
// construction.
type GenerateRequest struct {
	// Image is the base64-encoded image payload without any data-URL prefix.
	Image string

	// MIMEType is the sniffed content type of the decoded image.
	MIMEType string

	// Prompt is the full user prompt, including any prepended context block.
	Prompt string

	// SystemPrompt is the fixed system instruction for the call.
	SystemPrompt string
}

// ChatRequest describes a follow-up turn of a multi-turn conversation. The
// image is re-sent on every turn and attached by the provider to the first
// history-derived message; prior turns are replayed as alternating roles.
type ChatRequest struct {
	Image        string
	MIMEType     string
	History      []Message
	UserMessage  string
	SystemPrompt string
}

// Provider is the interface that generation backends must implement.
// Exactly one provider is selected per process at startup; see the
// providers package registry.
type Provider interface {
	// ID returns the provider identifier (e.g., "gemini", "ollama").
	ID() string

	// GenerateStream starts a streaming single-shot generation call.
	GenerateStream(ctx context.Context, req *GenerateRequest) (*Stream, error)

	// ChatStream starts a streaming multi-turn chat call.
	ChatStream(ctx context.Context, req *ChatRequest) (*Stream, error)
}
