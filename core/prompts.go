package core

// Default user prompts substituted when a request carries no message of
// its own. Backends fall back to these when building provider payloads so
// that every turn sent upstream has user text.
const (
	// DefaultDescribePrompt opens a single-shot description.
	DefaultDescribePrompt = "Please describe this image in detail following your instructions."

	// DefaultOverviewPrompt opens an iterative session.
	DefaultOverviewPrompt = "Please give me an overview of this image and highlight any ambiguities."

	// DefaultContinuePrompt advances an iterative session when the user
	// sends no message.
	DefaultContinuePrompt = "Please continue describing the image."
)
