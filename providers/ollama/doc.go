// Package ollama provides a local Ollama backend for Lumen.
//
// Ollama runs vision models on the user's own machine. No API key is
// required; the backend talks to a local server over HTTP:
//
//	provider := ollama.New()
//
// To connect to a remote instance or a different model:
//
//	provider := ollama.New(
//		ollama.WithBaseURL("http://remote-host:11434"),
//		ollama.WithModel("llava"),
//	)
//
// The first request verifies the server is reachable via /api/tags. A
// successful check is cached for the lifetime of the provider; failures are
// re-checked on the next request.
package ollama
