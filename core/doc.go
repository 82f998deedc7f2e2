// Package core defines the shared types of the Lumen vision-description
// pipeline: conversation messages, generation requests, the streaming
// provider contract, and the error taxonomy used across backends.
//
// # Provider Interface
//
// All generation backends implement the [Provider] interface:
//
//	type Provider interface {
//	    ID() string
//	    GenerateStream(ctx context.Context, req *GenerateRequest) (*Stream, error)
//	    ChatStream(ctx context.Context, req *ChatRequest) (*Stream, error)
//	}
//
// GenerateStream serves a single image + prompt turn; ChatStream serves a
// follow-up turn of an ongoing conversation about one image. Providers
// SHOULD be safe for concurrent calls.
//
// # Streaming
//
// Both operations return a [Stream] (not a raw channel) so that mid-flight
// errors travel alongside the text fragments:
//
//	stream, err := provider.GenerateStream(ctx, req)
//	if err != nil {
//	    return err
//	}
//	for chunk := range stream.Ch {
//	    fmt.Print(chunk.Delta)
//	}
//
// Providers MUST close Ch and Err when the stream ends, terminate promptly
// on context cancellation, and send at most one error on Err. Consuming Ch
// to closure equals "generation complete"; cancelling the context is the
// only other client-visible behavior. Use [DrainStream] to accumulate a
// stream into a single string.
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes
// ([ErrUnauthorized], [ErrBadRequest], [ErrServer], [ErrNetwork],
// [ErrDecode], [ErrConfig]). Providers wrap them in [ProviderError] with
// provider, status, and code context. Use errors.Is to classify:
//
//	if errors.Is(err, core.ErrUnauthorized) {
//	    // credential problem, not retryable
//	}
package core
