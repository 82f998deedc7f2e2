package core

import (
	"context"
	"strings"
)

// Chunk is an incremental text fragment produced by a streaming call.
type Chunk struct {
	Delta string `json:"delta"`
}

// Stream is a finite, non-restartable sequence of text fragments from a
// provider.
//
// Channel rules:
//   - Providers MUST close Ch and Err when finished
//   - On context cancellation, providers MUST terminate promptly and close
//     both channels
//   - Err emits at most one error; an error ends the stream
type Stream struct {
	// Ch emits text fragments in order. Closed when the stream ends.
	Ch <-chan Chunk

	// Err emits at most one error. Closed when the stream ends.
	Err <-chan error
}

// DrainStream consumes a stream to completion and returns the concatenated
// text. It blocks until the stream ends, an error arrives, or the context
// is cancelled.
func DrainStream(ctx context.Context, s *Stream) (string, error) {
	if s == nil {
		return "", ErrBadRequest
	}

	var out strings.Builder
	var streamErr error

	for {
		select {
		case <-ctx.Done():
			return out.String(), ctx.Err()

		case chunk, ok := <-s.Ch:
			if !ok {
				// Drain any error that raced with channel closure.
				select {
				case err, ok := <-s.Err:
					if ok && err != nil {
						streamErr = err
					}
				default:
				}
				return out.String(), streamErr
			}
			out.WriteString(chunk.Delta)

		case err, ok := <-s.Err:
			if ok && err != nil {
				streamErr = err
			}
			// Keep draining Ch so the producer can finish.
		}
	}
}
