package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/lumen-labs/lumen/core"
)

// maxLineSize bounds a single NDJSON line. Responses are text deltas, so
// this is generous.
const maxLineSize = 1 << 20

// doStream posts the chat request and returns a Stream fed from the NDJSON
// reply by a background goroutine.
func (p *Ollama) doStream(ctx context.Context, messages []ollamaMessage) (*core.Stream, error) {
	ollamaReq := ollamaRequest{
		Model:    p.config.Model,
		Messages: messages,
		Stream:   true,
	}

	body, err := json.Marshal(ollamaReq)
	if err != nil {
		return nil, newDecodeError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, newNetworkError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseErrorResponse(resp)
	}

	chunkCh := make(chan core.Chunk, 100)
	errCh := make(chan error, 1)

	go p.processNDJSONStream(ctx, resp, chunkCh, errCh)

	return &core.Stream{
		Ch:  chunkCh,
		Err: errCh,
	}, nil
}

// processNDJSONStream reads newline-delimited JSON and emits one chunk per
// content delta. Lines that fail to parse are skipped so one garbled frame
// does not lose the rest of the description; a trailing line without a
// terminating newline is still handled. An inline error line ends the
// stream with an error.
func (p *Ollama) processNDJSONStream(
	ctx context.Context,
	resp *http.Response,
	chunkCh chan<- core.Chunk,
	errCh chan<- error,
) {
	defer resp.Body.Close()
	defer close(chunkCh)
	defer close(errCh)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk ollamaResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			continue
		}

		if chunk.Error != "" {
			errCh <- newStreamError(chunk.Error)
			return
		}

		if chunk.Message.Content != "" {
			select {
			case chunkCh <- core.Chunk{Delta: chunk.Message.Content}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}

		if chunk.Done {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			errCh <- ctx.Err()
			return
		}
		errCh <- newNetworkError(err)
	}
}
