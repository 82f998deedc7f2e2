package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lumen-labs/lumen/core"
)

// doStream posts the request to the SSE streaming endpoint and returns a
// Stream fed by a background goroutine.
func (p *Gemini) doStream(ctx context.Context, gemReq *geminiRequest) (*core.Stream, error) {
	body, err := json.Marshal(gemReq)
	if err != nil {
		return nil, newDecodeError(err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse", p.config.BaseURL, p.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newNetworkError(err)
	}

	for key, values := range p.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, normalizeError(resp.StatusCode, respBody)
	}

	chunkCh := make(chan core.Chunk, 100)
	errCh := make(chan error, 1)

	go p.processSSEStream(ctx, resp.Body, chunkCh, errCh)

	return &core.Stream{
		Ch:  chunkCh,
		Err: errCh,
	}, nil
}

// processSSEStream reads the SSE stream and emits one chunk per text part.
func (p *Gemini) processSSEStream(
	ctx context.Context,
	body io.ReadCloser,
	chunkCh chan<- core.Chunk,
	errCh chan<- error,
) {
	defer body.Close()
	defer close(chunkCh)
	defer close(errCh)

	reader := bufio.NewReader(body)

	for {
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return
			}
			// Cancellation surfaces as a body read error.
			if ctx.Err() != nil {
				errCh <- ctx.Err()
				return
			}
			errCh <- newNetworkError(err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var event geminiResponse
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			errCh <- newDecodeError(err)
			return
		}

		if len(event.Candidates) == 0 {
			continue
		}

		for _, part := range event.Candidates[0].Content.Parts {
			if part.Text == "" {
				continue
			}
			select {
			case chunkCh <- core.Chunk{Delta: part.Text}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}
}
