package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/lumen-labs/lumen/core"
)

func TestStreamSkipsMalformedLines(t *testing.T) {
	var tags atomic.Int32
	server := newTestServer(t, &tags, []string{
		`{"message":{"content":"first"},"done":false}` + "\n",
		`{broken json` + "\n",
		`{"message":{"content":" second"},"done":true}` + "\n",
	})
	defer server.Close()

	p := New(WithBaseURL(server.URL))

	stream, err := p.GenerateStream(context.Background(), &core.GenerateRequest{Image: "aW1hZ2U="})
	if err != nil {
		t.Fatalf("GenerateStream() error = %v", err)
	}

	out, err := core.DrainStream(context.Background(), stream)
	if err != nil {
		t.Fatalf("DrainStream() error = %v", err)
	}
	if out != "first second" {
		t.Errorf("output = %q, want 'first second'", out)
	}
}

func TestStreamReassemblesSplitLines(t *testing.T) {
	// One record arrives split across two flushed writes. The fragment must
	// be buffered until its newline arrives, and the following record still
	// parses normally.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Write([]byte(`{"models":[{"name":"moondream"}]}`))
		case "/api/chat":
			flusher := w.(http.Flusher)
			w.Write([]byte(`{"message":{"content":"sp`))
			flusher.Flush()
			w.Write([]byte(`lit"},"done":false}` + "\n"))
			flusher.Flush()
			w.Write([]byte(`{"message":{"content":" whole"},"done":true}` + "\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	p := New(WithBaseURL(server.URL))

	stream, err := p.GenerateStream(context.Background(), &core.GenerateRequest{Image: "aW1hZ2U="})
	if err != nil {
		t.Fatalf("GenerateStream() error = %v", err)
	}

	out, err := core.DrainStream(context.Background(), stream)
	if err != nil {
		t.Fatalf("DrainStream() error = %v", err)
	}
	if out != "split whole" {
		t.Errorf("output = %q, want 'split whole'", out)
	}
}

func TestStreamFlushesTrailingLine(t *testing.T) {
	// Final line has no terminating newline.
	var tags atomic.Int32
	server := newTestServer(t, &tags, []string{
		`{"message":{"content":"part one"},"done":false}` + "\n",
		`{"message":{"content":" part two"},"done":true}`,
	})
	defer server.Close()

	p := New(WithBaseURL(server.URL))

	stream, err := p.GenerateStream(context.Background(), &core.GenerateRequest{Image: "aW1hZ2U="})
	if err != nil {
		t.Fatalf("GenerateStream() error = %v", err)
	}

	out, err := core.DrainStream(context.Background(), stream)
	if err != nil {
		t.Fatalf("DrainStream() error = %v", err)
	}
	if out != "part one part two" {
		t.Errorf("output = %q, want 'part one part two'", out)
	}
}

func TestStreamInlineError(t *testing.T) {
	var tags atomic.Int32
	server := newTestServer(t, &tags, []string{
		`{"message":{"content":"partial"},"done":false}` + "\n",
		`{"error":"model ran out of memory"}` + "\n",
		`{"message":{"content":"never seen"},"done":true}` + "\n",
	})
	defer server.Close()

	p := New(WithBaseURL(server.URL))

	stream, err := p.GenerateStream(context.Background(), &core.GenerateRequest{Image: "aW1hZ2U="})
	if err != nil {
		t.Fatalf("GenerateStream() error = %v", err)
	}

	out, err := core.DrainStream(context.Background(), stream)
	if err == nil {
		t.Fatal("expected stream error")
	}
	if !errors.Is(err, core.ErrServer) {
		t.Errorf("error should wrap ErrServer, got %v", err)
	}

	var provErr *core.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error type = %T", err)
	}
	if provErr.Message != "model ran out of memory" {
		t.Errorf("Message = %q", provErr.Message)
	}

	// Output produced before the error is preserved.
	if out != "partial" {
		t.Errorf("partial output = %q, want 'partial'", out)
	}
}

func TestStreamHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Write([]byte(`{}`))
		case "/api/chat":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"model \"moondream\" not found, try pulling it first"}`))
		}
	}))
	defer server.Close()

	p := New(WithBaseURL(server.URL))

	_, err := p.GenerateStream(context.Background(), &core.GenerateRequest{Image: "aW1hZ2U="})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !errors.Is(err, core.ErrBadRequest) {
		t.Errorf("error should wrap ErrBadRequest, got %v", err)
	}

	var provErr *core.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error type = %T", err)
	}
	if provErr.Code != "model_not_found" {
		t.Errorf("Code = %q, want 'model_not_found'", provErr.Code)
	}
}
