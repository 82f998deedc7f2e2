package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDrainStreamAccumulatesDeltas(t *testing.T) {
	ch := make(chan Chunk, 3)
	errCh := make(chan error, 1)

	go func() {
		ch <- Chunk{Delta: "Hello"}
		ch <- Chunk{Delta: " "}
		ch <- Chunk{Delta: "World"}
		close(ch)
		close(errCh)
	}()

	out, err := DrainStream(context.Background(), &Stream{Ch: ch, Err: errCh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hello World" {
		t.Errorf("output = %q, want %q", out, "Hello World")
	}
}

func TestDrainStreamErrorPropagates(t *testing.T) {
	ch := make(chan Chunk, 1)
	errCh := make(chan error, 1)
	wantErr := errors.New("stream error")

	go func() {
		ch <- Chunk{Delta: "partial"}
		errCh <- wantErr
		close(errCh)
		close(ch)
	}()

	out, err := DrainStream(context.Background(), &Stream{Ch: ch, Err: errCh})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	// Fragments delivered before the error are preserved.
	if out != "partial" {
		t.Errorf("output = %q, want %q", out, "partial")
	}
}

func TestDrainStreamNilStream(t *testing.T) {
	if _, err := DrainStream(context.Background(), nil); !errors.Is(err, ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

func TestDrainStreamContextCancellation(t *testing.T) {
	ch := make(chan Chunk)
	errCh := make(chan error, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := DrainStream(ctx, &Stream{Ch: ch, Err: errCh})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}
