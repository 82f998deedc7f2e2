// Package sse implements the event-stream wire format spoken between the
// description service and its clients. Each record is a single SSE data
// line carrying a JSON payload:
//
//	data: {"text":"a street"}
//	data: {"error":"backend unavailable"}
//	data: [DONE]
//
// The [DONE] sentinel marks the end of a successful stream. JSON escaping
// guarantees no payload can be mistaken for the sentinel.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// doneSentinel terminates a stream.
const doneSentinel = "[DONE]"

// payload is the JSON body of a data record. Exactly one field is set.
type payload struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// SetHeaders prepares a response for event streaming. X-Accel-Buffering
// disables proxy buffering so fragments reach the client as they are
// written.
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// Encoder writes event-stream records. If the underlying writer implements
// http.Flusher, each record is flushed as it is written.
type Encoder struct {
	w       io.Writer
	flusher http.Flusher
}

// NewEncoder creates an Encoder over w.
func NewEncoder(w io.Writer) *Encoder {
	enc := &Encoder{w: w}
	if f, ok := w.(http.Flusher); ok {
		enc.flusher = f
	}
	return enc
}

// WriteText emits a text fragment record.
func (e *Encoder) WriteText(text string) error {
	return e.writeJSON(payload{Text: text})
}

// WriteError emits an error record.
func (e *Encoder) WriteError(message string) error {
	return e.writeJSON(payload{Error: message})
}

// WriteDone emits the stream-terminating sentinel.
func (e *Encoder) WriteDone() error {
	return e.writeRecord(doneSentinel)
}

func (e *Encoder) writeJSON(p payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return e.writeRecord(string(data))
}

func (e *Encoder) writeRecord(data string) error {
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
