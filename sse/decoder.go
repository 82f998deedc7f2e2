package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Event is one decoded stream record.
type Event struct {
	// Text is a description fragment.
	Text string

	// Err is set when the stream carried an error record.
	Err string

	// Done reports the end-of-stream sentinel.
	Done bool
}

// Decoder reads event-stream records. It buffers across read boundaries,
// so records split mid-line by the transport are reassembled.
type Decoder struct {
	scanner *bufio.Scanner
	done    bool
}

// NewDecoder creates a Decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	return &Decoder{scanner: scanner}
}

// Next returns the next record. It skips blank lines, comments, and any
// non-data fields. After the done sentinel, or when the underlying reader
// is exhausted, Next returns io.EOF.
func (d *Decoder) Next() (Event, error) {
	if d.done {
		return Event{}, io.EOF
	}

	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		if data == doneSentinel {
			d.done = true
			return Event{Done: true}, nil
		}

		var p payload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return Event{}, fmt.Errorf("malformed stream record: %w", err)
		}

		if p.Error != "" {
			d.done = true
			return Event{Err: p.Error}, nil
		}
		return Event{Text: p.Text}, nil
	}

	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	d.done = true
	return Event{}, io.EOF
}
