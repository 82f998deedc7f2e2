// Package tesseract implements vision.Recognizer using the gosseract
// Tesseract binding. One Engine holds one long-lived Tesseract worker;
// recognition calls are serialized on it, so share a single Engine
// process-wide (see vision.NewLazyRecognizer).
package tesseract

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/lumen-labs/lumen/vision"
)

// Config holds configuration for the recognition engine.
type Config struct {
	// Languages is a list of trained-data hints (e.g. "eng"). Defaults to
	// English.
	Languages []string
}

// Option configures the recognition engine.
type Option func(*Config)

// WithLanguages sets language hints for recognition.
func WithLanguages(langs ...string) Option {
	return func(c *Config) {
		c.Languages = append([]string(nil), langs...)
	}
}

// Engine is a Tesseract-backed text recognizer.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New constructs the recognition engine and its backing Tesseract worker.
func New(opts ...Option) (*Engine, error) {
	cfg := Config{Languages: []string{"eng"}}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(cfg.Languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("set languages: %w", err)
	}
	return &Engine{client: client}, nil
}

// Close releases the Tesseract worker.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}

// Recognize implements vision.Recognizer. It returns the raw recognized
// text and the mean word confidence as an integer percentage; result
// policy (confidence floor, truncation) is applied by the caller.
func (e *Engine) Recognize(ctx context.Context, imageB64 string) (*vision.OCRResult, error) {
	data, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The worker may have been held by an abandoned call; re-check before
	// starting new work.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	return &vision.OCRResult{
		Text:       strings.TrimSpace(text),
		Confidence: e.meanConfidence(),
	}, nil
}

// meanConfidence averages per-word confidences (0-100) from the last
// recognition pass. Zero when no words were found.
func (e *Engine) meanConfidence() int {
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return int(math.Round(sum / float64(len(boxes))))
}

// Compile-time check that Engine implements vision.Recognizer.
var _ vision.Recognizer = (*Engine)(nil)
