package vision

import (
	"context"
	"fmt"
	"sync"
)

// LazyDetector defers construction of a Detector to first use and shares
// the constructed instance across all subsequent calls. Concurrent first
// callers block on one initialization; none double-initialize. A failed
// construction is reported to every caller and never retried.
type LazyDetector struct {
	once    sync.Once
	factory func() (Detector, error)
	det     Detector
	err     error
}

// NewLazyDetector wraps a detector factory in a process-wide lazy singleton.
func NewLazyDetector(factory func() (Detector, error)) *LazyDetector {
	return &LazyDetector{factory: factory}
}

// Detect implements Detector.
func (l *LazyDetector) Detect(ctx context.Context, imageB64, mimeType string) ([]DetectedObject, error) {
	l.once.Do(func() {
		l.det, l.err = l.factory()
	})
	if l.err != nil {
		return nil, fmt.Errorf("initialize detector: %w", l.err)
	}
	return l.det.Detect(ctx, imageB64, mimeType)
}

// LazyRecognizer is the Recognizer counterpart of LazyDetector.
type LazyRecognizer struct {
	once    sync.Once
	factory func() (Recognizer, error)
	rec     Recognizer
	err     error
}

// NewLazyRecognizer wraps a recognizer factory in a process-wide lazy
// singleton.
func NewLazyRecognizer(factory func() (Recognizer, error)) *LazyRecognizer {
	return &LazyRecognizer{factory: factory}
}

// Recognize implements Recognizer.
func (l *LazyRecognizer) Recognize(ctx context.Context, imageB64 string) (*OCRResult, error) {
	l.once.Do(func() {
		l.rec, l.err = l.factory()
	})
	if l.err != nil {
		return nil, fmt.Errorf("initialize recognizer: %w", l.err)
	}
	return l.rec.Recognize(ctx, imageB64)
}

var (
	_ Detector   = (*LazyDetector)(nil)
	_ Recognizer = (*LazyRecognizer)(nil)
)
