package vision

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// Stage timeouts and OCR result policy.
const (
	// DetectTimeout bounds the object-detection stage.
	DetectTimeout = 15 * time.Second

	// OCRTimeout bounds the text-recognition stage.
	OCRTimeout = 30 * time.Second

	// MinOCRConfidence is the minimum integer confidence percentage for a
	// recognition result to be kept.
	MinOCRConfidence = 30

	// MaxOCRTextLength bounds recognized text to keep the downstream prompt
	// size in check.
	MaxOCRTextLength = 500
)

// Preprocessor runs detection and recognition concurrently with settle-all
// join semantics. The zero value is not usable; populate Detector and
// Recognizer. Either may be nil, in which case that stage is skipped.
type Preprocessor struct {
	Detector   Detector
	Recognizer Recognizer

	// DetectTimeout and OCRTimeout override the stage defaults when positive.
	DetectTimeout time.Duration
	OCRTimeout    time.Duration

	// Logger receives stage failure and timing records. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Preprocess runs both stages over one image and folds their outcomes into
// a single well-formed result. It never fails: any error, panic, or timeout
// inside a stage degrades to the corresponding empty value. One stage's
// failure does not cancel or delay the other beyond that stage's own
// timeout.
func (p *Preprocessor) Preprocess(ctx context.Context, imageB64, mimeType string) PreprocessResult {
	start := time.Now()

	detCh := make(chan []DetectedObject, 1)
	ocrCh := make(chan *OCRResult, 1)

	go func() {
		detCh <- p.detect(ctx, imageB64, mimeType)
	}()
	go func() {
		ocrCh <- p.recognize(ctx, imageB64)
	}()

	var result PreprocessResult
	for i := 0; i < 2; i++ {
		select {
		case objs := <-detCh:
			result.Objects = objs
		case ocr := <-ocrCh:
			result.OCR = ocr
		}
	}
	result.ProcessingTime = time.Since(start)

	p.logger().Debug("vision preprocessing settled",
		"elapsed_ms", result.ProcessingTime.Milliseconds(),
		"objects", len(result.Objects),
		"ocr", result.OCR != nil,
	)
	return result
}

// detect runs the detection stage under its own deadline. A lost race
// abandons the wait; the engine's eventual result is discarded. The engine
// call runs behind a recover so a panicking backend folds to empty instead
// of taking the process down.
func (p *Preprocessor) detect(ctx context.Context, imageB64, mimeType string) []DetectedObject {
	if p.Detector == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.detectTimeout())
	defer cancel()

	type outcome struct {
		objs []DetectedObject
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger().Error("object detection panicked", "panic", r)
				done <- outcome{}
			}
		}()
		o, err := p.Detector.Detect(ctx, imageB64, mimeType)
		done <- outcome{objs: o, err: err}
	}()

	select {
	case <-ctx.Done():
		p.logger().Warn("object detection abandoned", "reason", ctx.Err())
		return nil
	case out := <-done:
		if out.err != nil {
			p.logger().Warn("object detection failed", "error", out.err)
			return nil
		}
		return out.objs
	}
}

// recognize runs the OCR stage under its own deadline and applies the
// result policy.
func (p *Preprocessor) recognize(ctx context.Context, imageB64 string) *OCRResult {
	if p.Recognizer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.ocrTimeout())
	defer cancel()

	type outcome struct {
		res *OCRResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger().Error("text recognition panicked", "panic", r)
				done <- outcome{}
			}
		}()
		o, err := p.Recognizer.Recognize(ctx, imageB64)
		done <- outcome{res: o, err: err}
	}()

	select {
	case <-ctx.Done():
		p.logger().Warn("text recognition abandoned", "reason", ctx.Err())
		return nil
	case out := <-done:
		if out.err != nil {
			p.logger().Warn("text recognition failed", "error", out.err)
			return nil
		}
		return SanitizeOCR(out.res)
	}
}

func (p *Preprocessor) detectTimeout() time.Duration {
	if p.DetectTimeout > 0 {
		return p.DetectTimeout
	}
	return DetectTimeout
}

func (p *Preprocessor) ocrTimeout() time.Duration {
	if p.OCRTimeout > 0 {
		return p.OCRTimeout
	}
	return OCRTimeout
}

func (p *Preprocessor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// SanitizeOCR applies the recognition result policy: trims whitespace,
// rejects empty or low-confidence results, and truncates overlong text to
// MaxOCRTextLength characters. Returns nil when the result is rejected.
func SanitizeOCR(raw *OCRResult) *OCRResult {
	if raw == nil {
		return nil
	}

	text := strings.TrimSpace(raw.Text)
	if text == "" || raw.Confidence < MinOCRConfidence {
		return nil
	}
	if utf8.RuneCountInString(text) > MaxOCRTextLength {
		runes := []rune(text)
		text = string(runes[:MaxOCRTextLength])
	}

	return &OCRResult{Text: text, Confidence: raw.Confidence}
}
