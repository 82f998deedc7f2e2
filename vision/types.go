package vision

import (
	"context"
	"time"
)

// Box is an axis-aligned bounding box with coordinates normalized to image
// fraction, origin top-left.
type Box struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// Center returns the box center point.
func (b Box) Center() (x, y float64) {
	return (b.XMin + b.XMax) / 2, (b.YMin + b.YMax) / 2
}

// DetectedObject is one labeled detection above the confidence floor.
// Immutable once returned; produced fresh per request.
type DetectedObject struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Box   Box     `json:"box"`
}

// OCRResult is the recognized text of an image, if any.
type OCRResult struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"` // integer percentage [0,100]
}

// PreprocessResult is the unified outcome of the preprocessing stage. Both
// sub-results are independently optional: the result is well-formed even
// when one or both upstream stages failed or timed out.
type PreprocessResult struct {
	Objects        []DetectedObject `json:"detectedObjects"`
	OCR            *OCRResult       `json:"ocrText,omitempty"`
	ProcessingTime time.Duration    `json:"-"`
}

// Detector wraps an object-detection model. Implementations return only
// detections above their confidence floor and may fail; the Preprocessor
// converts failures to "no objects detected".
type Detector interface {
	Detect(ctx context.Context, imageB64, mimeType string) ([]DetectedObject, error)
}

// Recognizer wraps a text-recognition engine. Implementations return the
// raw recognized text and confidence; the Preprocessor applies the result
// policy (confidence floor, truncation).
type Recognizer interface {
	Recognize(ctx context.Context, imageB64 string) (*OCRResult, error)
}
