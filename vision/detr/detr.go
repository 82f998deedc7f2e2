// Package detr implements vision.Detector against a DETR-style object
// detection inference service: an HTTP endpoint that accepts an encoded
// image and returns labeled bounding boxes with normalized coordinates.
// The model runtime behind the endpoint is an opaque dependency.
package detr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/lumen-labs/lumen/vision"
)

// DefaultThreshold is the confidence floor below which detections are
// discarded.
const DefaultThreshold = 0.7

// Config holds configuration for the detection client.
type Config struct {
	// URL is the inference endpoint (required).
	URL string

	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Threshold is the confidence floor. Defaults to DefaultThreshold.
	Threshold float64
}

// Option configures the detection client.
type Option func(*Config)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithThreshold overrides the confidence floor.
func WithThreshold(threshold float64) Option {
	return func(c *Config) {
		c.Threshold = threshold
	}
}

// Client calls a detection inference service. Client is safe for
// concurrent use.
type Client struct {
	config Config
}

// New creates a detection client for the given inference endpoint.
func New(url string, opts ...Option) *Client {
	cfg := Config{
		URL:        url,
		HTTPClient: http.DefaultClient,
		Threshold:  DefaultThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{config: cfg}
}

// detectRequest is the wire request to the inference service.
type detectRequest struct {
	Image    string `json:"image"`
	MIMEType string `json:"mime_type"`
}

// detectResponse is the wire response from the inference service. Box
// coordinates are normalized to image fraction, origin top-left.
type detectResponse struct {
	Objects []detectedObject `json:"objects"`
}

type detectedObject struct {
	Label string     `json:"label"`
	Score float64    `json:"score"`
	Box   vision.Box `json:"box"`
}

// Detect implements vision.Detector. Detections below the confidence floor
// are discarded and scores are rounded to 3 decimal places for stable
// output.
func (c *Client) Detect(ctx context.Context, imageB64, mimeType string) ([]vision.DetectedObject, error) {
	body, err := json.Marshal(detectRequest{Image: imageB64, MIMEType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("marshal detect request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create detect request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("detection inference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("detection inference returned status %d: %s", resp.StatusCode, snippet)
	}

	var result detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode detect response: %w", err)
	}

	objects := make([]vision.DetectedObject, 0, len(result.Objects))
	for _, obj := range result.Objects {
		if obj.Score < c.config.Threshold {
			continue
		}
		objects = append(objects, vision.DetectedObject{
			Label: obj.Label,
			Score: math.Round(obj.Score*1000) / 1000,
			Box:   obj.Box,
		})
	}
	return objects, nil
}

// Compile-time check that Client implements vision.Detector.
var _ vision.Detector = (*Client)(nil)
