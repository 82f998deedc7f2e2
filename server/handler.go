package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lumen-labs/lumen/core"
	"github.com/lumen-labs/lumen/sse"
	"github.com/lumen-labs/lumen/vision"
)

// maxImageBytes is the decoded-size ceiling for uploaded images.
const maxImageBytes = 5 * 1024 * 1024

// Session modes accepted by the process endpoint.
const (
	ModeOnePass   = "one-pass"
	ModeIterative = "iterative"
)

// processRequest is the body of POST /api/process.
type processRequest struct {
	Image       string         `json:"image"`
	Mode        string         `json:"mode"`
	History     []core.Message `json:"history,omitempty"`
	UserMessage string         `json:"userMessage,omitempty"`
}

// Preprocessor runs the vision analysis stages ahead of generation.
type Preprocessor interface {
	Preprocess(ctx context.Context, imageB64, mimeType string) vision.PreprocessResult
}

// ProviderFunc resolves the configured generation backend. It is called
// per request so credential problems surface as a response rather than a
// crash at startup.
type ProviderFunc func() (core.Provider, error)

// Handler serves the session protocol: it validates the request, runs
// preprocessing on first turns, and relays the backend's stream to the
// client as server-sent events.
type Handler struct {
	provider ProviderFunc
	pre      Preprocessor
	logger   *slog.Logger
}

// NewHandler creates a Handler. pre may be nil, in which case requests are
// served without a pre-analysis block.
func NewHandler(provider ProviderFunc, pre Preprocessor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{provider: provider, pre: pre, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.Image == "" || req.Mode == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing required fields: image, mode")
		return
	}
	if req.Mode != ModeOnePass && req.Mode != ModeIterative {
		writeJSONError(w, http.StatusBadRequest, `Invalid mode. Must be "one-pass" or "iterative"`)
		return
	}
	for _, msg := range req.History {
		if !msg.Role.IsValid() {
			writeJSONError(w, http.StatusBadRequest, `Invalid role in history. Must be "user" or "assistant"`)
			return
		}
	}

	imageB64 := core.StripDataURL(req.Image)
	if core.EstimateDecodedSize(imageB64) > maxImageBytes {
		writeJSONError(w, http.StatusBadRequest, "Image exceeds maximum size of 5MB")
		return
	}
	mimeType := core.SniffMIMEType(imageB64)

	provider, err := h.provider()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	systemPrompt := onePassSystemPrompt
	if req.Mode == ModeIterative {
		systemPrompt = iterativeSystemPrompt
	}

	// Follow-up turns replay the conversation; everything else is a first
	// turn and gets fresh vision analysis.
	if req.Mode == ModeIterative && len(req.History) > 0 {
		stream, err := provider.ChatStream(r.Context(), &core.ChatRequest{
			Image:        imageB64,
			MIMEType:     mimeType,
			History:      req.History,
			UserMessage:  req.UserMessage,
			SystemPrompt: systemPrompt,
		})
		h.relay(w, stream, err)
		return
	}

	visionContext := h.preprocess(r.Context(), imageB64, mimeType)

	var prompt string
	switch {
	case req.UserMessage != "":
		prompt = visionContext + req.UserMessage
	case req.Mode == ModeOnePass:
		prompt = visionContext + core.DefaultDescribePrompt
	default:
		prompt = visionContext + core.DefaultOverviewPrompt
	}

	stream, err := provider.GenerateStream(r.Context(), &core.GenerateRequest{
		Image:        imageB64,
		MIMEType:     mimeType,
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
	})
	h.relay(w, stream, err)
}

// preprocess runs the vision stages and formats the result. Failures of
// any kind degrade to an empty context block.
func (h *Handler) preprocess(ctx context.Context, imageB64, mimeType string) (visionContext string) {
	if h.pre == nil {
		return ""
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("vision preprocessing failed, continuing without", "error", rec)
			visionContext = ""
		}
	}()

	result := h.pre.Preprocess(ctx, imageB64, mimeType)
	visionContext = vision.FormatContext(result)
	if visionContext != "" {
		h.logger.Info("vision preprocessing complete",
			"elapsed_ms", result.ProcessingTime.Milliseconds(),
			"objects", len(result.Objects),
			"ocr", result.OCR != nil,
		)
	}
	return visionContext
}

// relay forwards a backend stream to the client as server-sent events.
// A backend refusal becomes a 500 JSON error; a mid-stream failure becomes
// an SSE error record.
func (h *Handler) relay(w http.ResponseWriter, stream *core.Stream, err error) {
	if err != nil {
		h.logger.Error("generation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sse.SetHeaders(w.Header())
	w.WriteHeader(http.StatusOK)
	enc := sse.NewEncoder(w)

	for chunk := range stream.Ch {
		if chunk.Delta == "" {
			continue
		}
		if err := enc.WriteText(chunk.Delta); err != nil {
			// Client went away; drain the backend and stop.
			for range stream.Ch {
			}
			<-stream.Err
			return
		}
	}

	if streamErr := <-stream.Err; streamErr != nil {
		h.logger.Error("stream interrupted", "error", streamErr)
		enc.WriteError(streamErr.Error())
		return
	}

	enc.WriteDone()
}

// writeJSONError writes a JSON error body with the given status.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"error\":%s}", mustJSONString(message))
}

func mustJSONString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `"internal error"`
	}
	return string(data)
}
