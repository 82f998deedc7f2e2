package ollama

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lumen-labs/lumen/core"
	"github.com/lumen-labs/lumen/providers/internal/normalize"
)

// parseErrorResponse reads and parses an error response from Ollama.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &core.ProviderError{
			Provider: "ollama",
			Code:     "read_error",
			Message:  fmt.Sprintf("failed to read error response: %v", err),
			Status:   resp.StatusCode,
			Err:      normalize.SentinelForStatus(resp.StatusCode),
		}
	}

	var errResp ollamaErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return mapOllamaError(resp.StatusCode, string(body))
	}

	return mapOllamaError(resp.StatusCode, errResp.Error)
}

// mapOllamaError converts an Ollama error to a core.ProviderError.
func mapOllamaError(statusCode int, errMsg string) error {
	var errType string
	switch statusCode {
	case http.StatusBadRequest:
		errType = "bad_request"
	case http.StatusNotFound:
		errType = "model_not_found"
	case http.StatusInternalServerError:
		errType = "internal_error"
	default:
		errType = "unknown"
	}

	return normalize.ProviderError("ollama", statusCode, errType, errMsg, nil)
}

// newStreamError creates an error from an inline stream error line.
func newStreamError(errMsg string) error {
	return &core.ProviderError{
		Provider: "ollama",
		Code:     "stream_error",
		Message:  errMsg,
		Err:      core.ErrServer,
	}
}

// newNetworkError creates a ProviderError for network-related failures.
func newNetworkError(err error) error {
	return normalize.NetworkError("ollama", err)
}

// newDecodeError creates a ProviderError for JSON encode/decode failures.
func newDecodeError(err error) error {
	return normalize.DecodeError("ollama", err)
}
