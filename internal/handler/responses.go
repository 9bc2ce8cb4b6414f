package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/waypointlabs/prizehunt/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Code carries the machine-readable
// reason the client maps to UI copy; Error is a human-readable fallback.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to the buffer first
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response without a reason code
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a domain error to its HTTP shape and writes it.
// Internal errors are logged with full detail and returned to the client as a
// generic 500 so nothing about our internals leaks over the wire.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, resp := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error(opName+" failed", "error", err)
	} else {
		logger.FromContext(r.Context()).Info(opName+" rejected", "code", resp.Code, "error", err)
	}
	respondJSON(w, status, resp)
}
