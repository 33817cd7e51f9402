package api

import (
	"net/http"
)

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, e APIError) {
	WriteJSON(w, status, ErrorResponse{Error: e})
}

// Convenience helpers
func BadRequest(w http.ResponseWriter, code, message, requestID string, details map[string]any) {
	WriteError(w, http.StatusBadRequest, APIError{Code: code, Message: message, Details: details, RequestID: requestID})
}

func Unauthorized(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusUnauthorized, APIError{Code: code, Message: message, RequestID: requestID})
}

func NotFound(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusNotFound, APIError{Code: code, Message: message, RequestID: requestID})
}

func RateLimited(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusTooManyRequests, APIError{Code: code, Message: message, Retryable: true, RequestID: requestID})
}

// Unavailable is used when the upstream forum cannot be reached; the client
// is expected to offer a retry.
func Unavailable(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteError(w, status, APIError{Code: code, Message: message, Retryable: true, RequestID: requestID})
}

func Internal(w http.ResponseWriter, requestID string) {
	WriteError(w, http.StatusInternalServerError, APIError{Code: "INTERNAL", Message: "Internal server error", Retryable: true, RequestID: requestID})
}
