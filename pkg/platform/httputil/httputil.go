// Package httputil centralizes JSON response writing and request decoding so
// handlers stay focused on translating between HTTP and domain types.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "fundwatch/pkg/domain-errors"
)

// errorResponse is the wire shape for all error replies.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto an HTTP status and the {error, message}
// wire shape. The message is the curated domain message only; wrapped causes
// never reach callers, and uncoded errors fall back to a generic message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	msg := dErrors.MessageOf(err)
	if msg == "" {
		msg = "internal error"
	}
	WriteJSON(w, dErrors.HTTPStatus(code), errorResponse{Error: string(code), Message: msg})
}

// Decode parses a JSON request body into T. A false return means the error
// response has already been written.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	return req, true
}
