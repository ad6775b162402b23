package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with full technical detail server-side, then
// returned to the client as a user-friendly message with an action
// suggestion and a support code. Only configuration errors reach this path:
// a transfer that fails after registration is reported as data (its status
// record), not as an HTTP error.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dataflow-project/dataflow/internal/store"
	"github.com/dataflow-project/dataflow/internal/transfer"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the mapped user-facing
// response with the status code derived from the error kind.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusForError(err)
	userMsg := transfer.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	respondJSON(w, statusCode, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusForError maps configuration errors to 4xx and everything else to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrUnknownStore),
		errors.Is(err, transfer.ErrInvalidIdentifier),
		errors.Is(err, transfer.ErrInvalidBatchSize):
		return http.StatusBadRequest
	case errors.Is(err, transfer.ErrTooManyTransfers):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
