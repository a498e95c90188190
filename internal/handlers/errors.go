package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// Response messages shared by the auth and quote routes.
const (
	MsgSuccess            = "Success"
	MsgError              = "Error"
	MsgFailed             = "Failed"
	MsgEmailExists        = "Email already exists"
	MsgUserNotFound       = "User does not exist"
	MsgIncorrectPassword  = "Incorrect password"
	MsgQuoteNotFound      = "Quote not found"
	MsgQuoteUpdateFailure = "Failed to update quote"
)

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// DataResponse is the {message, data} envelope used by auth routes and failures.
type DataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ResultResponse is the {message, response} envelope used by quote routes.
type ResultResponse struct {
	Message  string `json:"message"`
	Response any    `json:"response"`
}

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// internalError logs err against the request and answers 500 without leaking it.
func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error(op,
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	writeJSON(w, http.StatusInternalServerError, DataResponse{Message: MsgError, Data: ErrMessageInternal})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
