package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/report"
)

// Fixed client-facing error strings
const (
	MsgMessageRequired  = "Message is required"
	MsgAppstateRequired = "Valid appstate (cookies) is required"
	MsgMissingCookies   = "Invalid appstate: missing required cookies (c_user, xs)"
	MsgInvalidJSON      = "Invalid JSON body"
	MsgSessionInvalid   = "Invalid or expired session"
	MsgNotFound         = "Endpoint not found"
	MsgMethodNotAllowed = "Method not allowed"
	MsgInternalError    = "Internal server error"
	maxRequestBodyBytes = 1 << 20
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		WriteError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes the {success:false, error} envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, report.Failure(message))
}

// StatusFor maps a service error onto an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSessionInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
