// Package report turns service results into the JSON payloads returned by the API.
// Every function is pure.
package report

import (
	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/session"
)

// ValidMessage accompanies a successful validation
const ValidMessage = "Session is valid"

// ShareResponse is the payload of a completed posting run
type ShareResponse struct {
	Success bool                   `json:"success"`
	RunID   string                 `json:"runId,omitempty"`
	UserID  string                 `json:"userId,omitempty"`
	Results []models.AttemptRecord `json:"results"`
	Summary models.RunSummary      `json:"summary"`
}

// ValidateResponse is the payload of a successful validation
type ValidateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    string `json:"user"`
	UserID  string `json:"userId"`
}

// MessageResponse is a success envelope carrying only a message
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope used by every endpoint
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Run reports a posting run. The attempt log is copied, and the summary is
// recomputed when the run carries none.
func Run(result *models.RunResult) ShareResponse {
	if result == nil {
		return ShareResponse{Success: true, Results: []models.AttemptRecord{}, Summary: models.Summarize(nil)}
	}

	records := make([]models.AttemptRecord, len(result.Attempts))
	copy(records, result.Attempts)

	summary := result.Summary
	if summary.Total != len(records) {
		summary = models.Summarize(records)
	}

	return ShareResponse{
		Success: true,
		RunID:   result.RunID,
		UserID:  result.AccountID,
		Results: records,
		Summary: summary,
	}
}

// Validation reports an authenticated session
func Validation(result *session.Result) ValidateResponse {
	return ValidateResponse{
		Success: true,
		Message: ValidMessage,
		User:    result.IdentityLabel,
		UserID:  result.AccountID,
	}
}

// Message wraps a plain success message
func Message(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// Failure wraps an error message
func Failure(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}
