package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/session"
)

func TestRun_CarriesLogAndSummary(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	records := []models.AttemptRecord{
		models.NewSuccessRecord(1, at, "Post shared successfully"),
		models.NewFailureRecord(2, at, models.ReasonPublishUnconfirmed, "composer still open"),
	}
	result := &models.RunResult{
		RunID:     "run-1",
		AccountID: "42",
		Attempts:  records,
		Summary:   models.Summarize(records),
	}

	resp := Run(result)
	assert.True(t, resp.Success)
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, records, resp.Results)
	assert.Equal(t, models.RunSummary{Total: 2, Successful: 1, Failed: 1, SuccessRate: 50}, resp.Summary)

	// the response owns its copy
	resp.Results[0].Detail = "changed"
	assert.Equal(t, "Post shared successfully", result.Attempts[0].Detail)
}

func TestRun_ZeroSuccessStillReportsSuccessEnvelope(t *testing.T) {
	at := time.Now()
	records := []models.AttemptRecord{
		models.NewFailureRecord(1, at, models.ReasonNavigationFailed, "timeout"),
	}

	resp := Run(&models.RunResult{Attempts: records})
	assert.True(t, resp.Success)
	assert.Equal(t, models.RunSummary{Total: 1, Successful: 0, Failed: 1, SuccessRate: 0}, resp.Summary)
}

func TestRun_JSONShape(t *testing.T) {
	resp := Run(nil)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, []interface{}{}, decoded["results"])
	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, float64(0), summary["successRate"])
}

func TestValidation(t *testing.T) {
	resp := Validation(&session.Result{Authenticated: true, IdentityLabel: "Jane", AccountID: "42"})
	assert.Equal(t, ValidateResponse{Success: true, Message: ValidMessage, User: "Jane", UserID: "42"}, resp)
}

func TestFailure(t *testing.T) {
	assert.Equal(t, ErrorResponse{Success: false, Error: "Message is required"}, Failure("Message is required"))
}
