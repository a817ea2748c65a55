package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique posting run ID with the "run_" prefix
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// NewRequestID generates the value for a missing X-Request-ID header
func NewRequestID() string {
	return uuid.New().String()
}
