package models

import (
	"fmt"
	"strings"
	"time"
)

// Attempt count and delay bounds applied to every posting request
const (
	MinAttemptCount        = 1
	MaxAttemptCount        = 10
	DefaultAttemptCount    = 1
	MinAttemptDelaySeconds = 5
	MaxAttemptDelaySeconds = 60
	DefaultAttemptDelay    = 5
)

// PostRequest describes one posting run
type PostRequest struct {
	Message             string `json:"message"`
	Link                string `json:"link,omitempty"`
	AttemptCount        int    `json:"count"`
	AttemptDelaySeconds int    `json:"delay"`
}

// NewPostRequest builds a request with count and delay clamped to their bounds.
// Returns ErrInvalidInput when the message is blank.
func NewPostRequest(message, link string, count, delaySeconds int) (PostRequest, error) {
	if strings.TrimSpace(message) == "" {
		return PostRequest{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	return PostRequest{
		Message:             message,
		Link:                strings.TrimSpace(link),
		AttemptCount:        ClampAttemptCount(count),
		AttemptDelaySeconds: ClampAttemptDelay(delaySeconds),
	}, nil
}

// HasLink reports whether a link should be attached
func (r PostRequest) HasLink() bool {
	return strings.TrimSpace(r.Link) != ""
}

// Delay returns the inter-attempt delay as a duration
func (r PostRequest) Delay() time.Duration {
	return time.Duration(r.AttemptDelaySeconds) * time.Second
}

// ClampAttemptCount clamps n to [MinAttemptCount, MaxAttemptCount]
func ClampAttemptCount(n int) int {
	return clamp(n, MinAttemptCount, MaxAttemptCount)
}

// ClampAttemptDelay clamps seconds to [MinAttemptDelaySeconds, MaxAttemptDelaySeconds]
func ClampAttemptDelay(seconds int) int {
	return clamp(seconds, MinAttemptDelaySeconds, MaxAttemptDelaySeconds)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
