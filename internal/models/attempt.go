package models

import (
	"math"
	"time"
)

// Outcome is the terminal state of a single attempt
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// AttemptRecord is the immutable result of one compose-and-publish cycle
type AttemptRecord struct {
	Index     int           `json:"index"` // 1-based
	Outcome   Outcome       `json:"outcome"`
	Timestamp time.Time     `json:"timestamp"`
	Detail    string        `json:"detail"`
	Reason    FailureReason `json:"reason,omitempty"`
}

// Succeeded reports whether the attempt published the post
func (a AttemptRecord) Succeeded() bool {
	return a.Outcome == OutcomeSuccess
}

// NewSuccessRecord creates a successful attempt record
func NewSuccessRecord(index int, at time.Time, detail string) AttemptRecord {
	return AttemptRecord{Index: index, Outcome: OutcomeSuccess, Timestamp: at, Detail: detail}
}

// NewFailureRecord creates a failed attempt record
func NewFailureRecord(index int, at time.Time, reason FailureReason, detail string) AttemptRecord {
	return AttemptRecord{Index: index, Outcome: OutcomeFailure, Timestamp: at, Detail: detail, Reason: reason}
}

// RunSummary is derived from an attempt log; successful+failed always equals total
type RunSummary struct {
	Total       int `json:"total"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	SuccessRate int `json:"successRate"` // percent, rounded
}

// Summarize computes the run summary from an attempt log
func Summarize(records []AttemptRecord) RunSummary {
	s := RunSummary{Total: len(records)}
	for _, r := range records {
		if r.Succeeded() {
			s.Successful++
		}
	}
	s.Failed = s.Total - s.Successful
	if s.Total > 0 {
		s.SuccessRate = int(math.Round(float64(s.Successful) / float64(s.Total) * 100))
	}
	return s
}

// RunResult is the complete output of one posting run
type RunResult struct {
	RunID      string          `json:"runId"`
	AccountID  string          `json:"userId"`
	Attempts   []AttemptRecord `json:"results"`
	Summary    RunSummary      `json:"summary"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
}
