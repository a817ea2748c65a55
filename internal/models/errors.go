package models

import (
	"errors"
)

// Error taxonomy shared by the validator, the posting orchestrator and the HTTP layer.
var (
	// ErrInvalidInput is returned for malformed request bodies. No browser is acquired.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned when the cookie set lacks c_user or xs.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionInvalid means no authenticated landmark was found after navigation.
	ErrSessionInvalid = errors.New("session is not authenticated")
	// ErrSessionExpiredMidRun means a posting attempt found the session logged out.
	ErrSessionExpiredMidRun = errors.New("session expired during run")
	// ErrNavigationFailed covers navigation errors and timeouts.
	ErrNavigationFailed = errors.New("navigation failed")
	// ErrAutomationFault covers any other browser automation error.
	ErrAutomationFault = errors.New("automation fault")
	// ErrPublishUnconfirmed means the composer was still open after submit.
	ErrPublishUnconfirmed = errors.New("publish not confirmed")
	// ErrSessionClosed means the browser session itself is gone (closed or crashed).
	ErrSessionClosed = errors.New("browser session closed")
)

// FailureReason is the machine-readable reason attached to a failed attempt.
type FailureReason string

const (
	ReasonNavigationFailed     FailureReason = "NavigationFailed"
	ReasonSessionExpiredMidRun FailureReason = "SessionExpiredMidRun"
	ReasonPublishUnconfirmed   FailureReason = "PublishUnconfirmed"
	ReasonAutomationFault      FailureReason = "AutomationFault"
	ReasonSessionLost          FailureReason = "SessionLost"
	ReasonRunCanceled          FailureReason = "RunCanceled"
)

// FailureReasonOf classifies an attempt error. Unknown errors are automation faults.
func FailureReasonOf(err error) FailureReason {
	switch {
	case errors.Is(err, ErrSessionClosed):
		return ReasonSessionLost
	case errors.Is(err, ErrSessionExpiredMidRun), errors.Is(err, ErrSessionInvalid):
		return ReasonSessionExpiredMidRun
	case errors.Is(err, ErrNavigationFailed):
		return ReasonNavigationFailed
	case errors.Is(err, ErrPublishUnconfirmed):
		return ReasonPublishUnconfirmed
	default:
		return ReasonAutomationFault
	}
}
