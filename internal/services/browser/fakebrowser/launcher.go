package fakebrowser

import (
	"context"
	"sync"

	"github.com/ternarybob/autoshare/internal/interfaces"
)

// Launcher hands out fake sessions and records every acquisition
type Launcher struct {
	mu       sync.Mutex
	sessions []*Session

	// NewSession builds the session for each Acquire; defaults to a logged-in page
	NewSession func() *Session
	// AcquireErr makes every Acquire fail
	AcquireErr error
}

var _ interfaces.BrowserLauncher = (*Launcher)(nil)

// NewLauncher returns a launcher that serves sessions built by newSession
func NewLauncher(newSession func() *Session) *Launcher {
	return &Launcher{NewSession: newSession}
}

func (l *Launcher) Acquire(ctx context.Context) (interfaces.BrowserSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.AcquireErr != nil {
		return nil, l.AcquireErr
	}

	var s *Session
	if l.NewSession != nil {
		s = l.NewSession()
	} else {
		s = NewLoggedInSession("Test User")
	}
	l.sessions = append(l.sessions, s)
	return s, nil
}

// Acquired returns the number of sessions handed out
func (l *Launcher) Acquired() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

// Sessions returns the sessions handed out so far
func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session(nil), l.sessions...)
}

// Last returns the most recent session, or nil
func (l *Launcher) Last() *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.sessions) == 0 {
		return nil
	}
	return l.sessions[len(l.sessions)-1]
}
