// Package fakebrowser is an in-memory BrowserSession backed by a goquery DOM.
// Landmarks resolve through the same selector table as the Chrome session, and
// clicks on the composer controls mutate the document the way the site does.
package fakebrowser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/browser"
)

// Session implements interfaces.BrowserSession without a browser.
// Hooks are read under the session lock and must be set before use.
type Session struct {
	mu      sync.Mutex
	doc     *goquery.Document
	pageFor func(navigation int) string

	navigations int
	cookies     []models.CookieEntry
	clicks      []interfaces.Landmark
	typed       []string
	closeCount  int
	lost        bool

	// NavigateErr fails the given 1-based navigation when it returns non-nil
	NavigateErr func(navigation int) error
	// ClickErr fails a click during the given navigation when it returns non-nil
	ClickErr func(navigation int, landmark interfaces.Landmark) error
	// PublishIgnored leaves the composer open after publish during the given navigation
	PublishIgnored func(navigation int) bool
	// LoseOnNavigation simulates a browser crash on that navigation (0 = never)
	LoseOnNavigation int
}

var _ interfaces.BrowserSession = (*Session)(nil)

// NewSession creates a session that serves pageFor(n) on the n-th navigation
func NewSession(pageFor func(navigation int) string) *Session {
	s := &Session{pageFor: pageFor}
	s.doc = mustParse("<html><body></body></html>")
	return s
}

// NewLoggedInSession serves a logged-in home page on every navigation
func NewLoggedInSession(profileName string) *Session {
	return NewSession(func(int) string { return HomePage(profileName) })
}

// NewLoggedOutSession serves the login page on every navigation
func NewLoggedOutSession() *Session {
	return NewSession(func(int) string { return LoginPage })
}

func mustParse(markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		panic(fmt.Sprintf("fakebrowser: invalid markup: %v", err))
	}
	return doc
}

func (s *Session) checkOpenLocked() error {
	if s.lost {
		return fmt.Errorf("%w: target crashed", models.ErrSessionClosed)
	}
	if s.closeCount > 0 {
		return models.ErrSessionClosed
	}
	return nil
}

func (s *Session) find(landmark interfaces.Landmark) (*goquery.Selection, error) {
	sel := browser.Selector(landmark)
	if sel == "" {
		return nil, fmt.Errorf("%w: unknown landmark %q", models.ErrAutomationFault, landmark)
	}
	return s.doc.Find(sel), nil
}

func (s *Session) InjectCookies(ctx context.Context, cookies []models.CookieEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return err
	}
	s.cookies = append(s.cookies, cookies...)
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.navigations++
	n := s.navigations
	if s.LoseOnNavigation > 0 && n >= s.LoseOnNavigation {
		s.lost = true
		return fmt.Errorf("%w: navigate to %s: target crashed", models.ErrSessionClosed, url)
	}
	if s.NavigateErr != nil {
		if err := s.NavigateErr(n); err != nil {
			return fmt.Errorf("%w: navigate to %s: %v", models.ErrNavigationFailed, url, err)
		}
	}

	s.doc = mustParse(s.pageFor(n))
	return nil
}

func (s *Session) HasLandmark(ctx context.Context, landmark interfaces.Landmark) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return false, err
	}
	sel, err := s.find(landmark)
	if err != nil {
		return false, err
	}
	return sel.Length() > 0, nil
}

func (s *Session) ReadText(ctx context.Context, landmark interfaces.Landmark) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return "", false, err
	}
	sel, err := s.find(landmark)
	if err != nil {
		return "", false, err
	}
	if sel.Length() == 0 {
		return "", false, nil
	}
	return strings.TrimSpace(sel.First().Text()), true, nil
}

func (s *Session) Click(ctx context.Context, landmark interfaces.Landmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return err
	}
	sel, err := s.find(landmark)
	if err != nil {
		return err
	}
	if sel.Length() == 0 {
		return fmt.Errorf("%w: click %s: node not found", models.ErrAutomationFault, landmark)
	}
	if s.ClickErr != nil {
		if err := s.ClickErr(s.navigations, landmark); err != nil {
			return fmt.Errorf("%w: click %s: %v", models.ErrAutomationFault, landmark, err)
		}
	}
	s.clicks = append(s.clicks, landmark)

	body := s.doc.Find("body")
	switch landmark {
	case interfaces.LandmarkCompose:
		body.AppendHtml(composerDialog)
	case interfaces.LandmarkPublish:
		if s.PublishIgnored == nil || !s.PublishIgnored(s.navigations) {
			s.doc.Find(`div[role="dialog"]`).Remove()
		}
	case interfaces.LandmarkStoryCreate:
		body.AppendHtml(storyDialog)
	case interfaces.LandmarkStoryText:
		s.doc.Find(`div[role="dialog"]`).AppendHtml(storyEditor)
	case interfaces.LandmarkStoryShare:
		s.doc.Find(`div[role="dialog"]`).Remove()
	}
	return nil
}

func (s *Session) Type(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return err
	}
	if s.doc.Find(`[contenteditable="true"]`).Length() == 0 {
		return fmt.Errorf("%w: type text: no editable element focused", models.ErrAutomationFault)
	}
	s.typed = append(s.typed, text)
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCount++
	return nil
}

// Navigations returns how many navigations were performed
func (s *Session) Navigations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigations
}

// Cookies returns the injected cookies
func (s *Session) Cookies() []models.CookieEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CookieEntry(nil), s.cookies...)
}

// Clicks returns the clicked landmarks in order
func (s *Session) Clicks() []interfaces.Landmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]interfaces.Landmark(nil), s.clicks...)
}

// Typed returns every string typed in order
func (s *Session) Typed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.typed...)
}

// CloseCount returns how many times Close was called
func (s *Session) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCount
}
