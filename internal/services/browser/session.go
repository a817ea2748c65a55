package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/metrics"
	"github.com/ternarybob/autoshare/internal/models"
)

// Session is a chromedp-backed BrowserSession with its own Chrome process
type Session struct {
	config          Config
	logger          arbor.ILogger
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	allocatorCancel context.CancelFunc

	crashed   atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
}

var _ interfaces.BrowserSession = (*Session)(nil)

// scoped derives a context from the browser context that also ends when the
// caller's ctx ends or the timeout elapses
func (s *Session) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	c, cancel := context.WithTimeout(s.browserCtx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return c, func() {
		stop()
		cancel()
	}
}

func (s *Session) dead() bool {
	return s.closed.Load() || s.crashed.Load() || s.browserCtx.Err() != nil
}

// wrap tags err with kind, or with ErrSessionClosed when the browser is gone
func (s *Session) wrap(kind error, what string, err error) error {
	if err == nil {
		return nil
	}
	if s.dead() || errors.Is(err, chromedp.ErrInvalidContext) {
		return fmt.Errorf("%w: %s: %v", models.ErrSessionClosed, what, err)
	}
	return fmt.Errorf("%w: %s: %v", kind, what, err)
}

func (s *Session) checkOpen() error {
	if s.dead() {
		return models.ErrSessionClosed
	}
	return nil
}

// InjectCookies installs the cookies through the network domain
func (s *Session) InjectCookies(ctx context.Context, cookies []models.CookieEntry) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	runCtx, cancel := s.scoped(ctx, s.config.ActionTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, c := range cookies {
				if err := s.cookieParams(c).Do(ctx); err != nil {
					return fmt.Errorf("cookie %s: %w", c.Name, err)
				}
			}
			return nil
		}),
	)
	if err != nil {
		return s.wrap(models.ErrAutomationFault, "inject cookies", err)
	}

	s.logger.Debug().Int("cookie_count", len(cookies)).Msg("Cookies injected into browser")
	return nil
}

func (s *Session) cookieParams(c models.CookieEntry) *network.SetCookieParams {
	domain := c.Domain
	if domain == "" {
		domain = s.config.CookieDomain
	}
	path := c.Path
	if path == "" {
		path = "/"
	}

	params := network.SetCookie(c.Name, c.Value).
		WithDomain(domain).
		WithPath(path).
		WithSecure(c.Secure).
		WithHTTPOnly(c.HTTPOnly)

	if c.Expires > 0 {
		expires := time.Unix(c.Expires, 0)
		if expires.After(time.Now()) {
			ts := cdp.TimeSinceEpoch(expires)
			params = params.WithExpires(&ts)
		}
	}

	switch c.SameSite {
	case "Strict":
		params = params.WithSameSite(network.CookieSameSiteStrict)
	case "Lax":
		params = params.WithSameSite(network.CookieSameSiteLax)
	case "None":
		params = params.WithSameSite(network.CookieSameSiteNone)
	}
	return params
}

// lifecycleMark identifies the document a lifecycle event belongs to
type lifecycleMark struct {
	frameID  cdp.FrameID
	loaderID cdp.LoaderID
}

// settledBy reports whether an idle event marks the end of the navigation
// that produced target. Same-document navigations carry no loader id, so only
// the frame is compared for them.
func settledBy(event, target lifecycleMark) bool {
	if event.frameID != target.frameID {
		return false
	}
	return target.loaderID == "" || event.loaderID == target.loaderID
}

// Navigate loads url in the main frame and waits until that document's
// network goes almost idle
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	navCtx, cancel := s.scoped(ctx, s.config.NavigationTimeout)
	defer cancel()

	// Events can arrive before page.Navigate returns the ids, so buffer them
	idle := make(chan lifecycleMark, 64)
	listenCtx, stopListening := context.WithCancel(navCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkAlmostIdle" {
			select {
			case idle <- lifecycleMark{frameID: e.FrameID, loaderID: e.LoaderID}:
			default:
			}
		}
	})

	var target lifecycleMark
	start := time.Now()
	err := chromedp.Run(navCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameID, loaderID, errorText, _, err := page.Navigate(url).Do(ctx)
			if err != nil {
				return err
			}
			if errorText != "" {
				return fmt.Errorf("page load error %s", errorText)
			}
			target = lifecycleMark{frameID: frameID, loaderID: loaderID}
			return nil
		}),
	)
	if err != nil {
		return s.wrap(models.ErrNavigationFailed, "navigate to "+url, err)
	}

wait:
	for {
		select {
		case mark := <-idle:
			if settledBy(mark, target) {
				break wait
			}
		case <-navCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return s.wrap(models.ErrNavigationFailed, "navigate to "+url,
				fmt.Errorf("network did not settle within %s", s.config.NavigationTimeout))
		}
	}

	s.logger.Debug().
		Str("url", url).
		Dur("duration", time.Since(start)).
		Msg("Navigation complete")
	return nil
}

// HasLandmark reports whether any node matches the landmark's selector
func (s *Session) HasLandmark(ctx context.Context, landmark interfaces.Landmark) (bool, error) {
	sel, err := s.selector(landmark)
	if err != nil {
		return false, err
	}
	if err := s.checkOpen(); err != nil {
		return false, err
	}

	runCtx, cancel := s.scoped(ctx, s.config.ActionTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(runCtx, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return false, s.wrap(models.ErrAutomationFault, "query "+string(landmark), err)
	}
	return len(nodes) > 0, nil
}

// ReadText returns the trimmed innerText of the first node matching the landmark
func (s *Session) ReadText(ctx context.Context, landmark interfaces.Landmark) (string, bool, error) {
	sel, err := s.selector(landmark)
	if err != nil {
		return "", false, err
	}
	if err := s.checkOpen(); err != nil {
		return "", false, err
	}

	runCtx, cancel := s.scoped(ctx, s.config.ActionTimeout)
	defer cancel()

	var result struct {
		Found bool   `json:"found"`
		Text  string `json:"text"`
	}
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		return el ? { found: true, text: (el.innerText || "").trim() } : { found: false, text: "" };
	})()`, sel)

	if err := chromedp.Run(runCtx, chromedp.Evaluate(expr, &result)); err != nil {
		return "", false, s.wrap(models.ErrAutomationFault, "read "+string(landmark), err)
	}
	return strings.TrimSpace(result.Text), result.Found, nil
}

// Click waits for the landmark to be visible and clicks it
func (s *Session) Click(ctx context.Context, landmark interfaces.Landmark) error {
	sel, err := s.selector(landmark)
	if err != nil {
		return err
	}
	if err := s.checkOpen(); err != nil {
		return err
	}

	runCtx, cancel := s.scoped(ctx, s.config.ActionTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return s.wrap(models.ErrAutomationFault, "click "+string(landmark), err)
	}
	return nil
}

// Type sends text as keystrokes to the focused element
func (s *Session) Type(ctx context.Context, text string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	// Keystrokes are slow; allow roughly 50ms per rune on top of the action timeout
	timeout := s.config.ActionTimeout + time.Duration(len([]rune(text)))*50*time.Millisecond
	runCtx, cancel := s.scoped(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.KeyEvent(text)); err != nil {
		return s.wrap(models.ErrAutomationFault, "type text", err)
	}
	return nil
}

// Close shuts the browser down; subsequent calls are no-ops
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		// chromedp.Cancel closes the browser gracefully; the cancels free the process
		if cerr := chromedp.Cancel(s.browserCtx); cerr != nil && !errors.Is(cerr, context.Canceled) {
			err = fmt.Errorf("close browser: %w", cerr)
		}
		s.browserCancel()
		s.allocatorCancel()

		metrics.BrowserSessionsActive.Dec()
		s.logger.Debug().Msg("Browser session released")
	})
	return err
}

func (s *Session) selector(landmark interfaces.Landmark) (string, error) {
	sel := Selector(landmark)
	if sel == "" {
		return "", fmt.Errorf("%w: unknown landmark %q", models.ErrAutomationFault, landmark)
	}
	return sel, nil
}
