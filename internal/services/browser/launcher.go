package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/common"
	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/metrics"
	"github.com/ternarybob/autoshare/internal/models"
)

// Config holds the settings for every launched browser
type Config struct {
	ExecPath          string
	Headless          bool
	NoSandbox         bool
	DisableGPU        bool
	UserAgent         string
	ViewportWidth     int
	ViewportHeight    int
	CookieDomain      string
	StartupTimeout    time.Duration
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
}

// ConfigFromCommon converts the [browser] section into a launcher config
func ConfigFromCommon(c common.BrowserConfig) Config {
	return Config{
		ExecPath:          c.ExecPath,
		Headless:          c.Headless,
		NoSandbox:         c.NoSandbox,
		DisableGPU:        c.DisableGPU,
		UserAgent:         c.UserAgent,
		ViewportWidth:     c.ViewportWidth,
		ViewportHeight:    c.ViewportHeight,
		CookieDomain:      c.CookieDomain,
		StartupTimeout:    common.ParseDuration(c.StartupTimeout, 30*time.Second),
		NavigationTimeout: common.ParseDuration(c.NavigationTimeout, 30*time.Second),
		ActionTimeout:     common.ParseDuration(c.ActionTimeout, 10*time.Second),
	}
}

// Launcher starts one dedicated Chrome process per acquired session.
// Sessions are never pooled or shared between requests.
type Launcher struct {
	config Config
	logger arbor.ILogger
}

var _ interfaces.BrowserLauncher = (*Launcher)(nil)

// NewLauncher creates a Chrome launcher
func NewLauncher(config Config, logger arbor.ILogger) *Launcher {
	if config.ViewportWidth <= 0 || config.ViewportHeight <= 0 {
		config.ViewportWidth, config.ViewportHeight = 1366, 768
	}
	if config.StartupTimeout <= 0 {
		config.StartupTimeout = 30 * time.Second
	}
	if config.NavigationTimeout <= 0 {
		config.NavigationTimeout = 30 * time.Second
	}
	if config.ActionTimeout <= 0 {
		config.ActionTimeout = 10 * time.Second
	}
	return &Launcher{config: config, logger: logger}
}

// Acquire launches a browser, verifies it responds and returns the session.
// The caller owns the session and must Close it.
func (l *Launcher) Acquire(ctx context.Context) (interfaces.BrowserSession, error) {
	startTime := time.Now()

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.config.Headless),
		chromedp.Flag("disable-gpu", l.config.DisableGPU),
		chromedp.Flag("no-sandbox", l.config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-notifications", true),
		chromedp.WindowSize(l.config.ViewportWidth, l.config.ViewportHeight),
		chromedp.UserAgent(l.config.UserAgent),
		chromedp.WSURLReadTimeout(l.config.StartupTimeout),
	)
	if l.config.ExecPath != "" {
		allocatorOpts = append(allocatorOpts, chromedp.ExecPath(l.config.ExecPath))
	}

	// Not derived from the request context: Close owns the shutdown order
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	s := &Session{
		config:          l.config,
		logger:          l.logger,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		allocatorCancel: allocatorCancel,
	}

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if _, ok := ev.(*inspector.EventTargetCrashed); ok {
			s.crashed.Store(true)
			l.logger.Warn().Msg("Browser target crashed")
		}
	})

	// The first Run allocates the Chrome process under the context it is given,
	// so it gets the long-lived browser context. WSURLReadTimeout bounds the launch.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("%w: launch browser: %v", models.ErrAutomationFault, err)
	}

	startCtx, cancel := s.scoped(ctx, l.config.StartupTimeout)
	defer cancel()

	err := chromedp.Run(startCtx,
		inspector.Enable(),
		chromedp.EmulateViewport(int64(l.config.ViewportWidth), int64(l.config.ViewportHeight)),
		chromedp.Navigate("about:blank"),
	)
	if err != nil {
		_ = chromedp.Cancel(browserCtx)
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("%w: browser failed startup: %v", models.ErrAutomationFault, err)
	}

	metrics.BrowserSessionsActive.Inc()
	l.logger.Debug().
		Dur("startup_time", time.Since(startTime)).
		Int("viewport_width", l.config.ViewportWidth).
		Int("viewport_height", l.config.ViewportHeight).
		Msg("Browser session acquired")

	return s, nil
}
