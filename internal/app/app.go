package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/common"
	"github.com/ternarybob/autoshare/internal/handlers"
	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/services/browser"
	"github.com/ternarybob/autoshare/internal/services/posting"
	"github.com/ternarybob/autoshare/internal/services/session"
	"github.com/ternarybob/autoshare/internal/services/status"
	"github.com/ternarybob/autoshare/internal/services/story"
)

// App holds all application components and dependencies
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	StartedAt time.Time

	// Browser automation
	Launcher       interfaces.BrowserLauncher
	SessionService *session.Service
	PostingService *posting.Service
	StoryService   *story.Service
	StatusService  *status.Service

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	AutomationHandler *handlers.AutomationHandler
	StatusHandler     *handlers.StatusHandler
}

// New initializes the application with the Chrome launcher
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	launcher := browser.NewLauncher(browser.ConfigFromCommon(cfg.Browser), logger)
	return NewWithLauncher(cfg, logger, launcher)
}

// NewWithLauncher initializes the application around the given launcher
func NewWithLauncher(cfg *common.Config, logger arbor.ILogger, launcher interfaces.BrowserLauncher) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if launcher == nil {
		return nil, fmt.Errorf("browser launcher is required")
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		StartedAt: time.Now(),
		Launcher:  launcher,
	}

	app.initServices()
	app.initHandlers()

	logger.Info().
		Str("home_url", cfg.Browser.HomeURL).
		Bool("headless", cfg.Browser.Headless).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initServices() {
	homeURL := a.Config.Browser.HomeURL
	timing := posting.Config{
		HomeURL:       homeURL,
		SettleDelay:   common.ParseDuration(a.Config.Browser.SettleDelay, 2*time.Second),
		PublishSettle: common.ParseDuration(a.Config.Browser.PublishSettle, 5*time.Second),
	}

	a.SessionService = session.NewService(a.Launcher, homeURL, a.Logger)
	a.PostingService = posting.NewService(a.Launcher, timing, a.Logger)
	a.StoryService = story.NewService(a.Launcher, story.Config(timing), a.Logger)
	a.StatusService = status.NewService(a.StartedAt, a.Config.Environment, a.Logger)

	a.Logger.Debug().
		Dur("settle_delay", timing.SettleDelay).
		Dur("publish_settle", timing.PublishSettle).
		Msg("Automation services initialized")
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.AutomationHandler = handlers.NewAutomationHandler(a.SessionService, a.PostingService, a.StoryService, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.StatusService, a.Logger)
}

// Close releases application resources. Browser sessions are owned by
// requests and are released before each response, so nothing is pooled here.
func (a *App) Close() error {
	a.Logger.Info().Dur("uptime", a.StatusService.Uptime()).Msg("Application closed")
	return nil
}
