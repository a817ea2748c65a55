// Package story shares a text story. It is best effort: the site gives no
// reliable signal that a story was published, so success means every step ran.
package story

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/common"
	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/metrics"
	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/session"
)

// SuccessMessage is returned once every story step completed
const SuccessMessage = "Story shared successfully"

type Config struct {
	HomeURL       string
	SettleDelay   time.Duration
	PublishSettle time.Duration
}

type Service struct {
	launcher interfaces.BrowserLauncher
	config   Config
	logger   arbor.ILogger
	sleep    common.SleepFunc
}

func NewService(launcher interfaces.BrowserLauncher, config Config, logger arbor.ILogger) *Service {
	return &Service{
		launcher: launcher,
		config:   config,
		logger:   logger,
		sleep:    common.SleepContext,
	}
}

// WithSleep replaces the settle wait
func (s *Service) WithSleep(fn common.SleepFunc) *Service {
	s.sleep = fn
	return s
}

// Share posts message as a text story on a fresh browser session
func (s *Service) Share(ctx context.Context, creds *models.CredentialSet, message string) error {
	if creds == nil {
		return fmt.Errorf("%w: no credentials supplied", models.ErrInvalidCredentials)
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: message is required", models.ErrInvalidInput)
	}

	err := s.share(ctx, creds, message)
	result := "shared"
	if err != nil {
		result = string(models.FailureReasonOf(err))
	}
	metrics.StoriesTotal.WithLabelValues(result).Inc()
	return err
}

func (s *Service) share(ctx context.Context, creds *models.CredentialSet, message string) error {
	browserSession, err := s.launcher.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire browser: %v", models.ErrAutomationFault, err)
	}
	defer func() {
		if cerr := browserSession.Close(); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("Failed to release browser session")
		}
	}()

	if err := browserSession.InjectCookies(ctx, creds.Cookies()); err != nil {
		return err
	}
	if err := browserSession.Navigate(ctx, s.config.HomeURL); err != nil {
		return err
	}

	loggedIn, err := session.IsAuthenticated(ctx, browserSession)
	if err != nil {
		return err
	}
	if !loggedIn {
		return models.ErrSessionInvalid
	}

	for _, landmark := range []interfaces.Landmark{interfaces.LandmarkStoryCreate, interfaces.LandmarkStoryText} {
		if err := browserSession.Click(ctx, landmark); err != nil {
			return fmt.Errorf("open %s: %w", landmark, err)
		}
		if err := s.sleep(ctx, s.config.SettleDelay); err != nil {
			return err
		}
	}

	if err := browserSession.Type(ctx, message); err != nil {
		return fmt.Errorf("type story: %w", err)
	}
	if err := s.sleep(ctx, s.config.SettleDelay); err != nil {
		return err
	}

	if err := browserSession.Click(ctx, interfaces.LandmarkStoryShare); err != nil {
		return fmt.Errorf("share story: %w", err)
	}
	if err := s.sleep(ctx, s.config.PublishSettle); err != nil {
		return err
	}

	s.logger.Info().Str("account_id", creds.AccountID()).Msg("Story shared")
	return nil
}
