package session

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/metrics"
	"github.com/ternarybob/autoshare/internal/models"
)

// DefaultIdentityLabel is used when the profile landmark has no readable name
const DefaultIdentityLabel = "Facebook User"

// Result is the outcome of a successful validation
type Result struct {
	Authenticated bool   `json:"authenticated"`
	IdentityLabel string `json:"user"`
	AccountID     string `json:"userId"`
}

// Service checks whether a credential set is logged in
type Service struct {
	launcher interfaces.BrowserLauncher
	homeURL  string
	logger   arbor.ILogger
}

// NewService creates a session validator
func NewService(launcher interfaces.BrowserLauncher, homeURL string, logger arbor.ILogger) *Service {
	return &Service{
		launcher: launcher,
		homeURL:  homeURL,
		logger:   logger,
	}
}

// Validate acquires a browser, injects the credentials and looks for the
// authenticated landmarks on the home page. The browser is always released
// before returning.
func (s *Service) Validate(ctx context.Context, creds *models.CredentialSet) (*Result, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: no credentials supplied", models.ErrInvalidCredentials)
	}

	result, err := s.validate(ctx, creds)
	metrics.ValidationsTotal.WithLabelValues(validationLabel(err)).Inc()
	return result, err
}

func (s *Service) validate(ctx context.Context, creds *models.CredentialSet) (*Result, error) {
	browserSession, err := s.launcher.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire browser: %v", models.ErrAutomationFault, err)
	}
	defer func() {
		if cerr := browserSession.Close(); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("Failed to release browser session")
		}
	}()

	if err := browserSession.InjectCookies(ctx, creds.Cookies()); err != nil {
		return nil, err
	}

	if err := browserSession.Navigate(ctx, s.homeURL); err != nil {
		s.logger.Warn().Err(err).Str("account_id", creds.AccountID()).Msg("Validation navigation failed")
		return nil, err
	}

	loggedIn, err := IsAuthenticated(ctx, browserSession)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		s.logger.Info().Str("account_id", creds.AccountID()).Msg("Session is not authenticated")
		return nil, models.ErrSessionInvalid
	}

	label := DefaultIdentityLabel
	if text, ok, err := browserSession.ReadText(ctx, interfaces.LandmarkProfile); err != nil {
		s.logger.Debug().Err(err).Msg("Profile landmark unreadable, using default label")
	} else if ok && text != "" {
		label = text
	}

	s.logger.Info().
		Str("account_id", creds.AccountID()).
		Str("user", label).
		Msg("Session validated")

	return &Result{
		Authenticated: true,
		IdentityLabel: label,
		AccountID:     creds.AccountID(),
	}, nil
}

// IsAuthenticated reports whether any authenticated-only landmark is present
func IsAuthenticated(ctx context.Context, browserSession interfaces.BrowserSession) (bool, error) {
	for _, landmark := range interfaces.AuthenticatedLandmarks {
		ok, err := browserSession.HasLandmark(ctx, landmark)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func validationLabel(err error) string {
	if err == nil {
		return "authenticated"
	}
	return string(models.FailureReasonOf(err))
}
