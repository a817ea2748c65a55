package posting

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
)

// SuccessDetail is recorded on every successful attempt
const SuccessDetail = "Post shared successfully"

// Config holds the fixed timings of an attempt
type Config struct {
	HomeURL       string
	SettleDelay   time.Duration // after opening the composer, typing and attaching a link
	PublishSettle time.Duration // after submit, before checking the composer closed
}

// Service runs bounded posting runs, one browser per run
type Service struct {
	launcher interfaces.BrowserLauncher
	config   Config
	logger   arbor.ILogger
	sleep    common.SleepFunc
	now      func() time.Time
}

// NewService creates a posting orchestrator
func NewService(launcher interfaces.BrowserLauncher, config Config, logger arbor.ILogger) *Service {
	return &Service{
		launcher: launcher,
		config:   config,
		logger:   logger,
		sleep:    common.SleepContext,
		now:      time.Now,
	}
}

// WithSleep replaces the wait used for settle windows and inter-attempt delays
func (s *Service) WithSleep(fn common.SleepFunc) *Service {
	s.sleep = fn
	return s
}

// haltCause stops further attempts from being driven
type haltCause struct {
	reason models.FailureReason
	detail string
}

// Run publishes req.Message up to req.AttemptCount times. Attempt failures are
// recorded, never returned; an error is returned only when the run could not
// start (bad input, no browser, cookie injection failed). The browser session is
// released exactly once.
func (s *Service) Run(ctx context.Context, creds *models.CredentialSet, req models.PostRequest) (*models.RunResult, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: no credentials supplied", models.ErrInvalidCredentials)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrInvalidInput)
	}
	req.AttemptCount = models.ClampAttemptCount(req.AttemptCount)
	req.AttemptDelaySeconds = models.ClampAttemptDelay(req.AttemptDelaySeconds)

	runID := common.NewRunID()
	logger := s.logger.WithCorrelationId(runID)
	startedAt := s.now()

	logger.Info().
		Str("account_id", creds.AccountID()).
		Int("count", req.AttemptCount).
		Int("delay_seconds", req.AttemptDelaySeconds).
		Bool("with_link", req.HasLink()).
		Msg("Posting run started")

	browserSession, err := s.launcher.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire browser: %v", models.ErrAutomationFault, err)
	}
	defer func() {
		if cerr := browserSession.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to release browser session")
		}
	}()

	if err := browserSession.InjectCookies(ctx, creds.Cookies()); err != nil {
		return nil, err
	}

	attempts := s.runAttempts(ctx, logger, browserSession, req)

	result := &models.RunResult{
		RunID:      runID,
		AccountID:  creds.AccountID(),
		Attempts:   attempts,
		Summary:    models.Summarize(attempts),
		StartedAt:  startedAt,
		FinishedAt: s.now(),
	}
	metrics.RunDuration.Observe(result.FinishedAt.Sub(startedAt).Seconds())

	logger.Info().
		Int("total", result.Summary.Total).
		Int("successful", result.Summary.Successful).
		Int("failed", result.Summary.Failed).
		Int("success_rate", result.Summary.SuccessRate).
		Dur("duration", result.FinishedAt.Sub(startedAt)).
		Msg("Posting run completed")

	return result, nil
}

func (s *Service) runAttempts(ctx context.Context, logger arbor.ILogger, browserSession interfaces.BrowserSession, req models.PostRequest) []models.AttemptRecord {
	records := make([]models.AttemptRecord, 0, req.AttemptCount)
	var halt *haltCause

	for i := 1; i <= req.AttemptCount; i++ {
		var record models.AttemptRecord
		if halt != nil {
			record = models.NewFailureRecord(i, s.now(), halt.reason, halt.detail)
		} else {
			record = s.runAttempt(ctx, browserSession, req, i)
			switch {
			case record.Reason == models.ReasonSessionLost:
				halt = &haltCause{
					reason: models.ReasonSessionLost,
					detail: fmt.Sprintf("browser session lost during attempt %d", i),
				}
			case ctx.Err() != nil:
				halt = &haltCause{reason: models.ReasonRunCanceled, detail: "run canceled: " + ctx.Err().Error()}
			}
		}

		records = append(records, record)
		metrics.AttemptsTotal.WithLabelValues(string(record.Outcome), string(record.Reason)).Inc()

		if record.Succeeded() {
			logger.Info().Int("attempt", i).Int("of", req.AttemptCount).Msg("Attempt succeeded")
		} else {
			logger.Warn().
				Int("attempt", i).
				Int("of", req.AttemptCount).
				Str("reason", string(record.Reason)).
				Str("detail", record.Detail).
				Msg("Attempt failed")
		}

		if i < req.AttemptCount && halt == nil {
			if err := s.sleep(ctx, req.Delay()); err != nil {
				halt = &haltCause{reason: models.ReasonRunCanceled, detail: "run canceled: " + err.Error()}
			}
		}
	}

	return records
}

// runAttempt converts every error or panic inside the attempt into a record
func (s *Service) runAttempt(ctx context.Context, browserSession interfaces.BrowserSession, req models.PostRequest, index int) (record models.AttemptRecord) {
	defer func() {
		if r := recover(); r != nil {
			record = models.NewFailureRecord(index, s.now(), models.ReasonAutomationFault, fmt.Sprintf("panic: %v", r))
		}
	}()

	a := &attempt{svc: s, session: browserSession, req: req}
	if _, err := a.run(ctx); err != nil {
		return models.NewFailureRecord(index, s.now(), models.FailureReasonOf(err), err.Error())
	}
	return models.NewSuccessRecord(index, s.now(), SuccessDetail)
}
