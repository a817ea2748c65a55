package posting

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/session"
)

// step is a state of the per-attempt state machine
type step int

const (
	stepNavigateHome step = iota
	stepVerifyLoggedIn
	stepOpenComposer
	stepTypeMessage
	stepAttachLink
	stepSubmit
	stepVerifyPublished
	stepDone
)

var stepNames = [...]string{
	stepNavigateHome:    "NavigateToHome",
	stepVerifyLoggedIn:  "VerifyLoggedIn",
	stepOpenComposer:    "OpenComposer",
	stepTypeMessage:     "TypeMessage",
	stepAttachLink:      "AttachLink",
	stepSubmit:          "Submit",
	stepVerifyPublished: "VerifyPublished",
	stepDone:            "Done",
}

func (st step) String() string {
	if int(st) < len(stepNames) {
		return stepNames[st]
	}
	return fmt.Sprintf("step(%d)", int(st))
}

// attempt drives one compose-and-publish cycle against a held session
type attempt struct {
	svc     *Service
	session interfaces.BrowserSession
	req     models.PostRequest
}

// run executes the steps in order and returns the step that failed, if any
func (a *attempt) run(ctx context.Context) (step, error) {
	st := stepNavigateHome
	for st != stepDone {
		next, err := a.advance(ctx, st)
		if err != nil {
			return st, fmt.Errorf("%s: %w", st, err)
		}
		st = next
	}
	return stepDone, nil
}

func (a *attempt) advance(ctx context.Context, st step) (step, error) {
	switch st {
	case stepNavigateHome:
		if err := a.session.Navigate(ctx, a.svc.config.HomeURL); err != nil {
			if !errors.Is(err, models.ErrSessionClosed) && !errors.Is(err, models.ErrNavigationFailed) {
				err = fmt.Errorf("%w: %v", models.ErrNavigationFailed, err)
			}
			return st, err
		}
		return stepVerifyLoggedIn, nil

	case stepVerifyLoggedIn:
		loggedIn, err := session.IsAuthenticated(ctx, a.session)
		if err != nil {
			return st, err
		}
		if !loggedIn {
			return st, models.ErrSessionExpiredMidRun
		}
		return stepOpenComposer, nil

	case stepOpenComposer:
		if err := a.session.Click(ctx, interfaces.LandmarkCompose); err != nil {
			return st, err
		}
		return stepTypeMessage, a.settle(ctx)

	case stepTypeMessage:
		if err := a.session.Type(ctx, a.req.Message); err != nil {
			return st, err
		}
		if a.req.HasLink() {
			return stepAttachLink, a.settle(ctx)
		}
		return stepSubmit, a.settle(ctx)

	case stepAttachLink:
		if err := a.session.Click(ctx, interfaces.LandmarkAddLink); err != nil {
			return st, err
		}
		if err := a.session.Type(ctx, a.req.Link); err != nil {
			return st, err
		}
		return stepSubmit, a.settle(ctx)

	case stepSubmit:
		if err := a.session.Click(ctx, interfaces.LandmarkPublish); err != nil {
			return st, err
		}
		return stepVerifyPublished, a.svc.sleep(ctx, a.svc.config.PublishSettle)

	case stepVerifyPublished:
		stillOpen, err := a.session.HasLandmark(ctx, interfaces.LandmarkComposer)
		if err != nil {
			return st, err
		}
		if stillOpen {
			return st, fmt.Errorf("%w: composer still open after submit", models.ErrPublishUnconfirmed)
		}
		return stepDone, nil
	}

	return st, fmt.Errorf("%w: unknown step %s", models.ErrAutomationFault, st)
}

func (a *attempt) settle(ctx context.Context) error {
	return a.svc.sleep(ctx, a.svc.config.SettleDelay)
}
