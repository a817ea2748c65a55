package story

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/browser/fakebrowser"
)

func instant(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newService(launcher interfaces.BrowserLauncher) *Service {
	config := Config{HomeURL: "https://www.facebook.com/", SettleDelay: time.Second, PublishSettle: time.Second}
	return NewService(launcher, config, arbor.NewLogger()).WithSleep(instant)
}

func testCredentials(t *testing.T) *models.CredentialSet {
	t.Helper()
	creds, err := models.NewCredentialSet([]models.CookieEntry{
		{Name: "c_user", Value: "42"},
		{Name: "xs", Value: "secret"},
	})
	require.NoError(t, err)
	return creds
}

func TestShare_RunsEveryStep(t *testing.T) {
	launcher := fakebrowser.NewLauncher(nil)

	err := newService(launcher).Share(context.Background(), testCredentials(t), "My story")
	require.NoError(t, err)

	session := launcher.Last()
	assert.Equal(t, []interfaces.Landmark{
		interfaces.LandmarkStoryCreate,
		interfaces.LandmarkStoryText,
		interfaces.LandmarkStoryShare,
	}, session.Clicks())
	assert.Equal(t, []string{"My story"}, session.Typed())
	assert.Equal(t, 1, session.CloseCount())
}

func TestShare_LoggedOut(t *testing.T) {
	launcher := fakebrowser.NewLauncher(fakebrowser.NewLoggedOutSession)

	err := newService(launcher).Share(context.Background(), testCredentials(t), "My story")
	assert.ErrorIs(t, err, models.ErrSessionInvalid)
	assert.Empty(t, launcher.Last().Clicks())
	assert.Equal(t, 1, launcher.Last().CloseCount())
}

func TestShare_ClickFailure(t *testing.T) {
	launcher := fakebrowser.NewLauncher(func() *fakebrowser.Session {
		s := fakebrowser.NewLoggedInSession("Jane")
		s.ClickErr = func(_ int, landmark interfaces.Landmark) error {
			if landmark == interfaces.LandmarkStoryText {
				return errors.New("not clickable")
			}
			return nil
		}
		return s
	})

	err := newService(launcher).Share(context.Background(), testCredentials(t), "My story")
	assert.ErrorIs(t, err, models.ErrAutomationFault)
	assert.Equal(t, 1, launcher.Last().CloseCount())
}

func TestShare_RejectsEmptyMessage(t *testing.T) {
	launcher := fakebrowser.NewLauncher(nil)

	err := newService(launcher).Share(context.Background(), testCredentials(t), "   ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Zero(t, launcher.Acquired())
}
