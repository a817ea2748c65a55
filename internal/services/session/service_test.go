package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/browser/fakebrowser"
)

func testCredentials(t *testing.T) *models.CredentialSet {
	t.Helper()
	creds, err := models.NewCredentialSet([]models.CookieEntry{
		{Name: "c_user", Value: "100012345"},
		{Name: "xs", Value: "secret"},
		{Name: "datr", Value: "d"},
	})
	require.NoError(t, err)
	return creds
}

func newService(launcher interfaces.BrowserLauncher) *Service {
	return NewService(launcher, "https://www.facebook.com/", arbor.NewLogger())
}

func TestValidate_Authenticated(t *testing.T) {
	launcher := fakebrowser.NewLauncher(func() *fakebrowser.Session {
		return fakebrowser.NewLoggedInSession("Jane Doe")
	})

	result, err := newService(launcher).Validate(context.Background(), testCredentials(t))
	require.NoError(t, err)

	assert.True(t, result.Authenticated)
	assert.Equal(t, "Jane Doe", result.IdentityLabel)
	assert.Equal(t, "100012345", result.AccountID)

	session := launcher.Last()
	assert.Equal(t, 1, session.CloseCount())
	assert.Len(t, session.Cookies(), 3)
	assert.Equal(t, 1, session.Navigations())
}

func TestValidate_FallbackLabel(t *testing.T) {
	launcher := fakebrowser.NewLauncher(func() *fakebrowser.Session {
		return fakebrowser.NewLoggedInSession("")
	})

	result, err := newService(launcher).Validate(context.Background(), testCredentials(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultIdentityLabel, result.IdentityLabel)
}

func TestValidate_NotLoggedIn(t *testing.T) {
	launcher := fakebrowser.NewLauncher(fakebrowser.NewLoggedOutSession)

	result, err := newService(launcher).Validate(context.Background(), testCredentials(t))
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, models.ErrSessionInvalid))
	assert.Equal(t, 1, launcher.Last().CloseCount())
}

func TestValidate_NavigationFailure(t *testing.T) {
	launcher := fakebrowser.NewLauncher(func() *fakebrowser.Session {
		s := fakebrowser.NewLoggedInSession("Jane")
		s.NavigateErr = func(int) error { return context.DeadlineExceeded }
		return s
	})

	_, err := newService(launcher).Validate(context.Background(), testCredentials(t))
	assert.True(t, errors.Is(err, models.ErrNavigationFailed))
	assert.Equal(t, 1, launcher.Last().CloseCount())
}

func TestValidate_AcquireFailure(t *testing.T) {
	launcher := fakebrowser.NewLauncher(nil)
	launcher.AcquireErr = errors.New("chrome not found")

	_, err := newService(launcher).Validate(context.Background(), testCredentials(t))
	assert.True(t, errors.Is(err, models.ErrAutomationFault))
}

func TestValidate_NilCredentialsNeverAcquires(t *testing.T) {
	launcher := fakebrowser.NewLauncher(nil)

	_, err := newService(launcher).Validate(context.Background(), nil)
	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
	assert.Equal(t, 0, launcher.Acquired())
}

func TestValidate_Idempotent(t *testing.T) {
	launcher := fakebrowser.NewLauncher(func() *fakebrowser.Session {
		return fakebrowser.NewLoggedInSession("Jane Doe")
	})
	svc := newService(launcher)
	creds := testCredentials(t)

	first, err := svc.Validate(context.Background(), creds)
	require.NoError(t, err)
	second, err := svc.Validate(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, first.Authenticated, second.Authenticated)
	assert.Equal(t, 2, launcher.Acquired())
	for _, s := range launcher.Sessions() {
		assert.Equal(t, 1, s.CloseCount())
	}
}
