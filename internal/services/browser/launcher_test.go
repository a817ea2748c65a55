package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/common"
	"github.com/ternarybob/autoshare/internal/interfaces"
	"github.com/ternarybob/autoshare/internal/models"
)

func TestNewLauncher_Defaults(t *testing.T) {
	l := NewLauncher(Config{}, arbor.NewLogger())

	assert.Equal(t, 1366, l.config.ViewportWidth)
	assert.Equal(t, 768, l.config.ViewportHeight)
	assert.Equal(t, 30*time.Second, l.config.StartupTimeout)
	assert.Equal(t, 30*time.Second, l.config.NavigationTimeout)
	assert.Equal(t, 10*time.Second, l.config.ActionTimeout)
}

func TestNewLauncher_KeepsExplicitValues(t *testing.T) {
	l := NewLauncher(Config{
		ViewportWidth:     800,
		ViewportHeight:    600,
		StartupTimeout:    5 * time.Second,
		NavigationTimeout: 7 * time.Second,
		ActionTimeout:     2 * time.Second,
	}, arbor.NewLogger())

	assert.Equal(t, 800, l.config.ViewportWidth)
	assert.Equal(t, 600, l.config.ViewportHeight)
	assert.Equal(t, 5*time.Second, l.config.StartupTimeout)
	assert.Equal(t, 7*time.Second, l.config.NavigationTimeout)
	assert.Equal(t, 2*time.Second, l.config.ActionTimeout)
}

func TestNewLauncher_HalfViewportFallsBack(t *testing.T) {
	l := NewLauncher(Config{ViewportWidth: 800}, arbor.NewLogger())

	assert.Equal(t, 1366, l.config.ViewportWidth)
	assert.Equal(t, 768, l.config.ViewportHeight)
}

func TestConfigFromCommon(t *testing.T) {
	cfg := ConfigFromCommon(common.BrowserConfig{
		ExecPath:          "/usr/bin/chromium",
		Headless:          true,
		CookieDomain:      ".facebook.com",
		NavigationTimeout: "45s",
		ActionTimeout:     "bogus",
	})

	assert.Equal(t, "/usr/bin/chromium", cfg.ExecPath)
	assert.True(t, cfg.Headless)
	assert.Equal(t, ".facebook.com", cfg.CookieDomain)
	assert.Equal(t, 45*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 10*time.Second, cfg.ActionTimeout)
	assert.Equal(t, 30*time.Second, cfg.StartupTimeout)
}

// findChrome returns a local Chrome binary or skips the test
func findChrome(t *testing.T) string {
	t.Helper()
	if path := os.Getenv("CHROME_PATH"); path != "" {
		return path
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no Chrome binary found; set CHROME_PATH to run browser integration tests")
	return ""
}

// The session must outlive the context Acquire was called with
func TestLauncher_AcquireThenNavigate(t *testing.T) {
	execPath := findChrome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><div aria-label="Notifications">3</div></body></html>`)
	}))
	defer srv.Close()

	l := NewLauncher(Config{
		ExecPath:          execPath,
		Headless:          true,
		NoSandbox:         true,
		DisableGPU:        true,
		StartupTimeout:    30 * time.Second,
		NavigationTimeout: 20 * time.Second,
		ActionTimeout:     5 * time.Second,
	}, arbor.NewLogger())

	acquireCtx, cancelAcquire := context.WithTimeout(context.Background(), time.Minute)
	session, err := l.Acquire(acquireCtx)
	cancelAcquire()
	require.NoError(t, err)
	defer session.Close()

	ctx := context.Background()
	require.NoError(t, session.Navigate(ctx, srv.URL))

	found, err := session.HasLandmark(ctx, interfaces.LandmarkNotifications)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = session.HasLandmark(ctx, interfaces.LandmarkCompose)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, session.Close())
	err = session.Navigate(ctx, srv.URL)
	assert.ErrorIs(t, err, models.ErrSessionClosed)
}
