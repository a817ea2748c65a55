package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 3000, config.Server.Port)
	assert.True(t, config.Browser.Headless)
	assert.Equal(t, 1366, config.Browser.ViewportWidth)
	assert.Equal(t, 768, config.Browser.ViewportHeight)
	assert.Equal(t, "30s", config.Browser.NavigationTimeout)
	assert.Equal(t, "5s", config.Browser.PublishSettle)
	assert.Equal(t, []string{"*"}, config.CORS.AllowedOrigins)
}

func TestLoadFromFiles_MergesInOrder(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	require.NoError(t, os.WriteFile(base, []byte(`
environment = "production"

[server]
port = 8081

[browser]
headless = false
home_url = "https://m.facebook.com/"
`), 0644))
	require.NoError(t, os.WriteFile(override, []byte(`
[server]
port = 9090

[rate_limit]
requests = 5
`), 0644))

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, 9090, config.Server.Port)
	assert.False(t, config.Browser.Headless)
	assert.Equal(t, "https://m.facebook.com/", config.Browser.HomeURL)
	assert.Equal(t, 5, config.RateLimit.Requests)
	// untouched defaults survive
	assert.Equal(t, "15m", config.RateLimit.Window)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("AUTOSHARE_SERVER_PORT", "7070")
	t.Setenv("AUTOSHARE_LOG_OUTPUT", "stdout, file ,")
	t.Setenv("AUTOSHARE_BROWSER_HEADLESS", "false")
	t.Setenv("AUTOSHARE_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("AUTOSHARE_RATE_LIMIT_TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.False(t, config.Browser.Headless)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.CORS.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, config.RateLimit.TrustedProxies)
}

func TestProductionWarnings(t *testing.T) {
	config := NewDefaultConfig()
	config.CORS.AllowedOrigins = []string{"*"}
	config.RateLimit.Enabled = false
	config.Browser.Headless = false
	assert.Empty(t, config.ProductionWarnings(), "development never warns")

	config.Environment = "Production"
	assert.ElementsMatch(t, []string{
		"cors allows every origin",
		"rate limiting is disabled",
		"browser is not headless",
	}, config.ProductionWarnings())

	config.CORS.AllowedOrigins = []string{"https://app.example"}
	config.RateLimit.Enabled = true
	config.Browser.Headless = true
	assert.Empty(t, config.ProductionWarnings())
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 3000, config.Server.Port)

	ApplyFlagOverrides(config, 4000, "127.0.0.1")
	assert.Equal(t, 4000, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDuration("2s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("-1s", time.Minute))
}
