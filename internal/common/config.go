package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Browser     BrowserConfig   `toml:"browser"`
	RateLimit   RateLimitConfig `toml:"rate_limit"`
	CORS        CORSConfig      `toml:"cors"`
}

type ServerConfig struct {
	Port         int    `toml:"port"`
	Host         string `toml:"host"`
	ReadTimeout  string `toml:"read_timeout"`  // e.g. "15s"
	WriteTimeout string `toml:"write_timeout"` // must cover a full 10-attempt run
	IdleTimeout  string `toml:"idle_timeout"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05"
}

// BrowserConfig controls the headless Chrome sessions
type BrowserConfig struct {
	ExecPath          string `toml:"exec_path"` // Chrome binary, empty = auto-detect
	Headless          bool   `toml:"headless"`
	NoSandbox         bool   `toml:"no_sandbox"`
	DisableGPU        bool   `toml:"disable_gpu"`
	UserAgent         string `toml:"user_agent"`
	ViewportWidth     int    `toml:"viewport_width"`
	ViewportHeight    int    `toml:"viewport_height"`
	HomeURL           string `toml:"home_url"`
	CookieDomain      string `toml:"cookie_domain"`      // applied to cookies supplied without a domain
	StartupTimeout    string `toml:"startup_timeout"`    // browser launch
	NavigationTimeout string `toml:"navigation_timeout"` // per navigation, waits for network idle
	ActionTimeout     string `toml:"action_timeout"`     // per click/query
	SettleDelay       string `toml:"settle_delay"`       // after compose/type/link
	PublishSettle     string `toml:"publish_settle"`     // after submit
}

// RateLimitConfig limits API requests per client address
type RateLimitConfig struct {
	Enabled  bool   `toml:"enabled"`
	Requests int    `toml:"requests"` // allowed per window
	Window   string `toml:"window"`   // e.g. "15m"
	Burst    int    `toml:"burst"`

	// TrustedProxies lists CIDRs or addresses allowed to set X-Forwarded-For.
	// Empty means clients are keyed on the socket address only.
	TrustedProxies []string `toml:"trusted_proxies"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"` // "*" allows all
}

// NewDefaultConfig returns the configuration used when no file overrides it
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:         3000,
			Host:         "0.0.0.0",
			ReadTimeout:  "15s",
			WriteTimeout: "20m",
			IdleTimeout:  "60s",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Browser: BrowserConfig{
			Headless:          true,
			NoSandbox:         true,
			DisableGPU:        true,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			ViewportWidth:     1366,
			ViewportHeight:    768,
			HomeURL:           "https://www.facebook.com/",
			CookieDomain:      ".facebook.com",
			StartupTimeout:    "30s",
			NavigationTimeout: "30s",
			ActionTimeout:     "10s",
			SettleDelay:       "2s",
			PublishSettle:     "5s",
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 100,
			Window:   "15m",
			Burst:    10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// LoadFromFile loads configuration from a single TOML file
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads defaults, merges each file in order (later files win) and
// finally applies environment overrides
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("AUTOSHARE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration (PORT is honoured for hosted platforms)
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if port := os.Getenv("AUTOSHARE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("AUTOSHARE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if wt := os.Getenv("AUTOSHARE_SERVER_WRITE_TIMEOUT"); wt != "" {
		config.Server.WriteTimeout = wt
	}

	// Logging configuration
	if level := os.Getenv("AUTOSHARE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("AUTOSHARE_LOG_OUTPUT"); output != "" {
		if outputs := splitList(output); len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Browser configuration
	if execPath := os.Getenv("AUTOSHARE_BROWSER_EXEC_PATH"); execPath != "" {
		config.Browser.ExecPath = execPath
	} else if execPath := os.Getenv("CHROME_PATH"); execPath != "" {
		config.Browser.ExecPath = execPath
	}
	if headless := os.Getenv("AUTOSHARE_BROWSER_HEADLESS"); headless != "" {
		if b, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = b
		}
	}
	if noSandbox := os.Getenv("AUTOSHARE_BROWSER_NO_SANDBOX"); noSandbox != "" {
		if b, err := strconv.ParseBool(noSandbox); err == nil {
			config.Browser.NoSandbox = b
		}
	}
	if userAgent := os.Getenv("AUTOSHARE_BROWSER_USER_AGENT"); userAgent != "" {
		config.Browser.UserAgent = userAgent
	}
	if homeURL := os.Getenv("AUTOSHARE_BROWSER_HOME_URL"); homeURL != "" {
		config.Browser.HomeURL = homeURL
	}
	if timeout := os.Getenv("AUTOSHARE_BROWSER_NAVIGATION_TIMEOUT"); timeout != "" {
		config.Browser.NavigationTimeout = timeout
	}

	// Rate limiting
	if enabled := os.Getenv("AUTOSHARE_RATE_LIMIT_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.RateLimit.Enabled = b
		}
	}
	if requests := os.Getenv("AUTOSHARE_RATE_LIMIT_REQUESTS"); requests != "" {
		if n, err := strconv.Atoi(requests); err == nil {
			config.RateLimit.Requests = n
		}
	}
	if window := os.Getenv("AUTOSHARE_RATE_LIMIT_WINDOW"); window != "" {
		config.RateLimit.Window = window
	}
	if proxies := os.Getenv("AUTOSHARE_RATE_LIMIT_TRUSTED_PROXIES"); proxies != "" {
		config.RateLimit.TrustedProxies = splitList(proxies)
	}

	// CORS
	if origins := os.Getenv("AUTOSHARE_CORS_ALLOWED_ORIGINS"); origins != "" {
		if list := splitList(origins); len(list) > 0 {
			config.CORS.AllowedOrigins = list
		}
	}
}

// ApplyFlagOverrides applies command-line flags (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ParseDuration parses a duration string, returning fallback when empty or invalid
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// IsProduction reports whether the environment is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ProductionWarnings lists settings that are unsafe in a production environment
func (c *Config) ProductionWarnings() []string {
	if !c.IsProduction() {
		return nil
	}
	var warnings []string
	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			warnings = append(warnings, "cors allows every origin")
			break
		}
	}
	if !c.RateLimit.Enabled {
		warnings = append(warnings, "rate limiting is disabled")
	}
	if !c.Browser.Headless {
		warnings = append(warnings, "browser is not headless")
	}
	return warnings
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
