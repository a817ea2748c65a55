package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the effective settings
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("AutoShare", GetVersion())

	logger.Info().
		Str("environment", config.Environment).
		Str("home_url", config.Browser.HomeURL).
		Bool("headless", config.Browser.Headless).
		Bool("production", config.IsProduction()).
		Bool("rate_limit", config.RateLimit.Enabled).
		Msg("Configuration summary")

	for _, warning := range config.ProductionWarnings() {
		logger.Warn().
			Str("setting", warning).
			Msg("Unsafe production configuration")
	}
}
