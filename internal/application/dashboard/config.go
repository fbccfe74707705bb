package dashboard

import "time"

// Config contains configuration for the top command.
type Config struct {
	// Remote API
	ServerURL string
	Token     string

	// Watched config file, reloaded on change
	ConfigPath string

	// Display settings
	Timezone   string
	TimeFormat string
	WeekStart  string // "monday" or "sunday"

	// Refresh settings
	DataRefreshInterval time.Duration
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "24h"
	}
	if c.WeekStart == "" {
		c.WeekStart = "monday"
	}
	if c.DataRefreshInterval == 0 {
		c.DataRefreshInterval = 30 * time.Second
	}
	return nil
}
