// Package config loads and saves the YAML configuration file. A missing
// file is created on first run with a commented template and 0600
// permissions, since it holds the API credential.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// ServerURL is the base URL of the time-tracking server.
	ServerURL string `yaml:"server_url"`

	// Token is the bearer credential obtained at login.
	Token string `yaml:"token"`

	// Timezone is the IANA timezone used for display (e.g. "Europe/Madrid").
	// "Local" uses the system zone.
	Timezone string `yaml:"timezone"`

	// WeekStart controls the first day of the calendar week:
	// "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start"`

	// RefreshSeconds is the remote data refresh interval for the
	// dashboard.
	RefreshSeconds int `yaml:"refresh_seconds"`
}

const defaultTemplate = `# tracktop configuration
#
# server_url: base URL of your time-tracking server
# token:      bearer token obtained at login
server_url: "http://localhost:8000"
token: ""
timezone: "Local"
week_start: "monday"
refresh_seconds: 30
`

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tracktop.yaml"
	}
	return filepath.Join(home, ".tracktop", "config.yaml")
}

// Load reads the config file, creating a template on first run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if werr := writeTemplate(path); werr != nil {
				return nil, werr
			}
			return nil, fmt.Errorf("created %s; fill in server_url and token, then run again", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o600); err != nil {
		return fmt.Errorf("write config template: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.WeekStart != "sunday" {
		c.WeekStart = "monday"
	}
	if c.RefreshSeconds <= 0 {
		c.RefreshSeconds = 30
	}
}

// Validate checks the fields needed to talk to the server.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is not set")
	}
	if c.Token == "" {
		return fmt.Errorf("token is not set; log in to the server and paste the token into the config file")
	}
	return nil
}
