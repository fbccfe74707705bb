package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFirstRunCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, err := Load(path)
	require.Error(t, err, "first run returns an instructive error")
	assert.Contains(t, err.Error(), path)

	info, statErr := os.Stat(path)
	require.NoError(t, statErr, "template is written on first run")
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "credential file is private")
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_url: \"http://localhost:8000\"\ntoken: \"abc\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, "monday", cfg.WeekStart)
	assert.Equal(t, 30, cfg.RefreshSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFullConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: "https://track.example.com"
token: "abc"
timezone: "Europe/Madrid"
week_start: "sunday"
refresh_seconds: 10
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://track.example.com", cfg.ServerURL)
	assert.Equal(t, "Europe/Madrid", cfg.Timezone)
	assert.Equal(t, "sunday", cfg.WeekStart)
	assert.Equal(t, 10, cfg.RefreshSeconds)
}

func TestInvalidWeekStartFallsBackToMonday(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_url: \"x\"\ntoken: \"y\"\nweek_start: \"friday\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "monday", cfg.WeekStart)
}

func TestValidateRequiresCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing server_url", cfg: Config{Token: "abc"}},
		{name: "missing token", cfg: Config{ServerURL: "http://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
