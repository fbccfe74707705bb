package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracktop/tracktop/internal/auth"
	"github.com/tracktop/tracktop/internal/config"
	"github.com/tracktop/tracktop/internal/util"
)

var (
	// Logging related
	debug bool

	// Config file location ("" = default)
	configFlag string

	// Display override
	timezone string

	// Resolved during bootstrap
	configPath string

	rootCmd = &cobra.Command{
		Use:   "tracktop",
		Short: "Personal time tracking dashboard",
		Long: `tracktop is a terminal client for a personal time-tracking server.

It keeps a stopwatch and a week calendar of logged work in sync with the
server, and produces reports of tracked time and earnings.

Examples:
  tracktop top                          # Live dashboard (stopwatch + week calendar)
  tracktop report                       # Report for the current week
  tracktop report --start 2026-08-01 --end 2026-08-31 --output json
  tracktop project list                 # List projects
  tracktop project add acme --rate 25   # Create a project billed at $25/h
  tracktop export --output week.ics     # Export the week as an iCalendar file`,
	}
)

const defaultLogFile = "~/.tracktop/logs/app.log"

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Config file path (default ~/.tracktop/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone override (e.g., Europe/Madrid, UTC)")
}

// bootstrap initializes logging, loads the config file and sets up the
// global time provider. Shared by every subcommand.
func bootstrap() (*config.Config, error) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)

	configPath = configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	configPath = expandPath(configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if warning := auth.CheckToken(cfg.Token, time.Now()); warning != "" {
		fmt.Fprintln(os.Stderr, "Warning: "+warning)
	}

	return cfg, nil
}

func Execute() error {
	defer util.SyncLogger()
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
