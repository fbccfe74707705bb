package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracktop/tracktop/internal/application/dashboard"
)

var (
	// Display related flags
	topTimeFormat  string
	topRefreshRate int
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live stopwatch and week calendar dashboard",
	Long: `Similar to the Linux top command, displays the stopwatch and the week
calendar in real-time, kept in sync with the server.

The stopwatch accumulates whole seconds while running and survives failed
saves, so no tracked time is lost to a flaky connection. Calendar changes
are applied optimistically and rolled back if the server rejects them.`,
	RunE: runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().StringVar(&topTimeFormat, "time-format", "24h",
		"Time format (12h or 24h)")
	topCmd.Flags().IntVar(&topRefreshRate, "refresh-rate", 0,
		"Data refresh rate in seconds (0 = use config)")
}

func runTop(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	if topTimeFormat != "12h" && topTimeFormat != "24h" {
		return fmt.Errorf("invalid time format '%s': must be either '12h' or '24h'", topTimeFormat)
	}

	refreshSeconds := cfg.RefreshSeconds
	if topRefreshRate > 0 {
		refreshSeconds = topRefreshRate
	}

	dashCfg := &dashboard.Config{
		ServerURL:           cfg.ServerURL,
		Token:               cfg.Token,
		ConfigPath:          configPath,
		Timezone:            cfg.Timezone,
		TimeFormat:          topTimeFormat,
		WeekStart:           cfg.WeekStart,
		DataRefreshInterval: time.Duration(refreshSeconds) * time.Second,
	}

	orchestrator, err := dashboard.NewOrchestrator(dashCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return orchestrator.Run(ctx)
}
