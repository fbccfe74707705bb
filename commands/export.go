package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracktop/tracktop/internal/api"
	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/export/ics"
	"github.com/tracktop/tracktop/internal/util"
)

var (
	exportStart  string
	exportEnd    string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export logged entries as an iCalendar file",
	Long: `Exports the logged entries in a date range as an iCalendar (.ics)
file that can be imported into any calendar application.

Without flags the export covers the current week and writes to stdout.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportStart, "start", "",
		"Range start date (YYYY-MM-DD, default: start of current week)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "",
		"Range end date (YYYY-MM-DD, default: end of current week)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-",
		"Output file (- = stdout)")
}

// exportRange resolves the half-open export window from the flags. With
// no flags it covers the current week; a start without an end covers
// seven days from that start. End dates are inclusive.
func exportRange(weekStart time.Time, startFlag, endFlag string) (time.Time, time.Time, error) {
	start := weekStart
	end := weekStart.AddDate(0, 0, 7)
	if startFlag != "" {
		d, err := time.Parse(dateLayout, startFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", startFlag)
		}
		start = d
		end = start.AddDate(0, 0, 7)
	}
	if endFlag != "" {
		d, err := time.Parse(dateLayout, endFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", endFlag)
		}
		end = d.AddDate(0, 0, 1) // inclusive end date
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", endFlag, startFlag)
	}
	return start, end, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	tp := util.GetTimeProvider()
	weekStart := tp.StartOfWeek(tp.Now(), cfg.WeekStart)
	start, end, err := exportRange(weekStart, exportStart, exportEnd)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.ServerURL, cfg.Token)
	entries, err := client.FetchEvents(context.Background())
	if err != nil {
		return err
	}

	var inRange []model.TimeEntry
	for _, e := range entries {
		if e.End.After(start) && e.Start.Before(end) {
			inRange = append(inRange, e)
		}
	}

	payload := ics.Build(inRange)
	if exportOutput == "-" {
		fmt.Print(payload)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(payload), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	fmt.Printf("Wrote %d entries to %s\n", len(inRange), exportOutput)
	return nil
}
