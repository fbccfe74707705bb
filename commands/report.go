package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/tracktop/tracktop/internal/api"
	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/util"
)

var (
	reportStart  string
	reportEnd    string
	reportOutput string
	reportDetail bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Tracked time and earnings for a date range",
	Long: `Fetches the server-side report for a date range and prints per-project
totals, earnings and a daily activity chart.

Without flags the report covers the current week.

Examples:
  tracktop report
  tracktop report --start 2026-08-01 --end 2026-08-31
  tracktop report --output json
  tracktop report --detailed                # include every entry`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportStart, "start", "",
		"Range start date (YYYY-MM-DD, default: start of current week)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "",
		"Range end date (YYYY-MM-DD, default: end of current week)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "table",
		"Output format (table, json)")
	reportCmd.Flags().BoolVar(&reportDetail, "detailed", false,
		"List every entry in the range")
}

const dateLayout = "2006-01-02"

type reportRow struct {
	Project      string  `json:"project"`
	TotalSeconds int64   `json:"total_seconds"`
	HourlyRate   float64 `json:"hourly_rate"`
	Earned       float64 `json:"earned"`
}

type entryRow struct {
	ID          string    `json:"id"`
	Project     string    `json:"project"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Seconds     int64     `json:"seconds"`
}

type reportDocument struct {
	Start   string      `json:"start"`
	End     string      `json:"end"`
	Rows    []reportRow `json:"summary"`
	Entries []entryRow  `json:"entries,omitempty"`
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	tp := util.GetTimeProvider()
	if reportStart == "" || reportEnd == "" {
		weekStart := tp.StartOfWeek(tp.Now(), cfg.WeekStart)
		if reportStart == "" {
			reportStart = weekStart.Format(dateLayout)
		}
		if reportEnd == "" {
			reportEnd = weekStart.AddDate(0, 0, 6).Format(dateLayout)
		}
	}
	for _, d := range []string{reportStart, reportEnd} {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", d)
		}
	}

	ctx := context.Background()
	client := api.NewClient(cfg.ServerURL, cfg.Token)

	report, err := client.FetchReport(ctx, reportStart, reportEnd)
	if err != nil {
		return err
	}
	projects, err := client.FetchProjects(ctx)
	if err != nil {
		return err
	}

	rates := make(map[string]float64, len(projects))
	for _, p := range projects {
		rates[p.Name] = p.HourlyRate
	}

	doc := reportDocument{Start: reportStart, End: reportEnd}
	for _, s := range report.Summary {
		rate := rates[s.Project]
		doc.Rows = append(doc.Rows, reportRow{
			Project:      s.Project,
			TotalSeconds: s.TotalSeconds,
			HourlyRate:   rate,
			Earned:       float64(s.TotalSeconds) / 3600 * rate,
		})
	}
	sort.Slice(doc.Rows, func(i, j int) bool {
		return doc.Rows[i].TotalSeconds > doc.Rows[j].TotalSeconds
	})
	if reportDetail {
		for _, e := range report.Entries {
			doc.Entries = append(doc.Entries, entryRow{
				ID:          e.ID,
				Project:     e.Project,
				Description: e.Description,
				Start:       e.Start,
				End:         e.End,
				Seconds:     int64(e.Duration().Seconds()),
			})
		}
	}

	if reportOutput == "json" {
		data, err := sonic.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printReportTable(doc, report.Entries)
	return nil
}

func printReportTable(doc reportDocument, entries []model.TimeEntry) {
	fmt.Printf("Report %s – %s\n\n", doc.Start, doc.End)

	if len(doc.Rows) == 0 {
		fmt.Println("No tracked time in this range.")
		return
	}

	fmt.Printf("%-24s %12s %10s %12s\n", "PROJECT", "TIME", "RATE", "EARNED")
	var totalSeconds int64
	var totalEarned float64
	for _, row := range doc.Rows {
		fmt.Printf("%-24s %12s %10s %12s\n",
			util.PadString(row.Project, 24, true),
			util.FormatClock(row.TotalSeconds),
			util.FormatCurrency(row.HourlyRate),
			util.FormatCurrency(row.Earned))
		totalSeconds += row.TotalSeconds
		totalEarned += row.Earned
	}
	fmt.Printf("%-24s %12s %10s %12s\n", "TOTAL",
		util.FormatClock(totalSeconds), "", util.FormatCurrency(totalEarned))

	printDailyChart(entries)

	if reportDetail {
		printEntryTable(entries)
	}
}

// printDailyChart renders one bar per calendar day with tracked time,
// scaled to the busiest day.
func printDailyChart(entries []model.TimeEntry) {
	if len(entries) == 0 {
		return
	}

	tp := util.GetTimeProvider()
	perDay := make(map[string]int64)
	var days []string
	for _, e := range entries {
		day := tp.Format(e.Start, dateLayout)
		if _, seen := perDay[day]; !seen {
			days = append(days, day)
		}
		perDay[day] += int64(e.Duration().Seconds())
	}
	sort.Strings(days)

	var max int64
	for _, secs := range perDay {
		if secs > max {
			max = secs
		}
	}

	fmt.Println("\nDaily activity:")
	for _, day := range days {
		secs := perDay[day]
		bar := util.CreateBar(float64(secs)/float64(max), 30)
		fmt.Printf("  %s  %s  %s\n", day, bar,
			util.FormatDuration(time.Duration(secs)*time.Second))
	}
}

func printEntryTable(entries []model.TimeEntry) {
	if len(entries) == 0 {
		return
	}

	tp := util.GetTimeProvider()
	fmt.Println("\nEntries:")
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Printf("  %s  %s–%s  %-20s %10s  %s\n",
			tp.Format(e.Start, dateLayout),
			tp.Format(e.Start, "15:04"),
			tp.Format(e.End, "15:04"),
			util.PadString(e.Project, 20, true),
			util.FormatClock(int64(e.Duration().Seconds())),
			desc)
	}
}
