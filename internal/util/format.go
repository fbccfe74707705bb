package util

import (
	"fmt"
	"time"
)

// FormatClock converts an elapsed-seconds count to an HH:MM:SS display
// string with zero-padded two-digit fields. Hours are not capped at 24.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatDuration renders a duration as "1h 5m 3s" for report output.
func FormatDuration(d time.Duration) string {
	total := int64(d.Seconds())
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
}

// FormatCurrency formats a billed amount with two decimals.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
