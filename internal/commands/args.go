package commands

import (
	"fmt"
	"time"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
)

// parseDay resolves a day argument. Empty means today; otherwise accepts
// "today", "tomorrow", "yesterday", or a YYYY-MM-DD date in local time.
func parseDay(arg string, now time.Time) (time.Time, error) {
	switch arg {
	case "", "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	day, err := time.ParseInLocation("2006-01-02", arg, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD, today, tomorrow, or yesterday", arg)
	}
	return day, nil
}

// parseClockOn resolves an HH:MM flag value onto day's calendar date.
func parseClockOn(day time.Time, hhmm string) (time.Time, error) {
	t, err := timebox.AtClock(day, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM", hhmm)
	}
	return t, nil
}

// formatSpan renders a box interval for table output.
func formatSpan(start, end time.Time) string {
	return start.Format("15:04") + "-" + end.Format("15:04")
}
