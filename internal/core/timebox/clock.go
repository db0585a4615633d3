package timebox

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses an "HH:MM" wall-clock string into hour and minute.
func ParseClock(hhmm string) (hour, minute int, err error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q: want HH:MM", hhmm)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid clock time %q: bad hour", hhmm)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock time %q: bad minute", hhmm)
	}
	return hour, minute, nil
}

// AtClock returns the instant on day's calendar date at the given
// "HH:MM" wall-clock time, in day's location.
func AtClock(day time.Time, hhmm string) (time.Time, error) {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), nil
}

// DayBounds returns the inclusive start and exclusive end of day's
// calendar date.
func DayBounds(day time.Time) (start, end time.Time) {
	y, m, d := day.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MinutesBetween returns the signed number of minutes from a to b,
// rounded to the nearest whole minute.
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a).Round(time.Minute) / time.Minute)
}
