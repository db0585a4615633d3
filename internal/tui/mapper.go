package tui

import (
	"time"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
)

// Display geometry. The drawn window is fixed at 07:00-22:00 regardless
// of the configured workday so early and late boxes stay visible.
const (
	DisplayStartHour = 7
	DisplayEndHour   = 22

	// PxPerMin is the vertical scale of the timeline.
	PxPerMin = 2

	// SnapStepMinutes is the grid every pointer position snaps to.
	SnapStepMinutes = 5

	// MinBoxMinutes is the smallest interval a resize can produce.
	MinBoxMinutes = 15

	// EdgeScrollZonePx and EdgeScrollStepPx drive viewport auto-scroll
	// while a gesture is near the top or bottom edge.
	EdgeScrollZonePx = 48
	EdgeScrollStepPx = 24
)

// Mapper converts between wall-clock times on a day and vertical pixel
// offsets on the drawn timeline. Pure value; safe to copy.
type Mapper struct {
	day time.Time
}

// NewMapper creates a mapper for day's calendar date.
func NewMapper(day time.Time) Mapper {
	start, _ := timebox.DayBounds(day)
	return Mapper{day: start}
}

// WindowStart returns the first instant of the drawn window.
func (m Mapper) WindowStart() time.Time {
	return m.day.Add(DisplayStartHour * time.Hour)
}

// WindowEnd returns the last instant of the drawn window.
func (m Mapper) WindowEnd() time.Time {
	return m.day.Add(DisplayEndHour * time.Hour)
}

// HeightPx returns the full pixel height of the drawn window.
func (m Mapper) HeightPx() int {
	return DisplayEndHour*60*PxPerMin - DisplayStartHour*60*PxPerMin
}

// TimeToY maps an instant to its pixel offset from the window top,
// clamped to the window.
func (m Mapper) TimeToY(t time.Time) int {
	mins := int(t.Sub(m.WindowStart()).Minutes())
	y := mins * PxPerMin
	if y < 0 {
		return 0
	}
	if max := m.HeightPx(); y > max {
		return max
	}
	return y
}

// YToTime maps a pixel offset back to an instant, snapped to the
// nearest 5-minute step and clamped to the window. Inverse of TimeToY
// for on-grid values.
func (m Mapper) YToTime(y int) time.Time {
	if y < 0 {
		y = 0
	}
	if max := m.HeightPx(); y > max {
		y = max
	}

	mins := float64(y) / PxPerMin
	snapped := int(mins/SnapStepMinutes+0.5) * SnapStepMinutes
	return m.WindowStart().Add(time.Duration(snapped) * time.Minute)
}

// SnapTime snaps an arbitrary instant to the nearest grid step within
// the window.
func (m Mapper) SnapTime(t time.Time) time.Time {
	return m.YToTime(m.TimeToY(t))
}
