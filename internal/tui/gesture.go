package tui

import (
	"time"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
)

// GestureKind identifies what a drag is doing to the grabbed box.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureMove
	GestureResize
)

// Gesture is the drag state machine: idle, or dragging one box with a
// live draft interval. Value object; every transition returns a new
// value and the zero value is idle.
type Gesture struct {
	Kind  GestureKind
	BoxID string

	// Draft interval, recomputed on every pointer event.
	Start time.Time
	End   time.Time

	// Conflict reports whether the draft currently overlaps another box.
	Conflict bool

	// grabOffset keeps the grab point stable while moving: the distance
	// from the box start to where the pointer grabbed it.
	grabOffset time.Duration
}

// Active reports whether a drag is in progress.
func (g Gesture) Active() bool {
	return g.Kind != GestureNone
}

// BeginMove grabs a box for repositioning. Rejected while another
// gesture is active.
func (g Gesture) BeginMove(box timebox.Box, pointerAt time.Time) (Gesture, bool) {
	if g.Active() {
		return g, false
	}
	return Gesture{
		Kind:       GestureMove,
		BoxID:      box.ID,
		Start:      box.Start,
		End:        box.End,
		grabOffset: pointerAt.Sub(box.Start),
	}, true
}

// BeginResize grabs a box's end edge. Rejected while another gesture is
// active.
func (g Gesture) BeginResize(box timebox.Box) (Gesture, bool) {
	if g.Active() {
		return g, false
	}
	return Gesture{
		Kind:  GestureResize,
		BoxID: box.ID,
		Start: box.Start,
		End:   box.End,
	}, true
}

// Track recomputes the draft from a pointer position. Moves preserve
// the box duration; resizes preserve the start and floor the length at
// MinBoxMinutes. The conflict flag is refreshed against others,
// excluding the dragged box itself.
func (g Gesture) Track(m Mapper, pointerAt time.Time, others []timebox.Box) Gesture {
	switch g.Kind {
	case GestureMove:
		duration := g.End.Sub(g.Start)
		start := m.SnapTime(pointerAt.Add(-g.grabOffset))
		if end := start.Add(duration); end.After(m.WindowEnd()) {
			start = m.WindowEnd().Add(-duration)
		}
		g.Start = start
		g.End = start.Add(duration)
	case GestureResize:
		end := m.SnapTime(pointerAt)
		if min := g.Start.Add(MinBoxMinutes * time.Minute); end.Before(min) {
			end = min
		}
		g.End = end
	default:
		return g
	}

	g.Conflict = timebox.HasOverlap(g.Start, g.End, others, g.BoxID)
	return g
}

// Finish ends the drag and returns the idle state alongside the final
// draft.
func (g Gesture) Finish() (Gesture, Gesture) {
	return Gesture{}, g
}
