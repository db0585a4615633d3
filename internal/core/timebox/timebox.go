// Package timebox defines the time box domain model and store interfaces.
package timebox

import "time"

// Status represents the lifecycle state of a time box.
type Status string

const (
	// StatusPlanned is the initial state of a scheduled box.
	StatusPlanned Status = "planned"
	// StatusActive marks the box currently being worked on. At most one
	// box may be active at any time.
	StatusActive Status = "active"
	// StatusDone is terminal.
	StatusDone Status = "done"
	// StatusMissed marks a planned box whose end passed without action.
	// A shift returns it to planned.
	StatusMissed Status = "missed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusActive, StatusDone, StatusMissed:
		return true
	}
	return false
}

// EnergyLevel is a descriptive field with no scheduling semantics.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Box represents a single scheduled interval, the unit of planning.
//
// The interval is half-open: a box occupies [Start, End), so two boxes
// touching at an endpoint do not overlap. Start < End always holds for
// a persisted box.
type Box struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Start         time.Time         `json:"start"`
	End           time.Time         `json:"end"`
	Status        Status            `json:"status"`
	Tags          []string          `json:"tags,omitempty"`
	Color         string            `json:"color,omitempty"`
	Energy        EnergyLevel       `json:"energy,omitempty"`
	Location      string            `json:"location,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Links         map[string]string `json:"links,omitempty"`
	IsPlanSession bool              `json:"is_plan_session,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// DurationMinutes returns the box length in whole minutes, rounded to
// the nearest minute.
func (b Box) DurationMinutes() int {
	return MinutesBetween(b.Start, b.End)
}

// Interval is a half-open [Start, End) time range, as produced by the
// slot finder.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DurationMinutes returns the interval length in whole minutes.
func (iv Interval) DurationMinutes() int {
	return MinutesBetween(iv.Start, iv.End)
}
