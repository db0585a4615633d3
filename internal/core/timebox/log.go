package timebox

import "time"

// Event classifies an activity log entry.
type Event string

const (
	EventCreate Event = "create"
	EventStart  Event = "start"
	EventDone   Event = "done"
	EventExtend Event = "extend"
	EventSplit  Event = "split"
	EventShift  Event = "shift"
	EventDelete Event = "delete"
	EventUpdate Event = "update"
)

// LogEntry is one append-only activity log record. Entries are written
// in the same transaction as the box mutation they document and are
// never mutated or deleted.
type LogEntry struct {
	ID        string         `json:"id"`
	BoxID     string         `json:"box_id"`
	Event     Event          `json:"event"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewLogEntry builds a log entry for a box mutation. The store assigns
// the ID and timestamp on insert if left empty.
func NewLogEntry(boxID string, event Event, payload map[string]any) LogEntry {
	return LogEntry{
		BoxID:   boxID,
		Event:   event,
		Payload: payload,
	}
}
