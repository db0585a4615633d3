package timebox

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a box or backlog item does not exist.
	ErrNotFound = errors.New("time box not found")
	// ErrInvalidInterval is returned when start >= end.
	ErrInvalidInterval = errors.New("start must be before end")
	// ErrEmptyTitle is returned when a title is blank.
	ErrEmptyTitle = errors.New("title is required")
	// ErrActiveConflict is returned when starting a box while another
	// box is already active.
	ErrActiveConflict = errors.New("another box is already active")
	// ErrNotActive is returned when splitting a box that is not active.
	ErrNotActive = errors.New("box is not active")
	// ErrNoFreeSlot is the no-capacity outcome of the slot search. It is
	// not an invariant violation; callers may offer a manual choice.
	ErrNoFreeSlot = errors.New("no free slot found")
)

// Store defines persistence for time boxes and their activity log.
//
// Every mutating method commits the box change and its log entry as one
// atomic unit: a log-write failure aborts the paired mutation. Queries
// reflect all committed writes at call time.
type Store interface {
	// Create persists a new box with its create log entry. The store
	// populates ID, CreatedAt, and UpdatedAt if not already set.
	Create(ctx context.Context, box *Box, entry LogEntry) error

	// Get returns a box by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (Box, error)

	// Update overwrites a box and appends the given log entry.
	// Returns ErrNotFound if the box does not exist.
	Update(ctx context.Context, box Box, entry LogEntry) error

	// UpdateAll overwrites several boxes and appends their log entries
	// in a single transaction. len(boxes) must equal len(entries).
	UpdateAll(ctx context.Context, boxes []Box, entries []LogEntry) error

	// ApplySplit commits a split: the closed box is overwritten, the
	// remainder box is created, and both log entries are appended, all
	// in one transaction.
	ApplySplit(ctx context.Context, closed Box, remainder *Box, closedEntry, remainderEntry LogEntry) error

	// Delete removes a box and appends its delete log entry.
	// Returns ErrNotFound if the box does not exist.
	Delete(ctx context.Context, id string, entry LogEntry) error

	// QueryByDayRange returns boxes whose start falls in [start, end),
	// ordered by start ascending.
	QueryByDayRange(ctx context.Context, start, end time.Time) ([]Box, error)

	// QueryByStatus returns boxes with the given status, ordered by
	// start ascending.
	QueryByStatus(ctx context.Context, status Status) ([]Box, error)
}

// LogReader exposes the append-only activity log for display and export.
type LogReader interface {
	// ListByBox returns all entries for a box, oldest first.
	ListByBox(ctx context.Context, boxID string) ([]LogEntry, error)

	// ListRange returns all entries created in [start, end), oldest first.
	ListRange(ctx context.Context, start, end time.Time) ([]LogEntry, error)
}

// BacklogStore defines persistence for backlog items.
type BacklogStore interface {
	// Create persists a new item, populating ID if not set.
	Create(ctx context.Context, item *BacklogItem) error

	// Get returns an item by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (BacklogItem, error)

	// List returns all items ordered by title.
	List(ctx context.Context) ([]BacklogItem, error)

	// Update overwrites an item. Returns ErrNotFound if it does not exist.
	Update(ctx context.Context, item BacklogItem) error

	// Delete removes an item. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}
