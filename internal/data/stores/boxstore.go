package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/data/db"
	"github.com/INF-Lucas/Timeboxing/pkg/randid"
)

// BoxStore implements timebox.Store using SQLite.
//
// Every mutating method writes the box change and its activity log
// entry inside one transaction; a failed log append rolls back the
// paired mutation.
type BoxStore struct {
	db *db.DB
}

var _ timebox.Store = (*BoxStore)(nil)

// NewBoxStore creates a new SQLite-backed time box store.
func NewBoxStore(db *db.DB) *BoxStore {
	return &BoxStore{db: db}
}

const boxColumns = `id, title, start_at, end_at, status, tags, color, energy, location, notes, links, is_plan_session, created_at, updated_at`

// Create persists a new box with its create log entry.
func (s *BoxStore) Create(ctx context.Context, box *timebox.Box, entry timebox.LogEntry) error {
	prepareBox(box, time.Now())
	entry.BoxID = box.ID

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := insertBox(ctx, tx, *box); err != nil {
			return err
		}
		return appendLog(ctx, tx, entry)
	})
}

// Get returns a box by ID.
func (s *BoxStore) Get(ctx context.Context, id string) (timebox.Box, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+boxColumns+` FROM boxes WHERE id = ?`, id)

	box, err := scanBox(row)
	if IsNotFoundError(err) {
		return timebox.Box{}, timebox.ErrNotFound
	}
	if err != nil {
		return timebox.Box{}, fmt.Errorf("get box: %w", err)
	}
	return box, nil
}

// Update overwrites a box and appends the given log entry.
func (s *BoxStore) Update(ctx context.Context, box timebox.Box, entry timebox.LogEntry) error {
	entry.BoxID = box.ID

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := updateBox(ctx, tx, box); err != nil {
			return err
		}
		return appendLog(ctx, tx, entry)
	})
}

// UpdateAll overwrites several boxes and appends their log entries in a
// single transaction.
func (s *BoxStore) UpdateAll(ctx context.Context, boxes []timebox.Box, entries []timebox.LogEntry) error {
	if len(boxes) != len(entries) {
		return fmt.Errorf("update all: %d boxes but %d log entries", len(boxes), len(entries))
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for i, box := range boxes {
			if err := updateBox(ctx, tx, box); err != nil {
				return err
			}
			entries[i].BoxID = box.ID
			if err := appendLog(ctx, tx, entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplySplit commits a split as one transaction: overwrite the closed
// box, create the remainder, append both log entries.
func (s *BoxStore) ApplySplit(ctx context.Context, closed timebox.Box, remainder *timebox.Box, closedEntry, remainderEntry timebox.LogEntry) error {
	prepareBox(remainder, time.Now())
	closedEntry.BoxID = closed.ID
	remainderEntry.BoxID = remainder.ID

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := updateBox(ctx, tx, closed); err != nil {
			return err
		}
		if err := appendLog(ctx, tx, closedEntry); err != nil {
			return err
		}
		if err := insertBox(ctx, tx, *remainder); err != nil {
			return err
		}
		return appendLog(ctx, tx, remainderEntry)
	})
}

// Delete removes a box and appends its delete log entry.
func (s *BoxStore) Delete(ctx context.Context, id string, entry timebox.LogEntry) error {
	entry.BoxID = id

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM boxes WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete box: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete box: %w", err)
		}
		if n == 0 {
			return timebox.ErrNotFound
		}
		return appendLog(ctx, tx, entry)
	})
}

// QueryByDayRange returns boxes whose start falls in [start, end),
// ordered by start ascending.
func (s *BoxStore) QueryByDayRange(ctx context.Context, start, end time.Time) ([]timebox.Box, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+boxColumns+` FROM boxes WHERE start_at >= ? AND start_at < ? ORDER BY start_at ASC`,
		start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query boxes by day range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBoxes(rows)
}

// QueryByStatus returns boxes with the given status, ordered by start
// ascending.
func (s *BoxStore) QueryByStatus(ctx context.Context, status timebox.Status) ([]timebox.Box, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+boxColumns+` FROM boxes WHERE status = ? ORDER BY start_at ASC`,
		string(status))
	if err != nil {
		return nil, fmt.Errorf("query boxes by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBoxes(rows)
}

// prepareBox fills store-owned fields before an insert.
func prepareBox(box *timebox.Box, now time.Time) {
	if box.ID == "" {
		box.ID = randid.Generate(8)
	}
	if box.CreatedAt.IsZero() {
		box.CreatedAt = now
	}
	if box.UpdatedAt.IsZero() {
		box.UpdatedAt = now
	}
	if box.Status == "" {
		box.Status = timebox.StatusPlanned
	}
}

func insertBox(ctx context.Context, tx *sql.Tx, box timebox.Box) error {
	tags, links, err := marshalBoxJSON(box)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO boxes (`+boxColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		box.ID, box.Title, box.Start.UnixNano(), box.End.UnixNano(), string(box.Status),
		tags, toNullString(box.Color), toNullString(string(box.Energy)),
		toNullString(box.Location), toNullString(box.Notes), links,
		boolToInt(box.IsPlanSession), box.CreatedAt.UnixNano(), box.UpdatedAt.UnixNano())
	if err != nil {
		if isConstraintError(err) {
			return timebox.ErrInvalidInterval
		}
		return fmt.Errorf("insert box: %w", err)
	}
	return nil
}

func updateBox(ctx context.Context, tx *sql.Tx, box timebox.Box) error {
	tags, links, err := marshalBoxJSON(box)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE boxes SET title = ?, start_at = ?, end_at = ?, status = ?, tags = ?, color = ?,
		 energy = ?, location = ?, notes = ?, links = ?, is_plan_session = ?, updated_at = ?
		 WHERE id = ?`,
		box.Title, box.Start.UnixNano(), box.End.UnixNano(), string(box.Status),
		tags, toNullString(box.Color), toNullString(string(box.Energy)),
		toNullString(box.Location), toNullString(box.Notes), links,
		boolToInt(box.IsPlanSession), box.UpdatedAt.UnixNano(), box.ID)
	if err != nil {
		if isConstraintError(err) {
			return timebox.ErrInvalidInterval
		}
		return fmt.Errorf("update box: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update box: %w", err)
	}
	if n == 0 {
		return timebox.ErrNotFound
	}
	return nil
}

func marshalBoxJSON(box timebox.Box) (tags, links sql.NullString, err error) {
	if len(box.Tags) > 0 {
		data, err := json.Marshal(box.Tags)
		if err != nil {
			return tags, links, fmt.Errorf("marshal tags: %w", err)
		}
		tags = sql.NullString{String: string(data), Valid: true}
	}
	if len(box.Links) > 0 {
		data, err := json.Marshal(box.Links)
		if err != nil {
			return tags, links, fmt.Errorf("marshal links: %w", err)
		}
		links = sql.NullString{String: string(data), Valid: true}
	}
	return tags, links, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBox(row rowScanner) (timebox.Box, error) {
	var (
		box                              timebox.Box
		startAt, endAt, created, updated int64
		status                           string
		tags, color, energy, location    sql.NullString
		notes, links                     sql.NullString
		isPlan                           int
	)

	err := row.Scan(&box.ID, &box.Title, &startAt, &endAt, &status, &tags, &color,
		&energy, &location, &notes, &links, &isPlan, &created, &updated)
	if err != nil {
		return timebox.Box{}, err
	}

	box.Start = time.Unix(0, startAt)
	box.End = time.Unix(0, endAt)
	box.Status = timebox.Status(status)
	box.Color = color.String
	box.Energy = timebox.EnergyLevel(energy.String)
	box.Location = location.String
	box.Notes = notes.String
	box.IsPlanSession = isPlan != 0
	box.CreatedAt = time.Unix(0, created)
	box.UpdatedAt = time.Unix(0, updated)

	if tags.Valid {
		if err := json.Unmarshal([]byte(tags.String), &box.Tags); err != nil {
			return timebox.Box{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if links.Valid {
		if err := json.Unmarshal([]byte(links.String), &box.Links); err != nil {
			return timebox.Box{}, fmt.Errorf("unmarshal links: %w", err)
		}
	}

	return box, nil
}

func collectBoxes(rows *sql.Rows) ([]timebox.Box, error) {
	boxes := []timebox.Box{}
	for rows.Next() {
		box, err := scanBox(rows)
		if err != nil {
			return nil, fmt.Errorf("scan box: %w", err)
		}
		boxes = append(boxes, box)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boxes: %w", err)
	}
	return boxes, nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
