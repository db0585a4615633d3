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

// LogStore implements timebox.LogReader over the append-only activity
// log. Writes happen only through appendLog inside box transactions.
type LogStore struct {
	db *db.DB
}

var _ timebox.LogReader = (*LogStore)(nil)

// NewLogStore creates a new SQLite-backed activity log reader.
func NewLogStore(db *db.DB) *LogStore {
	return &LogStore{db: db}
}

// ListByBox returns all entries for a box, oldest first.
func (s *LogStore) ListByBox(ctx context.Context, boxID string) ([]timebox.LogEntry, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, box_id, event, payload, created_at FROM activity_log
		 WHERE box_id = ? ORDER BY created_at ASC`, boxID)
	if err != nil {
		return nil, fmt.Errorf("list log entries by box: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectLogEntries(rows)
}

// ListRange returns all entries created in [start, end), oldest first.
func (s *LogStore) ListRange(ctx context.Context, start, end time.Time) ([]timebox.LogEntry, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, box_id, event, payload, created_at FROM activity_log
		 WHERE created_at >= ? AND created_at < ? ORDER BY created_at ASC`,
		start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list log entries by range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectLogEntries(rows)
}

// appendLog inserts an activity log entry inside an open transaction.
// The entry ID and timestamp are assigned here if unset.
func appendLog(ctx context.Context, tx *sql.Tx, entry timebox.LogEntry) error {
	if entry.ID == "" {
		entry.ID = randid.Generate(8)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var payload sql.NullString
	if len(entry.Payload) > 0 {
		data, err := json.Marshal(entry.Payload)
		if err != nil {
			return fmt.Errorf("marshal log payload: %w", err)
		}
		payload = sql.NullString{String: string(data), Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO activity_log (id, box_id, event, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.BoxID, string(entry.Event), payload, entry.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	return nil
}

func collectLogEntries(rows *sql.Rows) ([]timebox.LogEntry, error) {
	entries := []timebox.LogEntry{}
	for rows.Next() {
		var (
			entry     timebox.LogEntry
			event     string
			payload   sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.BoxID, &event, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entry.Event = timebox.Event(event)
		entry.CreatedAt = time.Unix(0, createdAt)
		if payload.Valid {
			if err := json.Unmarshal([]byte(payload.String), &entry.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal log payload: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}
	return entries, nil
}
