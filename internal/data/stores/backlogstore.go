package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/data/db"
	"github.com/INF-Lucas/Timeboxing/pkg/randid"
)

// BacklogStore implements timebox.BacklogStore using SQLite.
type BacklogStore struct {
	db *db.DB
}

var _ timebox.BacklogStore = (*BacklogStore)(nil)

// NewBacklogStore creates a new SQLite-backed backlog store.
func NewBacklogStore(db *db.DB) *BacklogStore {
	return &BacklogStore{db: db}
}

// Create persists a new item, populating ID and estimate if not set.
func (s *BacklogStore) Create(ctx context.Context, item *timebox.BacklogItem) error {
	if item.ID == "" {
		item.ID = randid.Generate(8)
	}
	item.EstimateMinutes = timebox.ClampEstimate(item.EstimateMinutes)

	tags, err := marshalTags(item.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.Conn().ExecContext(ctx,
		`INSERT INTO backlog (id, title, estimate_min, tags, notes) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.EstimateMinutes, tags, toNullString(item.Notes))
	if err != nil {
		return fmt.Errorf("create backlog item: %w", err)
	}
	return nil
}

// Get returns an item by ID.
func (s *BacklogStore) Get(ctx context.Context, id string) (timebox.BacklogItem, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, title, estimate_min, tags, notes FROM backlog WHERE id = ?`, id)

	item, err := scanBacklogItem(row)
	if IsNotFoundError(err) {
		return timebox.BacklogItem{}, timebox.ErrNotFound
	}
	if err != nil {
		return timebox.BacklogItem{}, fmt.Errorf("get backlog item: %w", err)
	}
	return item, nil
}

// List returns all items ordered by title.
func (s *BacklogStore) List(ctx context.Context) ([]timebox.BacklogItem, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, title, estimate_min, tags, notes FROM backlog ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list backlog items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []timebox.BacklogItem{}
	for rows.Next() {
		item, err := scanBacklogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backlog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backlog items: %w", err)
	}
	return items, nil
}

// Update overwrites an item.
func (s *BacklogStore) Update(ctx context.Context, item timebox.BacklogItem) error {
	item.EstimateMinutes = timebox.ClampEstimate(item.EstimateMinutes)

	tags, err := marshalTags(item.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE backlog SET title = ?, estimate_min = ?, tags = ?, notes = ? WHERE id = ?`,
		item.Title, item.EstimateMinutes, tags, toNullString(item.Notes), item.ID)
	if err != nil {
		return fmt.Errorf("update backlog item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update backlog item: %w", err)
	}
	if n == 0 {
		return timebox.ErrNotFound
	}
	return nil
}

// Delete removes an item.
func (s *BacklogStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM backlog WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete backlog item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete backlog item: %w", err)
	}
	if n == 0 {
		return timebox.ErrNotFound
	}
	return nil
}

func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal tags: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanBacklogItem(row rowScanner) (timebox.BacklogItem, error) {
	var (
		item        timebox.BacklogItem
		tags, notes sql.NullString
	)
	if err := row.Scan(&item.ID, &item.Title, &item.EstimateMinutes, &tags, &notes); err != nil {
		return timebox.BacklogItem{}, err
	}
	item.Notes = notes.String
	if tags.Valid {
		if err := json.Unmarshal([]byte(tags.String), &item.Tags); err != nil {
			return timebox.BacklogItem{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return item, nil
}
