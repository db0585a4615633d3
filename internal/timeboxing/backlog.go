package timeboxing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/core/validate"
)

// AddBacklogItem creates an unscheduled task candidate. A zero estimate
// takes the default; out-of-range estimates are clamped by the store.
func (s *Service) AddBacklogItem(ctx context.Context, title string, estimateMinutes int, tags []string, notes string) (timebox.BacklogItem, error) {
	if err := validate.BoxTitle(title); err != nil {
		return timebox.BacklogItem{}, err
	}

	item := timebox.BacklogItem{
		Title:           title,
		EstimateMinutes: estimateMinutes,
		Tags:            tags,
		Notes:           notes,
	}
	if err := s.backlog.Create(ctx, &item); err != nil {
		return timebox.BacklogItem{}, fmt.Errorf("add backlog item: %w", err)
	}
	return item, nil
}

// ListBacklog returns all backlog items.
func (s *Service) ListBacklog(ctx context.Context) ([]timebox.BacklogItem, error) {
	return s.backlog.List(ctx)
}

// UpdateBacklogItem overwrites a backlog item.
func (s *Service) UpdateBacklogItem(ctx context.Context, item timebox.BacklogItem) error {
	if err := validate.BoxTitle(item.Title); err != nil {
		return err
	}
	if err := s.backlog.Update(ctx, item); err != nil {
		return fmt.Errorf("update backlog item: %w", err)
	}
	return nil
}

// DeleteBacklogItem removes a backlog item.
func (s *Service) DeleteBacklogItem(ctx context.Context, id string) error {
	if err := s.backlog.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete backlog item: %w", err)
	}
	return nil
}

// PromoteBacklogItem copies a backlog item into a planned box at the
// next free slot on day, sized by the item's estimate. The backlog
// item persists; delete it explicitly once it is no longer wanted.
func (s *Service) PromoteBacklogItem(ctx context.Context, id string, day time.Time, from time.Time) (timebox.Box, error) {
	item, err := s.backlog.Get(ctx, id)
	if err != nil {
		return timebox.Box{}, fmt.Errorf("promote backlog item: %w", err)
	}

	slot, err := s.FindNextFreeSlot(ctx, day, item.EstimateMinutes, from, "")
	if err != nil {
		if errors.Is(err, timebox.ErrNoFreeSlot) {
			return timebox.Box{}, timebox.ErrNoFreeSlot
		}
		return timebox.Box{}, fmt.Errorf("promote backlog item: %w", err)
	}

	box, err := s.CreateBox(ctx, CreateBoxInput{
		Title: item.Title,
		Start: slot.Start,
		End:   slot.End,
		Tags:  item.Tags,
		Notes: item.Notes,
	})
	if err != nil {
		return timebox.Box{}, fmt.Errorf("promote backlog item: %w", err)
	}

	s.log.Info().Str("item", id).Str("box", box.ID).Msg("backlog item promoted")
	return box, nil
}
