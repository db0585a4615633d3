package timeboxing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
)

// FindNextFreeSlot returns the earliest interval of durationMinutes
// inside day's workday window that does not overlap any existing box.
//
// The search anchor is max(from, workday start) when from falls on the
// same calendar day; a zero or off-day from anchors at the workday
// start. Boxes matching excludeBoxID are ignored. Returns
// timebox.ErrNoFreeSlot when the day has no gap large enough.
//
// Single forward sweep over the day's boxes sorted by start; calling it
// twice with unchanged inputs returns the same slot.
func (s *Service) FindNextFreeSlot(ctx context.Context, day time.Time, durationMinutes int, from time.Time, excludeBoxID string) (timebox.Interval, error) {
	if durationMinutes <= 0 {
		return timebox.Interval{}, fmt.Errorf("find free slot: duration must be positive, got %d", durationMinutes)
	}

	workStart, err := timebox.AtClock(day, s.settings.WorkdayStart)
	if err != nil {
		return timebox.Interval{}, fmt.Errorf("find free slot: %w", err)
	}
	workEnd, err := timebox.AtClock(day, s.settings.WorkdayEnd)
	if err != nil {
		return timebox.Interval{}, fmt.Errorf("find free slot: %w", err)
	}

	cursor := workStart
	if !from.IsZero() && timebox.SameDay(from, day) && from.After(workStart) {
		cursor = from
	}

	boxes, err := s.BoxesForDay(ctx, day)
	if err != nil {
		return timebox.Interval{}, fmt.Errorf("find free slot: %w", err)
	}

	duration := time.Duration(durationMinutes) * time.Minute

	for _, b := range boxes {
		if excludeBoxID != "" && b.ID == excludeBoxID {
			continue
		}
		// Box entirely before the cursor: irrelevant.
		if !b.End.After(cursor) {
			continue
		}

		if b.Start.After(cursor) {
			// Gap [cursor, b.Start): take it if large enough.
			if timebox.MinutesBetween(cursor, b.Start) >= durationMinutes {
				return timebox.Interval{Start: cursor, End: cursor.Add(duration)}, nil
			}
			cursor = b.End
			if !cursor.Before(workEnd) {
				return timebox.Interval{}, timebox.ErrNoFreeSlot
			}
			continue
		}

		// Box straddles the cursor: skip past it.
		cursor = b.End
		if !cursor.Before(workEnd) {
			return timebox.Interval{}, timebox.ErrNoFreeSlot
		}
	}

	if timebox.MinutesBetween(cursor, workEnd) >= durationMinutes {
		return timebox.Interval{Start: cursor, End: cursor.Add(duration)}, nil
	}

	return timebox.Interval{}, timebox.ErrNoFreeSlot
}

// findSlotWithFallback runs the slot search on baseDay anchored at
// baseFrom, then retries each of the next shiftFallbackDays days from
// their workday start.
func (s *Service) findSlotWithFallback(ctx context.Context, baseDay time.Time, durationMinutes int, baseFrom time.Time, excludeBoxID string) (timebox.Interval, error) {
	slot, err := s.FindNextFreeSlot(ctx, baseDay, durationMinutes, baseFrom, excludeBoxID)
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, timebox.ErrNoFreeSlot) {
		return timebox.Interval{}, err
	}

	for i := 1; i <= shiftFallbackDays; i++ {
		day := baseDay.AddDate(0, 0, i)
		from, err := timebox.AtClock(day, s.settings.WorkdayStart)
		if err != nil {
			return timebox.Interval{}, err
		}
		slot, err = s.FindNextFreeSlot(ctx, day, durationMinutes, from, excludeBoxID)
		if err == nil {
			return slot, nil
		}
		if !errors.Is(err, timebox.ErrNoFreeSlot) {
			return timebox.Interval{}, err
		}
	}

	return timebox.Interval{}, timebox.ErrNoFreeSlot
}
