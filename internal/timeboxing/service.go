// Package timeboxing implements the day scheduling engine: the box
// lifecycle state machine, the free-slot search, and backlog promotion.
package timeboxing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/INF-Lucas/Timeboxing/internal/core/config"
	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/core/validate"
)

const (
	// shiftFallbackDays bounds the shift search: the base day plus this
	// many following days.
	shiftFallbackDays = 7

	// missedGrace protects freshly created boxes from the missed sweep.
	missedGrace = 5 * time.Minute
)

// ConflictError reports that a requested interval overlaps another box.
// Callers can force-save, relocate via the slot finder, or discard.
type ConflictError struct {
	BoxID string
	Start time.Time
	End   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("box %s: interval %s-%s overlaps another box",
		e.BoxID, e.Start.Format("15:04"), e.End.Format("15:04"))
}

// Service is the scheduling engine. All operations run to completion
// before the next begins; there is one logical writer.
type Service struct {
	boxes    timebox.Store
	backlog  timebox.BacklogStore
	logs     timebox.LogReader
	settings *config.Settings
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates the scheduling engine over the given stores.
func NewService(boxes timebox.Store, backlog timebox.BacklogStore, logs timebox.LogReader, settings *config.Settings, logger zerolog.Logger) *Service {
	return &Service{
		boxes:    boxes,
		backlog:  backlog,
		logs:     logs,
		settings: settings,
		log:      logger.With().Str("component", "engine").Logger(),
		now:      time.Now,
	}
}

// SetClock overrides the engine's time source. Tests use this for
// deterministic scheduling.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateBoxInput carries the caller-supplied fields for a new box.
type CreateBoxInput struct {
	Title         string
	Start         time.Time
	End           time.Time
	Status        timebox.Status // empty means planned
	Tags          []string
	Color         string
	Energy        timebox.EnergyLevel
	Location      string
	Notes         string
	Links         map[string]string
	IsPlanSession bool
}

// CreateBox validates the input and persists a new box with its create
// log entry.
func (s *Service) CreateBox(ctx context.Context, input CreateBoxInput) (timebox.Box, error) {
	if err := validate.BoxTitle(input.Title); err != nil {
		return timebox.Box{}, err
	}
	if !input.Start.Before(input.End) {
		return timebox.Box{}, timebox.ErrInvalidInterval
	}
	if input.Status != "" && !input.Status.Valid() {
		return timebox.Box{}, fmt.Errorf("create box: unknown status %q", input.Status)
	}

	color := input.Color
	if color == "" {
		for _, tag := range input.Tags {
			if c, ok := s.settings.ColorsByTag[tag]; ok {
				color = c
				break
			}
		}
	}

	now := s.now()
	box := timebox.Box{
		Title:         input.Title,
		Start:         input.Start,
		End:           input.End,
		Status:        input.Status,
		Tags:          input.Tags,
		Color:         color,
		Energy:        input.Energy,
		Location:      input.Location,
		Notes:         input.Notes,
		Links:         input.Links,
		IsPlanSession: input.IsPlanSession,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	entry := timebox.NewLogEntry("", timebox.EventCreate, map[string]any{
		"title": box.Title,
		"start": box.Start,
		"end":   box.End,
	})
	if err := s.boxes.Create(ctx, &box, entry); err != nil {
		return timebox.Box{}, fmt.Errorf("create box: %w", err)
	}

	s.log.Debug().Str("box", box.ID).Time("start", box.Start).Msg("box created")
	return box, nil
}

// ActiveBox returns the currently active box, or nil when none is active.
func (s *Service) ActiveBox(ctx context.Context) (*timebox.Box, error) {
	active, err := s.boxes.QueryByStatus(ctx, timebox.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("query active box: %w", err)
	}
	if len(active) == 0 {
		return nil, nil
	}
	return &active[0], nil
}

// StartBox transitions a planned (or missed) box to active. At most one
// box may be active; the check runs against committed state at the
// transition point.
func (s *Service) StartBox(ctx context.Context, id string) error {
	box, err := s.boxes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("start box: %w", err)
	}

	active, err := s.ActiveBox(ctx)
	if err != nil {
		return fmt.Errorf("start box: %w", err)
	}
	if active != nil && active.ID != id {
		return timebox.ErrActiveConflict
	}

	box.Status = timebox.StatusActive
	box.UpdatedAt = s.now()
	if err := s.boxes.Update(ctx, box, timebox.NewLogEntry(id, timebox.EventStart, nil)); err != nil {
		return fmt.Errorf("start box: %w", err)
	}

	s.log.Info().Str("box", id).Msg("box started")
	return nil
}

// FinishBox transitions a box to done. Callable from any prior status.
func (s *Service) FinishBox(ctx context.Context, id string) error {
	box, err := s.boxes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("finish box: %w", err)
	}

	box.Status = timebox.StatusDone
	box.UpdatedAt = s.now()
	if err := s.boxes.Update(ctx, box, timebox.NewLogEntry(id, timebox.EventDone, nil)); err != nil {
		return fmt.Errorf("finish box: %w", err)
	}

	s.log.Info().Str("box", id).Msg("box finished")
	return nil
}

// ExtendBox moves a box's end by deltaMinutes, positive or negative.
// Conflicts are not checked here; callers pre-check with HasOverlap and
// present an override choice.
func (s *Service) ExtendBox(ctx context.Context, id string, deltaMinutes int) error {
	box, err := s.boxes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("extend box: %w", err)
	}

	prevEnd := box.End
	box.End = box.End.Add(time.Duration(deltaMinutes) * time.Minute)
	if !box.Start.Before(box.End) {
		return timebox.ErrInvalidInterval
	}
	box.UpdatedAt = s.now()

	entry := timebox.NewLogEntry(id, timebox.EventExtend, map[string]any{
		"delta_minutes": deltaMinutes,
		"prev_end":      prevEnd,
		"next_end":      box.End,
	})
	if err := s.boxes.Update(ctx, box, entry); err != nil {
		return fmt.Errorf("extend box: %w", err)
	}
	return nil
}

// UpdateBoxTimes moves a box to [nextStart, nextEnd). Unless force is
// set, an overlap with another box on the target day is reported as a
// *ConflictError and nothing is persisted. Logged as extend when the
// end grew, else shift; forced saves are flagged in the payload.
func (s *Service) UpdateBoxTimes(ctx context.Context, id string, nextStart, nextEnd time.Time, force bool) error {
	if !nextStart.Before(nextEnd) {
		return timebox.ErrInvalidInterval
	}

	box, err := s.boxes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("update box times: %w", err)
	}

	dayBoxes, err := s.BoxesForDay(ctx, nextStart)
	if err != nil {
		return fmt.Errorf("update box times: %w", err)
	}
	conflicted := timebox.HasOverlap(nextStart, nextEnd, dayBoxes, id)
	if conflicted && !force {
		return &ConflictError{BoxID: id, Start: nextStart, End: nextEnd}
	}

	event := timebox.EventShift
	if nextEnd.After(box.End) {
		event = timebox.EventExtend
	}
	payload := map[string]any{
		"prev_start": box.Start,
		"prev_end":   box.End,
		"next_start": nextStart,
		"next_end":   nextEnd,
	}
	if conflicted && force {
		payload["forced"] = true
	}

	box.Start = nextStart
	box.End = nextEnd
	box.UpdatedAt = s.now()
	if err := s.boxes.Update(ctx, box, timebox.NewLogEntry(id, event, payload)); err != nil {
		return fmt.Errorf("update box times: %w", err)
	}
	return nil
}

// ShiftBox relocates a box to the next free slot, preserving duration,
// and resets it to planned. Today's boxes anchor at max(now, box end);
// past days anchor at tomorrow's workday start. Searches the base day
// and up to seven following days; returns timebox.ErrNoFreeSlot when
// all are full.
func (s *Service) ShiftBox(ctx context.Context, id string) error {
	box, err := s.boxes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("shift box: %w", err)
	}

	duration := box.DurationMinutes()
	now := s.now()
	isToday := timebox.SameDay(box.Start, now)

	baseDay := box.Start
	var baseFrom time.Time
	if isToday {
		baseFrom = box.End
		if now.After(baseFrom) {
			baseFrom = now
		}
	} else {
		baseDay = baseDay.AddDate(0, 0, 1)
		baseFrom, err = timebox.AtClock(baseDay, s.settings.WorkdayStart)
		if err != nil {
			return fmt.Errorf("shift box: %w", err)
		}
	}

	slot, err := s.findSlotWithFallback(ctx, baseDay, duration, baseFrom, box.ID)
	if err != nil {
		if errors.Is(err, timebox.ErrNoFreeSlot) {
			return timebox.ErrNoFreeSlot
		}
		return fmt.Errorf("shift box: %w", err)
	}

	entry := timebox.NewLogEntry(id, timebox.EventShift, map[string]any{
		"prev_start": box.Start,
		"prev_end":   box.End,
		"next_start": slot.Start,
		"next_end":   slot.End,
	})

	box.Start = slot.Start
	box.End = slot.End
	box.Status = timebox.StatusPlanned
	box.UpdatedAt = now
	if err := s.boxes.Update(ctx, box, entry); err != nil {
		return fmt.Errorf("shift box: %w", err)
	}

	s.log.Info().Str("box", id).Time("start", slot.Start).Msg("box shifted")
	return nil
}

// SplitActiveBox ends an active box at the current moment and
// reschedules its remaining duration as a new planned box at the next
// free slot. Degrades to FinishBox when nothing remains. Both box
// mutations and their log entries commit as one transaction.
func (s *Service) SplitActiveBox(ctx context.Context, id string) (timebox.Box, error) {
	box, err := s.boxes.Get(ctx, id)
	if err != nil {
		return timebox.Box{}, fmt.Errorf("split box: %w", err)
	}
	if box.Status != timebox.StatusActive {
		return timebox.Box{}, timebox.ErrNotActive
	}

	now := s.now()
	if !now.After(box.Start) {
		return timebox.Box{}, fmt.Errorf("split box: current time is before the box start")
	}

	remaining := int(math.Ceil(box.End.Sub(now).Minutes()))
	if remaining <= 0 {
		return timebox.Box{}, s.FinishBox(ctx, id)
	}

	slot, err := s.FindNextFreeSlot(ctx, box.Start, remaining, now, box.ID)
	if err != nil {
		if errors.Is(err, timebox.ErrNoFreeSlot) {
			return timebox.Box{}, timebox.ErrNoFreeSlot
		}
		return timebox.Box{}, fmt.Errorf("split box: %w", err)
	}

	closed := box
	closed.End = now
	closed.Status = timebox.StatusDone
	closed.UpdatedAt = now

	remainder := timebox.Box{
		Title:     box.Title,
		Start:     slot.Start,
		End:       slot.End,
		Status:    timebox.StatusPlanned,
		Tags:      box.Tags,
		Color:     box.Color,
		Energy:    box.Energy,
		Location:  box.Location,
		Notes:     box.Notes,
		Links:     box.Links,
		CreatedAt: now,
		UpdatedAt: now,
	}

	closedEntry := timebox.NewLogEntry(id, timebox.EventSplit, map[string]any{
		"finished_at":       now,
		"remainder_minutes": remaining,
	})
	remainderEntry := timebox.NewLogEntry("", timebox.EventCreate, map[string]any{
		"reason": "split remainder",
	})

	if err := s.boxes.ApplySplit(ctx, closed, &remainder, closedEntry, remainderEntry); err != nil {
		return timebox.Box{}, fmt.Errorf("split box: %w", err)
	}

	s.log.Info().Str("box", id).Str("remainder", remainder.ID).Int("minutes", remaining).Msg("box split")
	return remainder, nil
}

// MarkMissedForDay flips every planned box on day whose end has passed
// the effective cutoff to missed, and returns the count. The cutoff is
// now for today, end-of-day for past days; boxes created within the
// grace window are never flipped. Idempotent. Future days are left
// untouched.
func (s *Service) MarkMissedForDay(ctx context.Context, day time.Time) (int, error) {
	now := s.now()
	dayStart, dayEnd := timebox.DayBounds(day)
	if dayStart.After(now) {
		return 0, nil
	}

	cutoff := dayEnd
	if timebox.SameDay(day, now) {
		cutoff = now
	}

	boxes, err := s.BoxesForDay(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("mark missed: %w", err)
	}

	var (
		flipped []timebox.Box
		entries []timebox.LogEntry
	)
	for _, b := range boxes {
		if b.Status != timebox.StatusPlanned {
			continue
		}
		// Grace buffer: a box created moments ago is never missed, even
		// when its end is already in the past.
		if now.Sub(b.CreatedAt) < missedGrace {
			continue
		}
		if !b.End.Before(cutoff) {
			continue
		}

		b.Status = timebox.StatusMissed
		b.UpdatedAt = now
		flipped = append(flipped, b)
		entries = append(entries, timebox.NewLogEntry(b.ID, timebox.EventUpdate, map[string]any{
			"prev_status": timebox.StatusPlanned,
			"next_status": timebox.StatusMissed,
		}))
	}

	if len(flipped) == 0 {
		return 0, nil
	}
	if err := s.boxes.UpdateAll(ctx, flipped, entries); err != nil {
		return 0, fmt.Errorf("mark missed: %w", err)
	}

	s.log.Info().Int("count", len(flipped)).Time("day", dayStart).Msg("boxes marked missed")
	return len(flipped), nil
}

// MetaPatch carries optional descriptive-field updates. Nil fields are
// left unchanged.
type MetaPatch struct {
	Title    *string
	Tags     *[]string
	Color    *string
	Energy   *timebox.EnergyLevel
	Location *string
	Notes    *string
	Links    *map[string]string
}

// UpdateBoxMeta patches a box's descriptive fields. Scheduling fields
// are untouched; use UpdateBoxTimes for those.
func (s *Service) UpdateBoxMeta(ctx context.Context, id string, patch MetaPatch) error {
	box, err := s.boxes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("update box meta: %w", err)
	}

	changed := map[string]any{}
	if patch.Title != nil {
		if err := validate.BoxTitle(*patch.Title); err != nil {
			return err
		}
		box.Title = *patch.Title
		changed["title"] = *patch.Title
	}
	if patch.Tags != nil {
		box.Tags = *patch.Tags
		changed["tags"] = *patch.Tags
	}
	if patch.Color != nil {
		box.Color = *patch.Color
		changed["color"] = *patch.Color
	}
	if patch.Energy != nil {
		box.Energy = *patch.Energy
		changed["energy"] = *patch.Energy
	}
	if patch.Location != nil {
		box.Location = *patch.Location
		changed["location"] = *patch.Location
	}
	if patch.Notes != nil {
		box.Notes = *patch.Notes
		changed["notes"] = *patch.Notes
	}
	if patch.Links != nil {
		box.Links = *patch.Links
		changed["links"] = *patch.Links
	}
	if len(changed) == 0 {
		return nil
	}

	box.UpdatedAt = s.now()
	if err := s.boxes.Update(ctx, box, timebox.NewLogEntry(id, timebox.EventUpdate, changed)); err != nil {
		return fmt.Errorf("update box meta: %w", err)
	}
	return nil
}

// DeleteBox removes a box, logging the deletion.
func (s *Service) DeleteBox(ctx context.Context, id string) error {
	if err := s.boxes.Delete(ctx, id, timebox.NewLogEntry(id, timebox.EventDelete, nil)); err != nil {
		return fmt.Errorf("delete box: %w", err)
	}
	return nil
}

// BoxByID fetches one box.
func (s *Service) BoxByID(ctx context.Context, id string) (timebox.Box, error) {
	return s.boxes.Get(ctx, id)
}

// BoxesForDay returns all boxes whose start falls on day's calendar
// date, sorted by start.
func (s *Service) BoxesForDay(ctx context.Context, day time.Time) ([]timebox.Box, error) {
	start, end := timebox.DayBounds(day)
	return s.boxes.QueryByDayRange(ctx, start, end)
}

// EnsurePlanSessionForDay returns day's plan-session box, creating it
// at the workday start sized by the planning default when absent.
// Idempotent.
func (s *Service) EnsurePlanSessionForDay(ctx context.Context, day time.Time) (timebox.Box, error) {
	boxes, err := s.BoxesForDay(ctx, day)
	if err != nil {
		return timebox.Box{}, fmt.Errorf("ensure plan session: %w", err)
	}
	for _, b := range boxes {
		if b.IsPlanSession {
			return b, nil
		}
	}

	start, err := timebox.AtClock(day, s.settings.WorkdayStart)
	if err != nil {
		return timebox.Box{}, fmt.Errorf("ensure plan session: %w", err)
	}
	end := start.Add(time.Duration(s.settings.PlanningDefaultMinutes) * time.Minute)

	return s.CreateBox(ctx, CreateBoxInput{
		Title:         "Plan the day",
		Start:         start,
		End:           end,
		Tags:          []string{"planning"},
		Color:         "#2563eb",
		Notes:         "Daily planning session",
		IsPlanSession: true,
	})
}

// BoxLog returns the activity log for one box, oldest first.
func (s *Service) BoxLog(ctx context.Context, id string) ([]timebox.LogEntry, error) {
	return s.logs.ListByBox(ctx, id)
}

// DayLog returns all activity log entries recorded on day, oldest first.
func (s *Service) DayLog(ctx context.Context, day time.Time) ([]timebox.LogEntry, error) {
	start, end := timebox.DayBounds(day)
	return s.logs.ListRange(ctx, start, end)
}
