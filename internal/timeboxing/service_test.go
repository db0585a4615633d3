package timeboxing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
)

func TestCreateBox(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to planned and logs creation", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		box := mustCreate(t, svc, "write report", hm(9, 0), hm(10, 0))

		assert.Equal(t, timebox.StatusPlanned, box.Status)
		assert.NotEmpty(t, box.ID)

		entries, err := svc.BoxLog(ctx, box.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, timebox.EventCreate, entries[0].Event)
		assert.Equal(t, "write report", entries[0].Payload["title"])
	})

	t.Run("tag color applies when none given", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		svc.settings.ColorsByTag = map[string]string{"writing": "#9ece6a"}

		box, err := svc.CreateBox(ctx, CreateBoxInput{
			Title: "draft post", Start: hm(9, 0), End: hm(10, 0), Tags: []string{"writing"},
		})
		require.NoError(t, err)
		assert.Equal(t, "#9ece6a", box.Color)

		box, err = svc.CreateBox(ctx, CreateBoxInput{
			Title: "explicit wins", Start: hm(10, 0), End: hm(11, 0),
			Tags: []string{"writing"}, Color: "#2563eb",
		})
		require.NoError(t, err)
		assert.Equal(t, "#2563eb", box.Color)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		_, err := svc.CreateBox(ctx, CreateBoxInput{Title: "  ", Start: hm(9, 0), End: hm(10, 0)})
		assert.ErrorIs(t, err, timebox.ErrEmptyTitle)
	})

	t.Run("rejects inverted and empty intervals", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		_, err := svc.CreateBox(ctx, CreateBoxInput{Title: "x", Start: hm(10, 0), End: hm(9, 0)})
		assert.ErrorIs(t, err, timebox.ErrInvalidInterval)

		_, err = svc.CreateBox(ctx, CreateBoxInput{Title: "x", Start: hm(9, 0), End: hm(9, 0)})
		assert.ErrorIs(t, err, timebox.ErrInvalidInterval)
	})
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("at most one active box", func(t *testing.T) {
		svc := newTestService(t, hm(9, 0))
		a := mustCreate(t, svc, "a", hm(9, 0), hm(10, 0))
		b := mustCreate(t, svc, "b", hm(10, 0), hm(11, 0))

		require.NoError(t, svc.StartBox(ctx, a.ID))
		assert.ErrorIs(t, svc.StartBox(ctx, b.ID), timebox.ErrActiveConflict)

		// Starting the already active box is a no-op conflict-wise.
		assert.NoError(t, svc.StartBox(ctx, a.ID))

		require.NoError(t, svc.FinishBox(ctx, a.ID))
		assert.NoError(t, svc.StartBox(ctx, b.ID))

		active, err := svc.ActiveBox(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, b.ID, active.ID)
	})

	t.Run("missed box can be restarted", func(t *testing.T) {
		svc := newTestService(t, hm(15, 0))
		box := mustCreate(t, svc, "late", hm(9, 0), hm(10, 0))

		current := hm(15, 0)
		svc.SetClock(func() time.Time { return current })
		current = current.Add(10 * time.Minute)

		n, err := svc.MarkMissedForDay(ctx, testDay)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, svc.StartBox(ctx, box.ID))
		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.Equal(t, timebox.StatusActive, got.Status)
	})

	t.Run("finish and start log their events", func(t *testing.T) {
		svc := newTestService(t, hm(9, 0))
		box := mustCreate(t, svc, "a", hm(9, 0), hm(10, 0))

		require.NoError(t, svc.StartBox(ctx, box.ID))
		require.NoError(t, svc.FinishBox(ctx, box.ID))

		entries, err := svc.BoxLog(ctx, box.ID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, timebox.EventStart, entries[1].Event)
		assert.Equal(t, timebox.EventDone, entries[2].Event)
	})
}

func TestExtendBox(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, hm(9, 0))
	box := mustCreate(t, svc, "a", hm(9, 0), hm(10, 0))

	require.NoError(t, svc.ExtendBox(ctx, box.ID, 15))
	got, err := svc.boxes.Get(ctx, box.ID)
	require.NoError(t, err)
	assert.True(t, got.End.Equal(hm(10, 15)))

	require.NoError(t, svc.ExtendBox(ctx, box.ID, -30))
	got, err = svc.boxes.Get(ctx, box.ID)
	require.NoError(t, err)
	assert.True(t, got.End.Equal(hm(9, 45)))

	// Shrinking past the start is rejected and leaves the box untouched.
	assert.ErrorIs(t, svc.ExtendBox(ctx, box.ID, -60), timebox.ErrInvalidInterval)
	got, err = svc.boxes.Get(ctx, box.ID)
	require.NoError(t, err)
	assert.True(t, got.End.Equal(hm(9, 45)))
}

func TestUpdateBoxTimes(t *testing.T) {
	ctx := context.Background()

	t.Run("conflict is reported unless forced", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		mustCreate(t, svc, "blocker", hm(10, 0), hm(11, 0))
		box := mustCreate(t, svc, "moved", hm(9, 0), hm(9, 30))

		err := svc.UpdateBoxTimes(ctx, box.ID, hm(10, 30), hm(11, 30), false)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, box.ID, conflict.BoxID)

		// Nothing persisted.
		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.True(t, got.Start.Equal(hm(9, 0)))

		require.NoError(t, svc.UpdateBoxTimes(ctx, box.ID, hm(10, 30), hm(11, 30), true))
		got, err = svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.True(t, got.Start.Equal(hm(10, 30)))

		entries, err := svc.BoxLog(ctx, box.ID)
		require.NoError(t, err)
		last := entries[len(entries)-1]
		assert.Equal(t, true, last.Payload["forced"])
	})

	t.Run("touching the blocker is not a conflict", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		mustCreate(t, svc, "blocker", hm(10, 0), hm(11, 0))
		box := mustCreate(t, svc, "moved", hm(9, 0), hm(9, 30))

		assert.NoError(t, svc.UpdateBoxTimes(ctx, box.ID, hm(9, 30), hm(10, 0), false))
	})

	t.Run("growing the end logs extend, moving logs shift", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		box := mustCreate(t, svc, "a", hm(9, 0), hm(10, 0))

		require.NoError(t, svc.UpdateBoxTimes(ctx, box.ID, hm(9, 0), hm(10, 30), false))
		require.NoError(t, svc.UpdateBoxTimes(ctx, box.ID, hm(13, 0), hm(14, 30), false))

		entries, err := svc.BoxLog(ctx, box.ID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, timebox.EventExtend, entries[1].Event)
		assert.Equal(t, timebox.EventShift, entries[2].Event)
	})
}

func TestShiftBox(t *testing.T) {
	ctx := context.Background()

	t.Run("today anchors at now when past the box end", func(t *testing.T) {
		svc := newTestService(t, hm(15, 0))
		box := mustCreate(t, svc, "slipped", hm(14, 0), hm(14, 30))

		require.NoError(t, svc.ShiftBox(ctx, box.ID))
		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.True(t, got.Start.Equal(hm(15, 0)))
		assert.True(t, got.End.Equal(hm(15, 30)))
		assert.Equal(t, timebox.StatusPlanned, got.Status)
	})

	t.Run("today anchors at the box end when still ahead", func(t *testing.T) {
		svc := newTestService(t, hm(9, 0))
		box := mustCreate(t, svc, "upcoming", hm(11, 0), hm(11, 45))

		require.NoError(t, svc.ShiftBox(ctx, box.ID))
		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.True(t, got.Start.Equal(hm(11, 45)))
	})

	t.Run("past day relocates to tomorrow's workday start", func(t *testing.T) {
		svc := newTestService(t, hm(10, 0))
		yesterday := testDay.AddDate(0, 0, -1)
		box := mustCreate(t, svc, "yesterday", yesterday.Add(14*time.Hour), yesterday.Add(15*time.Hour))

		require.NoError(t, svc.ShiftBox(ctx, box.ID))
		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.True(t, got.Start.Equal(hm(9, 0)))
		assert.True(t, got.End.Equal(hm(10, 0)))
	})

	t.Run("full day falls over to the next day", func(t *testing.T) {
		svc := newTestService(t, hm(9, 0))
		mustCreate(t, svc, "wall", hm(9, 0), hm(18, 0))
		box := mustCreate(t, svc, "squeezed", hm(8, 0), hm(8, 30))

		require.NoError(t, svc.ShiftBox(ctx, box.ID))
		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		tomorrow := testDay.AddDate(0, 0, 1)
		assert.True(t, got.Start.Equal(tomorrow.Add(9*time.Hour)))
	})

	t.Run("missed box becomes planned again", func(t *testing.T) {
		svc := newTestService(t, hm(15, 0))
		box := mustCreate(t, svc, "late", hm(9, 0), hm(9, 30))

		current := hm(15, 0)
		svc.SetClock(func() time.Time { return current })
		current = current.Add(10 * time.Minute)

		_, err := svc.MarkMissedForDay(ctx, testDay)
		require.NoError(t, err)

		require.NoError(t, svc.ShiftBox(ctx, box.ID))
		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.Equal(t, timebox.StatusPlanned, got.Status)
	})
}

func TestSplitActiveBox(t *testing.T) {
	ctx := context.Background()

	t.Run("splits remaining minutes into a new planned box", func(t *testing.T) {
		svc := newTestService(t, hm(12, 55))
		box := mustCreate(t, svc, "deep work", hm(13, 0), hm(14, 0))
		require.NoError(t, svc.StartBox(ctx, box.ID))

		svc.SetClock(func() time.Time { return hm(13, 40) })

		remainder, err := svc.SplitActiveBox(ctx, box.ID)
		require.NoError(t, err)

		closed, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.Equal(t, timebox.StatusDone, closed.Status)
		assert.True(t, closed.End.Equal(hm(13, 40)))

		assert.Equal(t, "deep work", remainder.Title)
		assert.Equal(t, timebox.StatusPlanned, remainder.Status)
		assert.Equal(t, 20, remainder.DurationMinutes())
		assert.True(t, remainder.Start.Equal(hm(13, 40)),
			"remainder reuses the slot freed by capping the closed box")
	})

	t.Run("remainder skips other boxes", func(t *testing.T) {
		svc := newTestService(t, hm(12, 55))
		mustCreate(t, svc, "next meeting", hm(13, 40), hm(14, 30))
		box := mustCreate(t, svc, "deep work", hm(13, 0), hm(14, 0))
		require.NoError(t, svc.StartBox(ctx, box.ID))

		svc.SetClock(func() time.Time { return hm(13, 40) })

		remainder, err := svc.SplitActiveBox(ctx, box.ID)
		require.NoError(t, err)
		assert.True(t, remainder.Start.Equal(hm(14, 30)))
	})

	t.Run("nothing remaining degrades to finish", func(t *testing.T) {
		svc := newTestService(t, hm(12, 55))
		box := mustCreate(t, svc, "deep work", hm(13, 0), hm(14, 0))
		require.NoError(t, svc.StartBox(ctx, box.ID))

		svc.SetClock(func() time.Time { return hm(14, 10) })

		_, err := svc.SplitActiveBox(ctx, box.ID)
		require.NoError(t, err)

		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.Equal(t, timebox.StatusDone, got.Status)
		assert.True(t, got.End.Equal(hm(14, 0)), "original end kept when nothing remains")

		boxes, err := svc.BoxesForDay(ctx, testDay)
		require.NoError(t, err)
		assert.Len(t, boxes, 1, "no remainder box created")
	})

	t.Run("non-active box is rejected", func(t *testing.T) {
		svc := newTestService(t, hm(13, 40))
		box := mustCreate(t, svc, "planned only", hm(13, 0), hm(14, 0))

		_, err := svc.SplitActiveBox(ctx, box.ID)
		assert.ErrorIs(t, err, timebox.ErrNotActive)
	})
}

func TestMarkMissedForDay(t *testing.T) {
	ctx := context.Background()

	t.Run("flips overdue planned boxes and is idempotent", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		mustCreate(t, svc, "morning", hm(9, 0), hm(10, 0))
		mustCreate(t, svc, "midday", hm(11, 0), hm(12, 0))
		upcoming := mustCreate(t, svc, "upcoming", hm(16, 0), hm(17, 0))
		done := mustCreate(t, svc, "already done", hm(9, 0), hm(9, 30))
		require.NoError(t, svc.FinishBox(ctx, done.ID))

		current := hm(8, 0)
		svc.SetClock(func() time.Time { return current })
		current = hm(15, 0)

		n, err := svc.MarkMissedForDay(ctx, testDay)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = svc.MarkMissedForDay(ctx, testDay)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		got, err := svc.boxes.Get(ctx, upcoming.ID)
		require.NoError(t, err)
		assert.Equal(t, timebox.StatusPlanned, got.Status)

		got, err = svc.boxes.Get(ctx, done.ID)
		require.NoError(t, err)
		assert.Equal(t, timebox.StatusDone, got.Status)
	})

	t.Run("future day is untouched", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		tomorrow := testDay.AddDate(0, 0, 1)
		mustCreate(t, svc, "tomorrow", tomorrow.Add(9*time.Hour), tomorrow.Add(10*time.Hour))

		n, err := svc.MarkMissedForDay(ctx, tomorrow)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("past day uses end of day as cutoff", func(t *testing.T) {
		svc := newTestService(t, hm(10, 0))
		yesterday := testDay.AddDate(0, 0, -1)
		mustCreate(t, svc, "ended late yesterday", yesterday.Add(23*time.Hour), yesterday.Add(23*time.Hour+45*time.Minute))

		current := hm(10, 0)
		svc.SetClock(func() time.Time { return current })
		current = current.Add(10 * time.Minute)

		n, err := svc.MarkMissedForDay(ctx, yesterday)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("freshly created boxes get a grace window", func(t *testing.T) {
		svc := newTestService(t, hm(15, 0))
		box := mustCreate(t, svc, "just added", hm(9, 0), hm(10, 0))

		current := hm(15, 0)
		svc.SetClock(func() time.Time { return current })

		current = hm(15, 2)
		n, err := svc.MarkMissedForDay(ctx, testDay)
		require.NoError(t, err)
		assert.Equal(t, 0, n, "box created two minutes ago stays planned")

		current = hm(15, 6)
		n, err = svc.MarkMissedForDay(ctx, testDay)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		got, err := svc.boxes.Get(ctx, box.ID)
		require.NoError(t, err)
		assert.Equal(t, timebox.StatusMissed, got.Status)
	})
}

func TestUpdateBoxMeta(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, hm(8, 0))
	box := mustCreate(t, svc, "original", hm(9, 0), hm(10, 0))

	title := "renamed"
	tags := []string{"urgent", "writing"}
	require.NoError(t, svc.UpdateBoxMeta(ctx, box.ID, MetaPatch{Title: &title, Tags: &tags}))

	got, err := svc.boxes.Get(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, tags, got.Tags)
	assert.True(t, got.Start.Equal(hm(9, 0)), "scheduling fields untouched")

	bad := "   "
	assert.ErrorIs(t, svc.UpdateBoxMeta(ctx, box.ID, MetaPatch{Title: &bad}), timebox.ErrEmptyTitle)

	// Empty patch writes nothing, not even a log entry.
	require.NoError(t, svc.UpdateBoxMeta(ctx, box.ID, MetaPatch{}))
	entries, err := svc.BoxLog(ctx, box.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEnsurePlanSessionForDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, hm(7, 0))

	first, err := svc.EnsurePlanSessionForDay(ctx, testDay)
	require.NoError(t, err)
	assert.True(t, first.IsPlanSession)
	assert.True(t, first.Start.Equal(hm(9, 0)))
	assert.Equal(t, 15, first.DurationMinutes())

	second, err := svc.EnsurePlanSessionForDay(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	boxes, err := svc.BoxesForDay(ctx, testDay)
	require.NoError(t, err)
	assert.Len(t, boxes, 1)
}

func TestDeleteBox(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, hm(8, 0))
	box := mustCreate(t, svc, "gone", hm(9, 0), hm(10, 0))

	require.NoError(t, svc.DeleteBox(ctx, box.ID))
	_, err := svc.boxes.Get(ctx, box.ID)
	assert.ErrorIs(t, err, timebox.ErrNotFound)

	// The log survives the box.
	entries, err := svc.BoxLog(ctx, box.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBacklog(t *testing.T) {
	ctx := context.Background()

	t.Run("promote copies the item into the next free slot", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		mustCreate(t, svc, "standup", hm(9, 0), hm(9, 30))

		item, err := svc.AddBacklogItem(ctx, "review pull requests", 45, nil, "")
		require.NoError(t, err)

		box, err := svc.PromoteBacklogItem(ctx, item.ID, testDay, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, "review pull requests", box.Title)
		assert.True(t, box.Start.Equal(hm(9, 30)))
		assert.Equal(t, 45, box.DurationMinutes())

		// Promotion copies; the backlog item stays.
		items, err := svc.ListBacklog(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("estimate defaults when unset", func(t *testing.T) {
		svc := newTestService(t, hm(8, 0))
		item, err := svc.AddBacklogItem(ctx, "someday", 0, nil, "")
		require.NoError(t, err)
		assert.Equal(t, timebox.DefaultEstimateMinutes, item.EstimateMinutes)
	})
}
