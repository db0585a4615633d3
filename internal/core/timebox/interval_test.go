package timebox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	ts, err := AtClock(day, hhmm)
	if err != nil {
		t.Fatalf("bad clock %q: %v", hhmm, err)
	}
	return ts
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"disjoint before", "09:00", "10:00", "11:00", "12:00", false},
		{"disjoint after", "11:00", "12:00", "09:00", "10:00", false},
		{"touching endpoints do not overlap", "09:00", "10:00", "10:00", "11:00", false},
		{"touching endpoints reversed", "10:00", "11:00", "09:00", "10:00", false},
		{"partial overlap", "09:00", "10:30", "10:00", "11:00", true},
		{"containment", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(at(t, tt.aStart), at(t, tt.aEnd), at(t, tt.bStart), at(t, tt.bEnd))
			assert.Equal(t, tt.want, got)

			// Overlap is symmetric.
			swapped := RangesOverlap(at(t, tt.bStart), at(t, tt.bEnd), at(t, tt.aStart), at(t, tt.aEnd))
			assert.Equal(t, got, swapped)
		})
	}
}

func TestHasOverlap(t *testing.T) {
	boxes := []Box{
		{ID: "a", Start: at(t, "09:00"), End: at(t, "10:00")},
		{ID: "b", Start: at(t, "11:00"), End: at(t, "12:00")},
	}

	t.Run("no boxes", func(t *testing.T) {
		assert.False(t, HasOverlap(at(t, "09:00"), at(t, "10:00"), nil, ""))
	})

	t.Run("overlap detected", func(t *testing.T) {
		assert.True(t, HasOverlap(at(t, "09:30"), at(t, "10:30"), boxes, ""))
	})

	t.Run("gap between boxes is free", func(t *testing.T) {
		assert.False(t, HasOverlap(at(t, "10:00"), at(t, "11:00"), boxes, ""))
	})

	t.Run("exclude id skips the box itself", func(t *testing.T) {
		assert.True(t, HasOverlap(at(t, "09:00"), at(t, "10:00"), boxes, ""))
		assert.False(t, HasOverlap(at(t, "09:00"), at(t, "10:00"), boxes, "a"))
	})
}
