package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mapperDay() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
}

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.Local)
}

func TestMapperTimeToY(t *testing.T) {
	m := NewMapper(mapperDay())

	assert.Equal(t, 0, m.TimeToY(at(7, 0)))
	assert.Equal(t, 60*PxPerMin, m.TimeToY(at(8, 0)))
	assert.Equal(t, 125*PxPerMin, m.TimeToY(at(9, 5)))

	// Out-of-window instants clamp to the edges.
	assert.Equal(t, 0, m.TimeToY(at(6, 0)))
	assert.Equal(t, m.HeightPx(), m.TimeToY(at(23, 30)))
}

func TestMapperYToTime(t *testing.T) {
	m := NewMapper(mapperDay())

	assert.True(t, m.YToTime(0).Equal(at(7, 0)))
	assert.True(t, m.YToTime(60*PxPerMin).Equal(at(8, 0)))

	// Off-grid pixels snap to the nearest 5-minute step.
	assert.True(t, m.YToTime(7*PxPerMin).Equal(at(7, 5)))
	assert.True(t, m.YToTime(2*PxPerMin).Equal(at(7, 0)))
	assert.True(t, m.YToTime(3*PxPerMin).Equal(at(7, 5)))

	// Out-of-range pixels clamp to the window.
	assert.True(t, m.YToTime(-100).Equal(at(7, 0)))
	assert.True(t, m.YToTime(m.HeightPx()+500).Equal(at(22, 0)))
}

func TestMapperRoundTrip(t *testing.T) {
	m := NewMapper(mapperDay())

	// Every on-grid instant survives the round trip exactly.
	for mins := 0; mins <= (DisplayEndHour-DisplayStartHour)*60; mins += SnapStepMinutes {
		instant := at(7, 0).Add(time.Duration(mins) * time.Minute)
		assert.True(t, m.YToTime(m.TimeToY(instant)).Equal(instant), "round trip at %v", instant)
	}
}
