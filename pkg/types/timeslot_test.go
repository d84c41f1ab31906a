package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalLabel(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		dayStart int
		want     string
	}{
		{name: "first interval", index: 0, dayStart: DefaultDayStart, want: "7:00-7:14 AM"},
		{name: "quarter past", index: 1, dayStart: DefaultDayStart, want: "7:15-7:29 AM"},
		{name: "noon", index: 20, dayStart: DefaultDayStart, want: "12:00-12:14 PM"},
		{name: "afternoon", index: 24, dayStart: DefaultDayStart, want: "1:00-1:14 PM"},
		{name: "midnight wraps", index: 68, dayStart: DefaultDayStart, want: "12:00-12:14 AM"},
		{name: "last interval", index: 95, dayStart: DefaultDayStart, want: "6:45-6:59 AM"},
		{name: "midnight day start", index: 0, dayStart: 0, want: "12:00-12:14 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntervalLabel(tt.index, tt.dayStart))
		})
	}
}

func TestIntervalIndexAt(t *testing.T) {
	idx, err := IntervalIndexAt(7, 0, DefaultDayStart)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = IntervalIndexAt(9, 44, DefaultDayStart)
	require.NoError(t, err)
	assert.Equal(t, 10, idx)

	// Before day start wraps to the end of the day.
	idx, err = IntervalIndexAt(6, 59, DefaultDayStart)
	require.NoError(t, err)
	assert.Equal(t, IntervalsPerDay-1, idx)

	_, err = IntervalIndexAt(24, 0, DefaultDayStart)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("07:00")
	require.NoError(t, err)
	assert.Equal(t, DefaultDayStart, m)

	m, err = ParseClock("23:45")
	require.NoError(t, err)
	assert.Equal(t, 23*60+45, m)

	_, err = ParseClock("7am")
	assert.ErrorIs(t, err, ErrInvalidTime)
}
