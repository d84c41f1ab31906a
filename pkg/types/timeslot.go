package types

import (
	"fmt"
	"time"
)

// Observation day geometry. IntervalsPerDay * MinutesPerInterval covers a
// full 24 hours, so every clock time falls in exactly one interval.
const (
	IntervalsPerDay    = 96
	MinutesPerInterval = 15
	MinutesPerDay      = IntervalsPerDay * MinutesPerInterval

	// DefaultDayStart is the clock time of interval 0, in minutes after
	// midnight (7:00 AM).
	DefaultDayStart = 7 * 60
)

// IntervalLabel formats interval index as its clock span, for example
// "7:00-7:14 AM" for index 0 with the default day start. The period is
// taken from the start of the interval.
func IntervalLabel(index, dayStart int) string {
	start := dayStart + index*MinutesPerInterval
	end := start + MinutesPerInterval - 1

	period := "AM"
	if (start/60)%24 >= 12 {
		period = "PM"
	}
	return fmt.Sprintf("%s-%s %s", clock12(start), clock12(end), period)
}

// clock12 renders minutes after midnight as an unpadded 12-hour "H:MM".
func clock12(minutes int) string {
	h := (minutes / 60) % 24
	m := minutes % 60
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d", display, m)
}

// IntervalIndexAt returns the interval containing the clock time hour:minute
// for a day starting at dayStart. Times before dayStart wrap to the end of
// the observation day. Returns ErrInvalidTime if the clock time is invalid.
func IntervalIndexAt(hour, minute, dayStart int) (int, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	offset := (hour*60 + minute - dayStart) % MinutesPerDay
	if offset < 0 {
		offset += MinutesPerDay
	}
	return offset / MinutesPerInterval, nil
}

// ParseClock parses a 24-hour "HH:MM" clock time into minutes after
// midnight. Returns ErrInvalidTime on malformed input.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
