package admission

import (
	"fmt"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

// Minute is a time of day expressed as minutes since midnight.
type Minute int

// MinuteOf returns the minute of day of t.
func MinuteOf(t time.Time) Minute {
	return Minute(t.Hour()*60 + t.Minute())
}

// ParseMinute parses a 24-hour "HH:MM" time of day.
func ParseMinute(s string) (Minute, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q (want HH:MM): %w", s, err)
	}

	return MinuteOf(t), nil
}

// String formats m as "HH:MM".
func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Display formats m as a 12-hour clock time, e.g. "8:30 PM".
func (m Minute) Display() string {
	h, mm := int(m)/60, int(m)%60

	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}

	h %= 12
	if h == 0 {
		h = 12
	}

	return fmt.Sprintf("%d:%02d %s", h, mm, suffix)
}

// Window is an inclusive range of minutes within one day.
type Window struct {
	Start Minute
	End   Minute
}

// Contains reports whether m falls inside the window, bounds included.
func (w Window) Contains(m Minute) bool {
	return m >= w.Start && m <= w.End
}
