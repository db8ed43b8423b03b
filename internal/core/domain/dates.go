package domain

import "time"

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// DayKey identifies one calendar day ("2006-01-02"). Day-key equality is the
// only mechanism used to decide "same day" vs "yesterday" vs "gap".
type DayKey string

// MonthKey identifies one calendar month ("2006-01").
type MonthKey string

func NewDayKey(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

func (k DayKey) IsZero() bool {
	return k == ""
}

// Valid reports whether the key parses back to a calendar day. Persisted
// values that fail this check are treated as absent, never as an error.
func (k DayKey) Valid() bool {
	_, err := time.Parse(dayKeyLayout, string(k))
	return err == nil
}

// AddDays returns the key offset by n calendar days. A malformed key yields
// the zero key, which never compares equal to a real day.
func (k DayKey) AddDays(n int) DayKey {
	t, err := time.Parse(dayKeyLayout, string(k))
	if err != nil {
		return ""
	}
	return NewDayKey(t.AddDate(0, 0, n))
}

func (k DayKey) PrevDay() DayKey {
	return k.AddDays(-1)
}

func (k DayKey) MonthKey() MonthKey {
	t, err := time.Parse(dayKeyLayout, string(k))
	if err != nil {
		return ""
	}
	return MonthKey(t.Format(monthKeyLayout))
}

// Clock is the wall-clock oracle. It is injected so tests can simulate day
// rollovers without waiting on a real calendar.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return &SystemClock{Location: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// Today derives the current day-key from a clock. Stable across calls within
// the same calendar day.
func Today(c Clock) DayKey {
	return NewDayKey(c.Now())
}
