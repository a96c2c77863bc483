package domain

import "time"

// Clock abstracts time.Now() so "today" can be pinned in tests.
// The scheduler uses it to build its date window, field constructors use it
// to reject birthdays in the future and the note store to stamp new notes.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// CivilDate drops the clock part of t and pins the calendar date to UTC midnight,
// so that dates compare and hash by day regardless of their original location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
