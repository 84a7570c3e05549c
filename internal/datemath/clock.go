package datemath

import "time"

// Clock supplies the "now" reference captured by NOW-rooted expressions.
//
// Inject a fixed clock (see internal/testutil) for deterministic tests; the
// parser never reads the wall clock except through its Clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}
