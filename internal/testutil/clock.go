package testutil

import (
	"sync"
	"time"
)

// DefaultNow is the reference instant scenario tests run against unless they
// pin another one.
var DefaultNow = time.Date(2024, time.March, 15, 10, 30, 45, 0, time.UTC)

// FixedClock is a settable clock for tests. It satisfies datemath.Clock.
//
// Unlike datemath.SystemClock, FixedClock only moves when told to, so the
// same scenario evaluates date math to identical instants on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at now (converted to UTC).
//
// A zero now means DefaultNow.
func NewFixedClock(now time.Time) *FixedClock {
	if now.IsZero() {
		now = DefaultNow
	}
	return &FixedClock{now: now.UTC()}
}

// Now returns the frozen instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
