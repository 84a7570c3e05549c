package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_ZeroUsesDefault(t *testing.T) {
	clock := NewFixedClock(time.Time{})
	assert.Equal(t, DefaultNow, clock.Now())
}

func TestFixedClock_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	clock := NewFixedClock(time.Date(2020, 1, 1, 2, 0, 0, 0, loc))

	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), clock.Now())
	assert.Equal(t, time.UTC, clock.Now().Location())
}

func TestFixedClock_DoesNotMove(t *testing.T) {
	clock := NewFixedClock(DefaultNow)

	first := clock.Now()
	time.Sleep(time.Millisecond)
	assert.Equal(t, first, clock.Now())
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	clock := NewFixedClock(DefaultNow)

	clock.Set(time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC), clock.Now())

	got := clock.Advance(36 * time.Hour)
	assert.Equal(t, time.Date(2000, 6, 2, 12, 0, 0, 0, time.UTC), got)
	assert.Equal(t, got, clock.Now())
}

func TestFixedClock_ThreadSafe(t *testing.T) {
	clock := NewFixedClock(DefaultNow)
	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, DefaultNow.Add(numGoroutines*time.Second), clock.Now())
}
