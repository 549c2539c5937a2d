// Package testutil provides shared test helpers.
package testutil

import (
	"sync"
	"time"
)

// FixedClock is a thread-safe wall clock pinned to a settable
// instant. Cap windows and the rent-day boost depend on the calendar,
// so tests pin the clock instead of racing midnight.
//
// Thread-safety: all methods are safe for concurrent use via an
// internal mutex.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a clock pinned to t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the pinned instant. Implements engine.Clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set repins the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
