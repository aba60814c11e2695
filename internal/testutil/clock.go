// Package testutil holds shared test doubles for the timing packages.
package testutil

import "sync"

// Clock is a controllable wall clock for tests.
//
// It returns a fixed epoch-millisecond instant until advanced, so start
// instants and elapsed times computed in tests are fully deterministic.
type Clock struct {
	mu  sync.Mutex
	now int64
}

// NewClock creates a clock fixed at the given epoch-millisecond instant.
func NewClock(now int64) *Clock {
	return &Clock{now: now}
}

// NowMillis returns the current fixed instant.
func (c *Clock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by ms milliseconds.
func (c *Clock) Advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
}

// Set pins the clock to an absolute instant.
func (c *Clock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
