package test

import (
	"sync"
	"time"
)

// ClockStub is a manually driven clock.
type ClockStub struct {
	mu  sync.Mutex
	now time.Time
}

// NewClockStub creates clock frozen at now.
func NewClockStub(now time.Time) *ClockStub {
	return &ClockStub{now: now}
}

// Now returns the frozen time.
func (c *ClockStub) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *ClockStub) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *ClockStub) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
