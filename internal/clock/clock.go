// Package clock abstracts the wall clock so step ids and timestamps are
// deterministic under test.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock uses the system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock returns a fixed time until it is moved.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a FakeClock set to t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fixed time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Advance moves the fixed time forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
