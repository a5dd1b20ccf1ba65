package trigger

import "time"

// ManualClock is a settable time source for deterministic runs.
type ManualClock struct {
	t time.Time
}

// NewManualClock starts a clock at t.
func NewManualClock(t time.Time) *ManualClock { return &ManualClock{t: t} }

// Now returns the current time.
func (c *ManualClock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// Elapsed returns the time since start.
func (c *ManualClock) Elapsed(start time.Time) time.Duration { return c.t.Sub(start) }
