// Package trigger rate-limits sampling requests and hands them to the
// renderer's frame loop.
//
// Scroll, resize and drag events call Fire. The first event of a throttle
// window is accepted and later ones in the same window are dropped
// (leading edge, no trailing call). An accepted event asks the renderer
// for a frame; the pass itself only runs when the frame callback calls
// TakeFrame, never inside the event handler.
package trigger

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultWindow is the throttle window.
	DefaultWindow = 200 * time.Millisecond

	// DefaultFrameInterval approximates one display refresh.
	DefaultFrameInterval = 16 * time.Millisecond
)

// Kind names what caused a trigger.
type Kind string

const (
	Scroll Kind = "scroll"
	Resize Kind = "resize"
	Drag   Kind = "drag"
	Settle Kind = "settle" // pointer released
	Manual Kind = "manual"
)

// Stats counts what the gate did with incoming triggers.
type Stats struct {
	Fired     int // accepted, a frame was requested
	Coalesced int // accepted while a frame was already pending
	Dropped   int // rejected by the throttle
	Frames    int // frame callbacks that ran a pass
	Last      Kind
}

// Gate combines the throttle with the pending-frame flag.
type Gate struct {
	limiter *rate.Limiter
	now     func() time.Time
	pending bool
	stats   Stats
}

// NewGate creates a gate with the given throttle window. A non-positive
// window selects DefaultWindow.
func NewGate(window time.Duration) *Gate {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Gate{
		limiter: rate.NewLimiter(rate.Every(window), 1),
		now:     time.Now,
	}
}

// SetClock replaces the time source. Used by scenarios and tests.
func (g *Gate) SetClock(now func() time.Time) { g.now = now }

// Fire registers a trigger. It returns true when the caller must request
// a frame; false means the trigger was dropped or folded into a frame
// that is already pending.
func (g *Gate) Fire(kind Kind) bool {
	if !g.limiter.AllowN(g.now(), 1) {
		g.stats.Dropped++
		return false
	}
	g.stats.Last = kind
	if g.pending {
		g.stats.Coalesced++
		return false
	}
	g.pending = true
	g.stats.Fired++
	return true
}

// Force requests a frame without consulting the throttle. It is used for
// the settle pass after a drag ends.
func (g *Gate) Force(kind Kind) bool {
	g.stats.Last = kind
	if g.pending {
		g.stats.Coalesced++
		return false
	}
	g.pending = true
	g.stats.Fired++
	return true
}

// TakeFrame is called from the frame callback. It reports whether a pass
// should run now and clears the pending flag.
func (g *Gate) TakeFrame() bool {
	if !g.pending {
		return false
	}
	g.pending = false
	g.stats.Frames++
	return true
}

// Pending reports whether a frame has been requested and not yet taken.
func (g *Gate) Pending() bool { return g.pending }

// Stats returns a snapshot of the counters.
func (g *Gate) Stats() Stats { return g.stats }
