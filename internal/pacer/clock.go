package pacer

import (
	"sync/atomic"
	"time"
)

// TimeSource is a monotonically non-decreasing tick counter.
type TimeSource interface {
	Ticks() uint64
	TicksPerSecond() uint64
}

// SystemClock counts nanoseconds of monotonic time since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock anchored at the current instant.
func NewSystemClock() *SystemClock { return &SystemClock{start: time.Now()} }

// Ticks never returns 0 so a sample cannot be mistaken for the rebaseline sentinel.
func (c *SystemClock) Ticks() uint64 { return uint64(time.Since(c.start).Nanoseconds()) + 1 }

func (c *SystemClock) TicksPerSecond() uint64 { return uint64(time.Second) }

// ManualClock is advanced explicitly. Headless runs use it to feed the pacer
// perfectly regular samples.
type ManualClock struct {
	ticks atomic.Uint64
	rate  uint64
}

func NewManualClock(ticksPerSecond uint64) *ManualClock {
	return &ManualClock{rate: ticksPerSecond}
}

func (c *ManualClock) Ticks() uint64          { return c.ticks.Load() }
func (c *ManualClock) TicksPerSecond() uint64 { return c.rate }

// Set moves the clock to t. Going backwards is allowed; the pacer ignores rewinds.
func (c *ManualClock) Set(t uint64) { c.ticks.Store(t) }

// Add advances the clock by d ticks and returns the new value.
func (c *ManualClock) Add(d uint64) uint64 { return c.ticks.Add(d) }
