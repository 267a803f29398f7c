package engine

import (
	"fmt"
	"time"

	"github.com/arenasim/ragdoll/parameter"
)

// Clock implements the fixed-timestep accumulator. The physics integrator is
// invoked only in whole multiples of the fixed tick; the fractional
// remainder persists across frames. Outcome therefore depends only on the
// number of ticks executed, never on how wall time was chunked
type Clock struct {
	tick        time.Duration
	accumulator time.Duration
	ticks       uint64
}

// NewClock creates a clock with the given fixed tick size
func NewClock(tick time.Duration) (*Clock, error) {
	if tick <= 0 {
		return nil, fmt.Errorf("clock: tick size must be positive, got %v", tick)
	}
	return &Clock{tick: tick}, nil
}

// Advance adds elapsed real time and drains the accumulator, returning the
// number of whole ticks to execute. Elapsed time is capped at
// CatchUpTicks*tick: a long stall loses simulated time instead of spiralling
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	max := c.tick * parameter.CatchUpTicks
	if elapsed > max {
		elapsed = max
	}
	c.accumulator += elapsed

	n := 0
	for c.accumulator >= c.tick {
		c.accumulator -= c.tick
		c.ticks++
		n++
	}
	return n
}

// ForceTick executes exactly one tick irrespective of accumulator state,
// for frame-by-frame inspection while paused
func (c *Clock) ForceTick() uint64 {
	c.ticks++
	return c.ticks - 1
}

// Tick returns the fixed tick duration
func (c *Clock) Tick() time.Duration {
	return c.tick
}

// Ticks returns the monotonic tick counter
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Remainder exposes unconsumed accumulated time, primarily for tests
func (c *Clock) Remainder() time.Duration {
	return c.accumulator
}

// Reset zeroes counter and accumulator
func (c *Clock) Reset() {
	c.accumulator = 0
	c.ticks = 0
}
