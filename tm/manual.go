package tm

import (
	"time"

	"go.uber.org/atomic"
)

// ManualClock is used in tests to mock time
type ManualClock struct {
	time atomic.Int64
}

// Now returns the manually set time
func (c *ManualClock) Now() int64 {
	return c.time.Load()
}

// SetTime sets the time of the ManualClock in UnixNanos
func (c *ManualClock) SetTime(t int64) {
	c.time.Store(t)
}

// SetUnixSeconds sets the time of the ManualClock to s seconds after the epoch
func (c *ManualClock) SetUnixSeconds(s int64) {
	c.time.Store(s * int64(time.Second))
}

// AdvanceTime progesses time by the given duration
func (c *ManualClock) AdvanceTime(t time.Duration) {
	c.time.Add(int64(t))
}

// NewManualClock returns an instance of ManualClock
func NewManualClock() *ManualClock {
	return &ManualClock{}
}
