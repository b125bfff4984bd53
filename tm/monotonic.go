package tm

import "time"

// MonotonicClock is an implementation of Clock which is anchored to the wall
// clock once and then advances by monotonic elapsed time. Readings never go
// backwards even if the system clock is stepped.
type MonotonicClock struct {
	startTime time.Time
	offset    int64
}

// Now adds the elapsed time from a fixed point of reference to generate a new
// time
func (c *MonotonicClock) Now() int64 {
	return c.startTime.UnixNano() + time.Since(c.startTime).Nanoseconds() + c.offset
}

// NewMonotonicClock returns an instance of MonotonicClock
func NewMonotonicClock() Clock {
	return NewMonotonicClockWithOffset(0)
}

// NewMonotonicClockWithOffset returns an instance of MonotonicClock
// offset is added to startTime when computing Now()
func NewMonotonicClockWithOffset(offset time.Duration) Clock {
	return &MonotonicClock{
		startTime: time.Now(),
		offset:    int64(offset),
	}
}
