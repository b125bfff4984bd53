package tm

import "time"

// Clock is used by the oracle for observing wall-clock time
type Clock interface {
	// Now returns time in UnixNanos
	Now() int64
}

// UnixSeconds returns the time of c in whole seconds since the Unix epoch.
// Times before the epoch are reported as 0.
func UnixSeconds(c Clock) uint64 {
	now := c.Now()
	if now < 0 {
		return 0
	}
	return uint64(now / int64(time.Second))
}

// UnixMillis returns the time of c in whole milliseconds since the Unix epoch.
// Times before the epoch are reported as 0.
func UnixMillis(c Clock) uint64 {
	now := c.Now()
	if now < 0 {
		return 0
	}
	return uint64(now / int64(time.Millisecond))
}
