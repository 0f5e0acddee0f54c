package netsync

import "time"

// Clock reports client-local monotonic time as an offset from an arbitrary
// origin.
type Clock interface {
	Now() time.Duration
}

type monotonicClock struct {
	start time.Time
}

// NewClock returns a Clock backed by the runtime's monotonic reading.
func NewClock() Clock {
	return monotonicClock{start: time.Now()}
}

func (c monotonicClock) Now() time.Duration {
	return time.Since(c.start)
}
