package pomodoro

import "time"

// Clock is a free-running microsecond counter.
type Clock interface {
	Micros() int64
}

// SystemClock counts microseconds from the moment it was created using the
// runtime's monotonic clock.
type SystemClock struct {
	epoch time.Time
}

func NewSystemClock() SystemClock { return SystemClock{epoch: time.Now()} }

func (c SystemClock) Micros() int64 { return time.Since(c.epoch).Microseconds() }
