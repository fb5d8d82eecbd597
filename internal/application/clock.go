package application

import "time"

// Clock interface so time-dependent code stays testable
type Clock interface {
	Now() time.Time
}

// SystemClock is the default implementation, always in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
