// Package clock abstracts wall time and one-shot timers so sequencing code can
// run against real time in production and a manually advanced clock in tests.
package clock

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

type Clock interface {
	Now() time.Time
	// AfterFunc runs f once d has elapsed. The goroutine f runs on is up to
	// the implementation.
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by the runtime timer. Callbacks run on their
// own goroutine, as with [time.AfterFunc].
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
