package toast

import "time"

// Timer is the cancel handle of a scheduled removal.
type Timer interface {
	// Stop prevents the scheduled function from running. It reports false
	// if the function already ran or was stopped.
	Stop() bool
}

// Scheduler runs deferred work. Channel calls AfterFunc without holding its
// lock, so f may run at any time, even before AfterFunc returns.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer wheel.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
