package fill

import "time"

// Timer is a cancelable pending callback.
type Timer interface {
	// Stop cancels the callback. Stopping an expired or already
	// stopped timer is a no-op.
	Stop()
}

// Scheduler defers a callback by a duration. The machine takes it as
// a dependency so tests can fast-forward virtual time instead of
// sleeping.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

type realTimer struct {
	t *time.Timer
}

func (rt realTimer) Stop() {
	rt.t.Stop()
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// NewScheduler returns a Scheduler backed by runtime timers.
func NewScheduler() Scheduler {
	return realScheduler{}
}
