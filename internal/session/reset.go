package session

import "time"

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred work. SystemClock is backed by time.AfterFunc;
// tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// AutoReset arms at most one delayed reseed per stability episode.
//
//	Running -(stable, enabled, !pending)-> Pending -(delay)-> Reseeded -> Running
//
// Every arm or cancel bumps a token; a timer whose token no longer matches
// was cancelled and must be ignored. AutoReset is not synchronized; its
// owner serializes Observe, Cancel and Complete.
type AutoReset struct {
	clock   Clock
	delay   time.Duration
	enabled bool
	pending bool
	timer   Timer
	token   uint64
	fire    func(token uint64)
}

// NewAutoReset returns a disabled scheduler. fire runs on the clock's
// goroutine with the token of the arm that scheduled it.
func NewAutoReset(clock Clock, delay time.Duration, fire func(token uint64)) *AutoReset {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AutoReset{clock: clock, delay: delay, fire: fire}
}

func (a *AutoReset) Enabled() bool            { return a.enabled }
func (a *AutoReset) Pending() bool            { return a.pending }
func (a *AutoReset) Delay() time.Duration     { return a.delay }
func (a *AutoReset) SetEnabled(on bool)       { a.enabled = on }
func (a *AutoReset) SetDelay(d time.Duration) { a.delay = d }

// Observe arms the reseed when stable is true, the scheduler is enabled and
// nothing is pending. It reports whether a new reseed was armed.
func (a *AutoReset) Observe(stable bool) bool {
	if !stable || !a.enabled || a.pending {
		return false
	}
	a.token++
	token := a.token
	a.pending = true
	a.timer = a.clock.AfterFunc(a.delay, func() { a.fire(token) })
	return true
}

// Complete is called by the fire callback. It reports whether token belongs
// to the outstanding reseed and, if so, clears pending.
func (a *AutoReset) Complete(token uint64) bool {
	if !a.pending || token != a.token {
		return false
	}
	a.pending = false
	a.timer = nil
	return true
}

// Cancel drops an outstanding reseed. It reports whether one was pending.
func (a *AutoReset) Cancel() bool {
	if !a.pending {
		return false
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.token++
	a.pending = false
	a.timer = nil
	return true
}
