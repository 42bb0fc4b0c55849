package session

import (
	"sync"
	"time"
)

// manualClock only fires timers when told to.
type manualClock struct {
	mu         sync.Mutex
	timers     []*manualTimer
	scheduled  int
	ignoreStop bool
}

type manualTimer struct {
	clock   *manualClock
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, delay: d, f: f}
	c.timers = append(c.timers, t)
	c.scheduled++
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// FireAll runs every outstanding timer and returns how many ran.
func (c *manualClock) FireAll() int {
	c.mu.Lock()
	var due []*manualTimer
	for _, t := range c.timers {
		if t.fired || (t.stopped && !c.ignoreStop) {
			continue
		}
		t.fired = true
		due = append(due, t)
	}
	c.timers = nil
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (c *manualClock) Scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scheduled
}

func (c *manualClock) LastDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return 0
	}
	return c.timers[len(c.timers)-1].delay
}
