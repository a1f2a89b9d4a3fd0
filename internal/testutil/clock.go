package testutil

import (
	"sync"
	"time"

	"github.com/roach88/quire/internal/clock"
)

// ManualClock is a clock.Clock whose time only moves when Advance is called.
//
// Scheduled callbacks fire synchronously inside Advance, in due-time order
// (ties broken by scheduling order). Callbacks run without the clock's lock
// held, so they may schedule or stop timers.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTimer
}

var _ clock.Clock = (*ManualClock)(nil)

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once when the clock reaches now+d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.schedule(d, 0, f)
}

// Every schedules f to run every d until stopped.
func (c *ManualClock) Every(d time.Duration, f func()) clock.Timer {
	return c.schedule(d, d, f)
}

func (c *ManualClock) schedule(d, every time.Duration, f func()) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now.Add(d), every: every, f: f, seq: c.seq}
	c.tasks = append(c.tasks, t)
	return t
}

// Advance moves the clock forward by d, firing every callback that becomes
// due along the way.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.at
		if next.every > 0 {
			next.at = next.at.Add(next.every)
		} else {
			next.done = true
			c.remove(next)
		}
		f := next.f
		c.mu.Unlock()
		f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Pending returns the number of scheduled callbacks that have not fired
// (one-shot) or been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// nextDue returns the earliest task due at or before target. Caller holds mu.
func (c *ManualClock) nextDue(target time.Time) *manualTimer {
	var next *manualTimer
	for _, t := range c.tasks {
		if t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

// remove drops t from the task list. Caller holds mu.
func (c *ManualClock) remove(t *manualTimer) {
	for i, task := range c.tasks {
		if task == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}

type manualTimer struct {
	clock *ManualClock
	at    time.Time
	every time.Duration
	f     func()
	seq   int
	done  bool
}

// Stop cancels the timer. Returns false if it already fired or was stopped.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.clock.remove(t)
	return true
}
