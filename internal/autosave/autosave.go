// Package autosave drives persistence from two triggers: a debounce that
// coalesces bursts of edits into one save, and an interval that saves only
// while there are unsaved changes.
//
// At most one debounce timer and one interval timer are outstanding. Each
// Trigger replaces the pending debounce; each Start replaces the running
// interval.
package autosave

import (
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/quire/internal/clock"
)

const (
	// DefaultDelay is the debounce delay.
	DefaultDelay = 300 * time.Millisecond

	// DefaultInterval is the interval period used when Start is given zero.
	DefaultInterval = 30 * time.Second
)

// SaveFunc persists the current document.
type SaveFunc func() error

// DirtyFunc reports whether there are unsaved changes.
type DirtyFunc func() bool

// Scheduler owns the debounce and interval timers.
//
// Callbacks run on the clock's goroutine without the scheduler's lock held,
// so save may call back into the scheduler.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Scheduler struct {
	clock  clock.Clock
	save   SaveFunc
	dirty  DirtyFunc
	delay  time.Duration
	logger *slog.Logger

	mu          sync.Mutex
	debounce    clock.Timer
	debounceGen uint64
	interval    clock.Timer
	intervalGen uint64
	period      time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates a stopped scheduler.
func New(clk clock.Clock, save SaveFunc, dirty DirtyFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:  clk,
		save:   save,
		dirty:  dirty,
		delay:  DefaultDelay,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trigger schedules a save after the debounce delay, replacing any pending
// debounce.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounceGen++
	gen := s.debounceGen
	s.debounce = s.clock.AfterFunc(s.delay, func() { s.fireDebounce(gen) })
}

// Cancel drops a pending debounce. Reports whether one was pending.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelDebounceLocked()
}

// Start runs the interval trigger with period, replacing any running
// interval. A non-positive period uses DefaultInterval.
func (s *Scheduler) Start(period time.Duration) {
	if period <= 0 {
		period = DefaultInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopIntervalLocked()
	s.intervalGen++
	gen := s.intervalGen
	s.period = period
	s.interval = s.clock.Every(period, func() { s.fireInterval(gen) })

	s.logger.Debug("autosave interval started", "period", period)
}

// Stop halts the interval trigger and drops a pending debounce. Safe to
// call when not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelDebounceLocked()
	if s.stopIntervalLocked() {
		s.logger.Debug("autosave interval stopped")
	}
}

// Running reports whether the interval trigger is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval != nil
}

// Pending reports whether a debounced save is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debounce != nil
}

// Period returns the running interval period, or zero when stopped.
func (s *Scheduler) Period() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.interval == nil {
		return 0
	}
	return s.period
}

func (s *Scheduler) fireDebounce(gen uint64) {
	s.mu.Lock()
	if gen != s.debounceGen || s.debounce == nil {
		s.mu.Unlock()
		return
	}
	s.debounce = nil
	s.mu.Unlock()

	s.run("debounce")
}

func (s *Scheduler) fireInterval(gen uint64) {
	s.mu.Lock()
	stale := gen != s.intervalGen || s.interval == nil
	s.mu.Unlock()
	if stale || !s.dirty() {
		return
	}

	s.run("interval")
}

func (s *Scheduler) run(trigger string) {
	if err := s.save(); err != nil {
		s.logger.Error("autosave failed", "trigger", trigger, "error", err)
		return
	}
	s.logger.Debug("autosaved", "trigger", trigger)
}

func (s *Scheduler) cancelDebounceLocked() bool {
	if s.debounce == nil {
		return false
	}
	s.debounce.Stop()
	s.debounce = nil
	s.debounceGen++
	return true
}

func (s *Scheduler) stopIntervalLocked() bool {
	if s.interval == nil {
		return false
	}
	s.interval.Stop()
	s.interval = nil
	s.intervalGen++
	s.period = 0
	return true
}
