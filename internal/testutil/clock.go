package testutil

import (
	"sync"
	"time"
)

// Epoch is the default start instant for StepClock.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// StepClock provides a thread-safe, deterministic wall clock for tests.
//
// The first call to Now returns the start instant; each later call returns
// the previous instant plus step. A zero step freezes the clock.
//
// Implements engine.Clock.
type StepClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewStepClock creates a clock starting at start and advancing by step.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{start: start.UTC(), step: step}
}

// NewFrozenClock creates a clock that always returns the same instant.
func NewFrozenClock(at time.Time) *StepClock {
	return NewStepClock(at, 0)
}

// Now returns the next instant.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *StepClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock so the next call returns the start instant again.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
