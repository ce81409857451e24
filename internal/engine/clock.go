package engine

import (
	"sync/atomic"
	"time"
)

// Clock supplies wall-clock instants for project timestamps and split IDs.
// Implemented by SystemClock (production) and testutil.StepClock (tests).
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time in UTC with the monotonic reading stripped,
// so instants compare equal after a round trip through the project document.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Round(0)
}

// Sequence is a monotonic logical counter for ordering journal entries.
//
// Thread-safety: Sequence is safe for concurrent use (atomic operations).
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next value and increments the sequence.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the current value without incrementing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
