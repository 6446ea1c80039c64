package testutil

import (
	"sync"
	"time"

	"github.com/roach88/eligsim/internal/x12"
)

// Reference is the wall time used by golden payload fixtures.
var Reference = time.Date(2025, time.August, 30, 14, 5, 0, 0, time.UTC)

// FixedClock is a settable wall clock for tests.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock stopped at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// Now returns the current fixed time. Pass the method value as a
// func() time.Time clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// DeterministicControls hands out control numbers from a resettable
// sequence so the same test produces identical envelopes on every run.
//
// The first call to Next() after construction or Reset() returns the
// control numbers for start+1.
type DeterministicControls struct {
	mu    sync.Mutex
	start int64
	seq   int64
}

// NewDeterministicControls creates a control source positioned at start.
func NewDeterministicControls(start int64) *DeterministicControls {
	return &DeterministicControls{start: start, seq: start}
}

// Next advances the sequence and returns its control numbers.
func (c *DeterministicControls) Next() x12.ControlNumbers {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return x12.ControlNumbersFor(c.seq)
}

// Current returns the last issued sequence value.
func (c *DeterministicControls) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the sequence to its start.
func (c *DeterministicControls) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = c.start
}
