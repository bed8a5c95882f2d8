package mocks

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// FixedClock is a settable usecase.Clock.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock returns a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// Now returns the frozen time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// SequenceIDGenerator yields "attempt-1", "attempt-2", ...
type SequenceIDGenerator struct {
	n atomic.Int64
}

// Generate returns the next id.
func (g *SequenceIDGenerator) Generate() string {
	return fmt.Sprintf("attempt-%d", g.n.Add(1))
}
