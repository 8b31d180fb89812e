package testutil

import (
	"fmt"
	"sync"
)

// Counter is a thread-safe monotonic logical counter for tests.
// The first call to Next returns 1.
type Counter struct {
	mu sync.Mutex
	n  int64
}

// Next increments and returns the counter.
func (c *Counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

// Current returns the counter without incrementing it.
func (c *Counter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset sets the counter back to 0.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}

// SequenceGenerator yields UUID-shaped IDs numbered from 1:
//
//	00000000-0000-0000-0000-000000000001
//	00000000-0000-0000-0000-000000000002
//
// The same sequence of calls always produces the same IDs, which keeps
// catalog contents and golden snapshots reproducible.
//
// Implements store.RunIDGenerator. Safe for concurrent use.
type SequenceGenerator struct {
	counter Counter
}

// NewSequenceGenerator returns a generator starting at 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

// Generate returns the next ID in the sequence.
func (g *SequenceGenerator) Generate() string {
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", g.counter.Next())
}

// Reset restarts the sequence at 1.
func (g *SequenceGenerator) Reset() {
	g.counter.Reset()
}
