package section

import (
	"sync"
	"time"
)

// NumberSource hands out section numbers.
type NumberSource interface {
	Next() int64
}

// ClockNumbers yields wall-clock epoch milliseconds. When the clock has not
// advanced past the previous value (two creations in the same millisecond, or
// the clock stepping backwards) the previous value plus one is returned, so
// numbers stay unique and increasing within a process.
type ClockNumbers struct {
	mu   sync.Mutex
	last int64
	Now  func() time.Time // nil means time.Now
}

// NewClockNumbers creates a ClockNumbers backed by time.Now.
func NewClockNumbers() *ClockNumbers {
	return &ClockNumbers{}
}

// Next implements NumberSource.
func (c *ClockNumbers) Next() int64 {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	ms := now().UnixMilli()

	c.mu.Lock()
	defer c.mu.Unlock()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}

// Seed makes subsequent numbers strictly greater than n. Used after loading
// persisted sections whose numbers may be ahead of the local clock.
func (c *ClockNumbers) Seed(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > c.last {
		c.last = n
	}
}
