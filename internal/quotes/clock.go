package quotes

import "sync/atomic"

// Clock is a monotonic logical clock. Values are only comparable with other
// values of the same logical domain and carry no wall-clock meaning.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the clock value without advancing it.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// Observe moves the clock forward to seen if seen is ahead of it, so that
// every later Next is strictly greater than any observed timestamp.
func (c *Clock) Observe(seen int64) {
	for {
		cur := c.seq.Load()
		if seen <= cur {
			return
		}
		if c.seq.CompareAndSwap(cur, seen) {
			return
		}
	}
}
