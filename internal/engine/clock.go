package engine

import "sync/atomic"

// Clock stamps runs and draws with a strictly increasing seq.
//
// Ledger queries order by seq, never by wall-clock time, so a replay reads
// draws back in the order they were made. Safe for concurrent use, though a
// Runner only calls it from the goroutine executing Run.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at start. Used to continue numbering
// after the highest seq already in a ledger.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
