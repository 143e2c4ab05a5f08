// Package seq provides the global monotonic sequence counter.
//
// Every stored record is stamped with a strictly increasing seq id from a
// single process-wide counter. Recency is derived from seq ids only; the
// store never consults the wall clock, so replaying the same operations
// yields the same ordering.
package seq

import "sync/atomic"

// Counter issues strictly increasing int64 sequence numbers. Safe for
// concurrent use, though the store's single-writer design means only one
// goroutine typically calls Next.
type Counter struct {
	n atomic.Int64
}

// New returns a counter starting at 0.
func New() *Counter {
	return &Counter{}
}

// NewAt returns a counter resuming from start. The store seeds this with
// the highest persisted seq id so monotonicity survives restarts.
func NewAt(start int64) *Counter {
	c := &Counter{}
	c.n.Store(start)
	return c
}

// Next returns the next sequence number. Each call returns a unique,
// increasing value.
func (c *Counter) Next() int64 {
	return c.n.Add(1)
}

// Current returns the last issued sequence number without incrementing.
func (c *Counter) Current() int64 {
	return c.n.Load()
}
