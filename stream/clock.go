package stream

import "sync/atomic"

// TickSource is a monotonic counter in fixed ticks, advanced outside the
// streaming loop.
type TickSource interface {
	Ticks() uint64
}

// TickPeriodMillis is the tick the firmware and host CLI drive a Clock with.
const TickPeriodMillis = 10

// Clock counts ticks. Tick is called from the timer context (interrupt
// handler or ticker goroutine) and Ticks from anywhere else. The zero value
// reads 0 and is ready to use.
type Clock struct {
	n atomic.Uint64
}

func (c *Clock) Tick() { c.n.Add(1) }

func (c *Clock) Ticks() uint64 { return c.n.Load() }
