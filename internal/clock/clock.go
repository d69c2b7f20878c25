// Package clock provides the millisecond time source of the combat engine.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/udisondev/la2go-combat/internal/model"
)

// Clock returns the current engine time in milliseconds.
type Clock interface {
	Now() model.Timestamp
}

// System is a monotonic clock counting milliseconds since it was created.
// Wall clock jumps do not affect it.
type System struct {
	start time.Time
}

// NewSystem creates a clock starting at 0.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// Now implements Clock.
func (c *System) Now() model.Timestamp {
	return model.Timestamp(time.Since(c.start).Milliseconds())
}

// Manual is a clock moved by hand. Safe for concurrent use.
type Manual struct {
	now atomic.Int64
}

// NewManual creates a manual clock set to now.
func NewManual(now model.Timestamp) *Manual {
	c := &Manual{}
	c.now.Store(int64(now))
	return c
}

// Now implements Clock.
func (c *Manual) Now() model.Timestamp {
	return model.Timestamp(c.now.Load())
}

// Set moves the clock to now.
func (c *Manual) Set(now model.Timestamp) {
	c.now.Store(int64(now))
}

// Advance moves the clock forward by d and returns the new time.
func (c *Manual) Advance(d time.Duration) model.Timestamp {
	return model.Timestamp(c.now.Add(d.Milliseconds()))
}
