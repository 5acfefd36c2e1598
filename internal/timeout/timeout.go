// Package timeout provides a monotonic deadline tracker for cooperative
// cancellation of long-running filesystem operations. There is no signal or
// goroutine preemption: callers check the budget at directory, file, and line
// granularity, so worst-case overrun is bounded by the smallest unit between
// checks.
package timeout

import (
	"errors"
	"fmt"
	"time"
)

// ErrExpired is returned by Check once the budget is exhausted.
var ErrExpired = errors.New("timeout expired")

// Context tracks one operation's time budget against the monotonic clock.
// Once expired it stays expired. A Context is created per call and is not
// safe for concurrent use.
type Context struct {
	start   time.Time
	budget  time.Duration
	expired bool
}

// New starts a budget clock. The budget begins counting immediately.
func New(budget time.Duration) *Context {
	return &Context{start: time.Now(), budget: budget}
}

// Check returns ErrExpired (wrapped with the elapsed time) once elapsed time
// meets or exceeds the budget. Cheap enough to call once per scanned line.
func (c *Context) Check() error {
	if c.expired {
		return ErrExpired
	}
	elapsed := time.Since(c.start)
	if elapsed >= c.budget {
		c.expired = true
		return fmt.Errorf("%w after %.2fs", ErrExpired, elapsed.Seconds())
	}
	return nil
}

// IsExpired reports expiry without returning an error.
func (c *Context) IsExpired() bool {
	if c.expired {
		return true
	}
	if time.Since(c.start) >= c.budget {
		c.expired = true
	}
	return c.expired
}

// Remaining returns the unspent budget, never negative.
func (c *Context) Remaining() time.Duration {
	if c.expired {
		return 0
	}
	left := c.budget - time.Since(c.start)
	if left < 0 {
		return 0
	}
	return left
}

// Elapsed returns the time since the budget clock started.
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.start)
}
