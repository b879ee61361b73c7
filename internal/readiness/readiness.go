// ABOUTME: Readiness-wait abstraction for the playback loop
// ABOUTME: Defines the Waiter contract and a portable tick-based fallback
package readiness

import (
	"context"
	"errors"
	"time"

	"github.com/steadytone/steadytone-go/internal/device"
)

// ErrShutdown is returned from Wait when shutdown was requested instead of
// device readiness. It is the loop's signal to stop cleanly.
var ErrShutdown = errors.New("shutdown requested")

// Waiter blocks until the device is ready for more data, the pacing interval
// elapses, or shutdown is requested. It is the single suspension point of the
// playback loop.
type Waiter interface {
	Wait(ctx context.Context, set []device.Descriptor) error
	Close() error
}

// TickWaiter paces the loop on wall-clock time. It is used for sessions that
// expose no pollable descriptor (the readiness set is ignored) and on
// platforms without poll.
type TickWaiter struct {
	interval time.Duration
}

// NewTickWaiter creates a waiter that wakes every interval.
func NewTickWaiter(interval time.Duration) *TickWaiter {
	return &TickWaiter{interval: interval}
}

// Wait sleeps one interval or returns ErrShutdown when ctx is done.
func (w *TickWaiter) Wait(ctx context.Context, set []device.Descriptor) error {
	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ErrShutdown
	}
}

func (w *TickWaiter) Close() error { return nil }
