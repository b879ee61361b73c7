// ABOUTME: Platform default waiter selection (non-unix)
// ABOUTME: Falls back to interval pacing where poll(2) is unavailable
//go:build !unix

package readiness

import "time"

// New returns the platform's default waiter.
func New(interval time.Duration) (Waiter, error) {
	return NewTickWaiter(interval), nil
}
