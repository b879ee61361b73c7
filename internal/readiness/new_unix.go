// ABOUTME: Platform default waiter selection (unix)
// ABOUTME: Unix platforms get the poll-based waiter
//go:build unix

package readiness

import "time"

// New returns the platform's default waiter.
func New(interval time.Duration) (Waiter, error) {
	return NewPollWaiter(interval)
}
