// ABOUTME: Tests for the tick-based waiter
// ABOUTME: Verifies pacing and shutdown behavior
package readiness

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTickWaiterPacesByInterval(t *testing.T) {
	w := NewTickWaiter(5 * time.Millisecond)
	defer w.Close()

	start := time.Now()
	if err := w.Wait(context.Background(), nil); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Wait returned after %v, before the interval elapsed", elapsed)
	}
}

func TestTickWaiterReportsShutdown(t *testing.T) {
	w := NewTickWaiter(time.Hour)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Wait(ctx, nil)
	if !errors.Is(err, ErrShutdown) {
		t.Fatalf("expected ErrShutdown, got %v", err)
	}
}
