// ABOUTME: poll(2)-based readiness waiter for descriptor-backed sessions
// ABOUTME: Retries EINTR transparently and wakes on shutdown via a self-pipe
//go:build unix

package readiness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/steadytone/steadytone-go/internal/device"
)

// PollWaiter blocks in poll(2) on the session's readiness descriptors plus an
// internal wake pipe. Canceling the context writes to the pipe, so a blocked
// Wait returns ErrShutdown instead of hanging until the device signals.
type PollWaiter struct {
	wakeR, wakeW int
	interval     time.Duration

	mu     sync.Mutex
	closed bool
}

// NewPollWaiter creates a poll-based waiter. interval is the pacing fallback
// used when the readiness set is empty.
func NewPollWaiter(interval time.Duration) (*PollWaiter, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, fmt.Errorf("failed to create wake pipe: %w", err)
	}
	return &PollWaiter{wakeR: fds[0], wakeW: fds[1], interval: interval}, nil
}

// Wait blocks until a descriptor in set becomes ready. A signal-interrupted
// poll is retried transparently; callers never see EINTR.
func (w *PollWaiter) Wait(ctx context.Context, set []device.Descriptor) error {
	if ctx.Err() != nil {
		return ErrShutdown
	}

	stop := context.AfterFunc(ctx, w.wake)
	defer stop()

	pfds := make([]unix.PollFd, 0, len(set)+1)
	pfds = append(pfds, unix.PollFd{Fd: int32(w.wakeR), Events: unix.POLLIN})
	for _, d := range set {
		pfds = append(pfds, unix.PollFd{Fd: int32(d.Fd), Events: events(d.Interest)})
	}

	// With no descriptors to watch, fall back to pacing by interval; the
	// wake pipe still interrupts the poll on shutdown.
	timeout := -1
	if len(set) == 0 {
		timeout = int(w.interval.Milliseconds())
	}

	for {
		_, err := unix.Poll(pfds, timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll failed: %w", err)
		}
		if pfds[0].Revents&unix.POLLIN != 0 {
			w.drainWake()
			return ErrShutdown
		}
		// A zero-event return means the pacing interval elapsed; treat it
		// as ready so the loop re-checks device state and availability.
		return nil
	}
}

// wake unblocks a pending poll.
func (w *PollWaiter) wake() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		_, _ = unix.Write(w.wakeW, []byte{1})
	}
}

func (w *PollWaiter) drainWake() {
	var buf [16]byte
	_, _ = unix.Read(w.wakeR, buf[:])
}

func (w *PollWaiter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	_ = unix.Close(w.wakeR)
	_ = unix.Close(w.wakeW)
	return nil
}

// events translates session interest bits into poll event flags.
func events(i device.Interest) int16 {
	var ev int16
	if i&device.Readable != 0 {
		ev |= unix.POLLIN
	}
	if i&device.Writable != 0 {
		ev |= unix.POLLOUT
	}
	if i&device.Error != 0 {
		ev |= unix.POLLERR
	}
	return ev
}
