// ABOUTME: Readiness-driven playback loop
// ABOUTME: Waits for the device, sizes each write, and advances the cursor
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/steadytone/steadytone-go/internal/device"
	"github.com/steadytone/steadytone-go/internal/readiness"
	"github.com/steadytone/steadytone-go/internal/source"
)

// Config wires the engine's collaborators together.
type Config struct {
	Session  device.Session
	Waiter   readiness.Waiter
	Source   source.Source
	Channels int
	// StagingFrames is the capacity of the application-side staging buffer.
	StagingFrames int
}

// Engine owns the staging buffer and pending cursor and drives the single
// wait → classify → query → write → advance flow. It runs on one goroutine;
// only the stat counters may be read concurrently.
type Engine struct {
	session  device.Session
	waiter   readiness.Waiter
	source   source.Source
	channels int

	staging   []float32
	offset    int // frames already written out of the staged block
	remaining int // staged frames not yet accepted by the device
	eof       bool

	framesWritten atomic.Int64
	refills       atomic.Int64
	underruns     atomic.Int64
	suspends      atomic.Int64
	shortWrites   atomic.Int64
}

// Stats is a point-in-time snapshot of the engine counters.
type Stats struct {
	FramesWritten int64
	Refills       int64
	Underruns     int64
	Suspends      int64
	ShortWrites   int64
}

// New creates an engine. StagingFrames defaults to 8192 frames.
func New(cfg Config) *Engine {
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.StagingFrames <= 0 {
		cfg.StagingFrames = 8192
	}

	return &Engine{
		session:  cfg.Session,
		waiter:   cfg.Waiter,
		source:   cfg.Source,
		channels: cfg.Channels,
		staging:  make([]float32, cfg.StagingFrames*cfg.Channels),
	}
}

// Run plays until the source ends, shutdown is requested, or a fatal device
// error occurs. Frames reach the device in generation order; a recovery cycle
// never rewinds or discards staged data.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if e.remaining == 0 {
			if err := e.refill(); err != nil {
				return err
			}
			if e.remaining == 0 {
				// Source exhausted: let queued audio play out.
				return e.finish()
			}
		}

		err := e.waiter.Wait(ctx, e.session.Descriptors())
		if errors.Is(err, readiness.ErrShutdown) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("wait for readiness: %w", err)
		}

		if err := e.onWritable(); err != nil {
			return err
		}
	}
}

// refill regenerates the staging buffer and resets the cursor. The source
// keeps its own phase/decoder state, so consecutive blocks join seamlessly.
func (e *Engine) refill() error {
	if e.eof {
		return nil
	}

	n, err := e.source.Read(e.staging)
	if err != nil && err != io.EOF {
		return fmt.Errorf("source read: %w", err)
	}
	if err == io.EOF {
		e.eof = true
	}
	if n%e.channels != 0 {
		// Trim a torn frame rather than writing misaligned samples.
		n -= n % e.channels
	}

	e.offset = 0
	e.remaining = n / e.channels
	e.refills.Add(1)

	if e.remaining == 0 && !e.eof {
		return errors.New("source produced no data")
	}
	return nil
}

// onWritable performs one iteration's worth of device I/O. Fault
// classification runs before and during the write with identical handling;
// when a fault is detected, recovery consumes the iteration and the cursor
// stays put.
func (e *Engine) onWritable() error {
	if st := e.session.State(); !st.Ok() {
		return e.recover(st.Fault, st.Err)
	}

	avail := e.session.Avail()
	if !avail.Ok() {
		return e.recover(avail.Fault, avail.Err)
	}

	n := min(avail.Frames, e.remaining)
	if n <= 0 {
		// Nothing writable right now; not an error, the next readiness
		// signal re-drives us.
		return nil
	}

	res := e.session.Write(e.staging[e.offset*e.channels : (e.offset+n)*e.channels])
	if !res.Ok() {
		return e.recover(res.Fault, res.Err)
	}

	// The device may accept fewer frames than requested. Advance by what it
	// took; the rest goes out on a later iteration.
	if res.Frames < n {
		e.shortWrites.Add(1)
	}
	e.offset += res.Frames
	e.remaining -= res.Frames
	e.framesWritten.Add(int64(res.Frames))

	return nil
}

// finish drains the device after the source ends.
func (e *Engine) finish() error {
	if err := e.session.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the engine counters. Safe to call from other
// goroutines while the loop runs.
func (e *Engine) Stats() Stats {
	return Stats{
		FramesWritten: e.framesWritten.Load(),
		Refills:       e.refills.Load(),
		Underruns:     e.underruns.Load(),
		Suspends:      e.suspends.Load(),
		ShortWrites:   e.shortWrites.Load(),
	}
}
