// ABOUTME: Device session contract shared by all playback backends
// ABOUTME: Defines fault classification, results, and readiness descriptors
package device

import (
	"fmt"
)

// Fault classifies the outcome of a device call. Every session call maps to
// exactly one of these; there are no raw error codes at the call sites.
type Fault int

const (
	// FaultNone means the call succeeded.
	FaultNone Fault = iota
	// FaultUnderrun means the device buffer ran dry (XRUN) and the stream
	// must be re-prepared before more data is accepted.
	FaultUnderrun
	// FaultSuspended means the device entered a suspended state (e.g. power
	// management) and must be resumed or re-prepared.
	FaultSuspended
	// FaultFatal means the device reported an unclassified error. Terminal.
	FaultFatal
)

// String returns the fault name for logs.
func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultUnderrun:
		return "underrun"
	case FaultSuspended:
		return "suspended"
	case FaultFatal:
		return "fatal"
	default:
		return fmt.Sprintf("fault(%d)", int(f))
	}
}

// Result is the outcome of a session call: a frame count on success, or a
// classified fault. Err carries the device-reported reason for FaultFatal.
type Result struct {
	Frames int
	Fault  Fault
	Err    error
}

// Ok reports whether the call completed without a fault.
func (r Result) Ok() bool { return r.Fault == FaultNone }

// Interest flags describe which readiness events a descriptor cares about.
type Interest int

const (
	Readable Interest = 1 << iota
	Writable
	Error
)

// Descriptor pairs a file descriptor with the events the session wants to be
// woken for. The set may change after recovery, so callers re-fetch it each
// iteration rather than caching it.
type Descriptor struct {
	Fd       int
	Interest Interest
}

// Session is an open playback device. All calls are non-blocking; a Session is
// owned by a single control flow and is not safe for concurrent use.
type Session interface {
	// State returns the current fault classification without touching the
	// data path. Frames is unused.
	State() Result
	// Avail returns how many frames the device can accept without blocking.
	Avail() Result
	// Write submits up to len(frames)/channels frames and returns how many
	// the device accepted. Short writes are normal, not an error.
	Write(frames []float32) Result
	// Prepare resets the device to a writable state after an underrun.
	Prepare() error
	// Resume attempts to leave the suspended state. (false, nil) means the
	// device cannot resume and the caller should fall back to Prepare.
	Resume() (bool, error)
	// Drain blocks until queued frames have played. Used on clean shutdown.
	Drain() error
	// Descriptors returns the current readiness set. An empty set means the
	// session has no pollable handle and the caller should pace by period.
	Descriptors() []Descriptor
	Close() error
}

// Config holds the negotiated stream parameters for opening a session.
type Config struct {
	Device       string // backend-specific device name, e.g. "default"
	SampleRate   int
	Channels     int
	PeriodFrames int
	BufferFrames int
}

// PeriodSamples returns the size of one period in samples. One frame holds
// Channels interleaved samples.
func (c Config) PeriodSamples() int { return c.PeriodFrames * c.Channels }

// Backend names a session implementation.
type Backend string

const (
	BackendALSA Backend = "alsa"
	BackendOto  Backend = "oto"
)

// Open creates a session for the named backend.
func Open(backend Backend, cfg Config) (Session, error) {
	switch backend {
	case BackendALSA:
		return openALSA(cfg)
	case BackendOto:
		return openOto(cfg)
	default:
		return nil, fmt.Errorf("unknown audio backend: %q", backend)
	}
}
