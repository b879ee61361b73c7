// ABOUTME: ALSA-backed device session using the pure Go kernel interface
// ABOUTME: Maps PCM states and errnos onto the shared fault classification
package device

import (
	"errors"
	"fmt"
	"log"
	"math"
	"syscall"

	"github.com/gen2brain/alsa"
)

// DefaultBackend is the backend used when none is selected.
func DefaultBackend() Backend { return BackendALSA }

// alsaSession drives a non-blocking ALSA playback PCM. The readiness
// descriptor it exposes is the PCM device fd with write interest, so the
// caller's poll wakes exactly when the kernel ring has room.
type alsaSession struct {
	pcm     *alsa.PCM
	cfg     Config
	scratch []byte // reused Write conversion buffer
	started bool
}

func openALSA(cfg Config) (Session, error) {
	aCfg := &alsa.Config{
		Channels:    uint32(cfg.Channels),
		Rate:        uint32(cfg.SampleRate),
		PeriodSize:  uint32(cfg.PeriodFrames),
		PeriodCount: uint32(cfg.BufferFrames / cfg.PeriodFrames),
		Format:      alsa.SNDRV_PCM_FORMAT_FLOAT_LE,
	}

	pcm, err := alsa.PcmOpenByName(cfg.Device, alsa.PCM_OUT|alsa.PCM_NONBLOCK, aCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open ALSA device %s: %w", cfg.Device, err)
	}

	log.Printf("ALSA device opened: %s, %dHz, %dch, period=%d frames, buffer=%d frames",
		cfg.Device, pcm.Rate(), pcm.Channels(), pcm.PeriodSize(), pcm.BufferSize())

	// The driver may round the buffer size; size the conversion scratch off
	// what it actually granted.
	return &alsaSession{
		pcm:     pcm,
		cfg:     cfg,
		scratch: make([]byte, 4*int(pcm.BufferSize())*int(pcm.Channels())),
	}, nil
}

// classify maps a device error onto the closed fault set. EPIPE is the
// kernel's underrun signal, ESTRPIPE its suspend signal; everything else
// that is not a transient would-block is fatal.
func classify(op string, err error) Result {
	switch {
	case err == nil:
		return Result{}
	case errors.Is(err, syscall.EPIPE):
		return Result{Fault: FaultUnderrun}
	case errors.Is(err, syscall.ESTRPIPE):
		return Result{Fault: FaultSuspended}
	case errors.Is(err, syscall.EAGAIN):
		// Device would block: zero frames accepted, not a fault.
		return Result{}
	default:
		return Result{Fault: FaultFatal, Err: fmt.Errorf("%s: %w", op, err)}
	}
}

func (s *alsaSession) State() Result {
	switch s.pcm.State() {
	case alsa.SNDRV_PCM_STATE_XRUN:
		return Result{Fault: FaultUnderrun}
	case alsa.SNDRV_PCM_STATE_SUSPENDED:
		return Result{Fault: FaultSuspended}
	case alsa.SNDRV_PCM_STATE_DISCONNECTED:
		return Result{Fault: FaultFatal, Err: fmt.Errorf("pcm state: %w", syscall.ENODEV)}
	default:
		return Result{}
	}
}

func (s *alsaSession) Avail() Result {
	delay, err := s.pcm.Delay()
	if r := classify("pcm delay", err); !r.Ok() {
		return r
	}

	avail := int(s.pcm.BufferSize()) - delay
	if avail < 0 {
		avail = 0
	}
	if size := int(s.pcm.BufferSize()); avail > size {
		avail = size
	}

	return Result{Frames: avail}
}

func (s *alsaSession) Write(frames []float32) Result {
	if need := 4 * len(frames); need > len(s.scratch) {
		s.scratch = make([]byte, need)
	}
	n := copyFloat32LE(s.scratch, frames)

	written, err := s.pcm.Write(s.scratch[:n])
	if r := classify("pcm write", err); !r.Ok() {
		return r
	}
	s.started = true

	return Result{Frames: written}
}

func (s *alsaSession) Prepare() error {
	if err := s.pcm.Prepare(); err != nil {
		return fmt.Errorf("pcm prepare: %w", err)
	}
	return nil
}

func (s *alsaSession) Resume() (bool, error) {
	err := s.pcm.Resume()
	if err == nil {
		return true, nil
	}
	// ENOSYS means the driver cannot resume from suspend; the stream has
	// to be re-prepared instead. EAGAIN means the hardware is not back
	// yet, which we treat the same way rather than spinning on it.
	if errors.Is(err, syscall.ENOSYS) || errors.Is(err, syscall.EAGAIN) {
		return false, nil
	}
	return false, fmt.Errorf("pcm resume: %w", err)
}

func (s *alsaSession) Drain() error {
	if !s.started {
		return nil
	}
	if err := s.pcm.Drain(); err != nil {
		return fmt.Errorf("pcm drain: %w", err)
	}
	return nil
}

func (s *alsaSession) Descriptors() []Descriptor {
	return []Descriptor{{Fd: int(s.pcm.Fd()), Interest: Writable | Error}}
}

func (s *alsaSession) Close() error {
	return s.pcm.Close()
}

// copyFloat32LE encodes samples into dst as little-endian float32 and
// returns the byte count.
func copyFloat32LE(dst []byte, samples []float32) int {
	n := 0
	for _, v := range samples {
		bits := math.Float32bits(v)
		dst[n] = byte(bits)
		dst[n+1] = byte(bits >> 8)
		dst[n+2] = byte(bits >> 16)
		dst[n+3] = byte(bits >> 24)
		n += 4
	}
	return n
}
