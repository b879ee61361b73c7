// ABOUTME: Portable playback session backed by the oto library
// ABOUTME: Bridges the push-style session contract onto oto's pull model
package device

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoSession adapts oto's reader-driven playback to the Session contract.
// Frames land in a ring buffer that oto's player goroutine drains; available
// space is simply the free room in the ring. The device itself recovers from
// underruns internally (the reader feeds silence), so this backend never
// reports a fault and Prepare/Resume are no-ops.
type otoSession struct {
	otoCtx *oto.Context
	player *oto.Player
	ring   *ring
	cfg    Config
}

func openOto(cfg Config) (Session, error) {
	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	s := &otoSession{
		otoCtx: otoCtx,
		ring:   newRing(cfg.BufferFrames * cfg.Channels),
		cfg:    cfg,
	}

	s.player = otoCtx.NewPlayer(&ringReader{ring: s.ring})
	s.player.Play()

	log.Printf("Oto playback started: %dHz, %d channels, buffer=%d frames",
		cfg.SampleRate, cfg.Channels, cfg.BufferFrames)

	return s, nil
}

func (s *otoSession) State() Result { return Result{} }

func (s *otoSession) Avail() Result {
	return Result{Frames: s.ring.free() / s.cfg.Channels}
}

func (s *otoSession) Write(frames []float32) Result {
	// Only whole frames go into the ring; a torn frame would shift every
	// later sample into the wrong channel.
	room := (s.ring.free() / s.cfg.Channels) * s.cfg.Channels
	if room < len(frames) {
		frames = frames[:room]
	}
	n := s.ring.write(frames)
	return Result{Frames: n / s.cfg.Channels}
}

func (s *otoSession) Prepare() error { return nil }

func (s *otoSession) Resume() (bool, error) { return true, nil }

// Drain waits for the ring to empty so queued audio actually plays out.
func (s *otoSession) Drain() error {
	deadline := time.Now().Add(2 * time.Second)
	for s.ring.used() > 0 {
		if time.Now().After(deadline) {
			return fmt.Errorf("drain timed out with %d samples queued", s.ring.used())
		}
		time.Sleep(10 * time.Millisecond)
	}
	// One extra period so the last pull finishes playing.
	time.Sleep(time.Duration(s.cfg.PeriodFrames) * time.Second / time.Duration(s.cfg.SampleRate))
	return nil
}

// Descriptors is empty: oto exposes no pollable handle, so the waiter paces
// the loop by period interval instead.
func (s *otoSession) Descriptors() []Descriptor { return nil }

func (s *otoSession) Close() error {
	if s.player != nil {
		if err := s.player.Close(); err != nil {
			return fmt.Errorf("failed to close oto player: %w", err)
		}
		s.player = nil
	}
	if s.otoCtx != nil {
		s.otoCtx.Suspend()
		s.otoCtx = nil
	}
	return nil
}

// ringReader feeds oto from the session ring, substituting silence when the
// ring runs dry so playback never blocks the device goroutine.
type ringReader struct {
	ring    *ring
	scratch []float32
}

func (r *ringReader) Read(p []byte) (int, error) {
	samples := len(p) / 4
	if samples == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	if len(r.scratch) < samples {
		r.scratch = make([]float32, samples)
	}
	buf := r.scratch[:samples]
	r.ring.read(buf)

	for i, v := range buf {
		bits := math.Float32bits(v)
		p[i*4] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}

	return samples * 4, nil
}
