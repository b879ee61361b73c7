// ABOUTME: Main player application orchestration
// ABOUTME: Wires source, device session, waiter, engine, and UI together
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/steadytone/steadytone-go/internal/device"
	"github.com/steadytone/steadytone-go/internal/engine"
	"github.com/steadytone/steadytone-go/internal/readiness"
	"github.com/steadytone/steadytone-go/internal/source"
	"github.com/steadytone/steadytone-go/internal/ui"
)

// Config holds player configuration
type Config struct {
	Backend    string
	Device     string
	SampleRate int
	Frequency  float64
	File       string
	Loop       bool
	UseTUI     bool

	PeriodFrames int
	BufferFrames int
}

// Player represents the main player application
type Player struct {
	config   Config
	playerID string
	session  device.Session
	waiter   readiness.Waiter
	source   source.Source
	engine   *engine.Engine
	tuiProg  *tea.Program
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a new player
func New(config Config) *Player {
	ctx, cancel := context.WithCancel(context.Background())

	if config.PeriodFrames <= 0 {
		config.PeriodFrames = 1024
	}
	if config.BufferFrames <= 0 {
		config.BufferFrames = config.PeriodFrames * 4
	}

	return &Player{
		config:   config,
		playerID: uuid.New().String(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start opens the device and runs the playback loop until the source ends,
// Stop is called, or a fatal device error occurs.
func (p *Player) Start() error {
	src, err := source.New(source.Config{
		Path:       p.config.File,
		Loop:       p.config.Loop,
		SampleRate: p.config.SampleRate,
		Frequency:  p.config.Frequency,
	})
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	p.source = src

	backend := device.Backend(p.config.Backend)
	if p.config.Backend == "" {
		backend = device.DefaultBackend()
	}

	deviceCfg := device.Config{
		Device:       p.config.Device,
		SampleRate:   src.SampleRate(),
		Channels:     src.Channels(),
		PeriodFrames: p.config.PeriodFrames,
		BufferFrames: p.config.BufferFrames,
	}

	session, err := device.Open(backend, deviceCfg)
	if err != nil {
		src.Close()
		return fmt.Errorf("failed to open device: %w", err)
	}
	p.session = session

	waiter, err := readiness.New(periodInterval(p.config.PeriodFrames, src.SampleRate()))
	if err != nil {
		session.Close()
		src.Close()
		return fmt.Errorf("failed to create waiter: %w", err)
	}
	p.waiter = waiter

	p.engine = engine.New(engine.Config{
		Session:  session,
		Waiter:   waiter,
		Source:   src,
		Channels: src.Channels(),
	})

	log.Printf("Player %s starting: %s via %s", p.playerID, p.sourceLabel(), backend)

	if p.config.UseTUI {
		tuiProg, err := ui.Run()
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		p.tuiProg = tuiProg

		go func() {
			if _, err := p.tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			// Quitting the TUI stops playback too.
			p.cancel()
		}()

		go p.statusLoop(string(backend), deviceCfg)
	}

	err = p.engine.Run(p.ctx)

	p.shutdown()
	return err
}

// statusLoop pushes identity and live counters into the TUI.
func (p *Player) statusLoop(backend string, deviceCfg device.Config) {
	p.tuiProg.Send(ui.StatusMsg{
		PlayerID:   p.playerID,
		Source:     p.sourceLabel(),
		Backend:    backend,
		Device:     deviceCfg.Device,
		SampleRate: deviceCfg.SampleRate,
		Channels:   deviceCfg.Channels,
		State:      "playing",
	})

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := p.engine.Stats()
			p.tuiProg.Send(ui.StatusMsg{Stats: &stats})

		case <-p.ctx.Done():
			return
		}
	}
}

// sourceLabel names the source for logs and the TUI.
func (p *Player) sourceLabel() string {
	if p.config.File == "" {
		return fmt.Sprintf("%.1f Hz tone", p.config.Frequency)
	}
	return p.config.File
}

// Stop requests a clean shutdown of the playback loop.
func (p *Player) Stop() {
	p.cancel()
}

// shutdown releases everything Start opened.
func (p *Player) shutdown() {
	p.cancel()

	if p.waiter != nil {
		p.waiter.Close()
	}
	if p.session != nil {
		if err := p.session.Close(); err != nil {
			log.Printf("Device close error: %v", err)
		}
	}
	if p.source != nil {
		p.source.Close()
	}
	if p.tuiProg != nil {
		p.tuiProg.Quit()
	}

	stats := p.engine.Stats()
	log.Printf("Playback stopped: %d frames written, %d refills, %d underruns, %d resumes, %d short writes",
		stats.FramesWritten, stats.Refills, stats.Underruns, stats.Suspends, stats.ShortWrites)
}

// periodInterval converts a period length to wall-clock time for sessions
// without pollable descriptors.
func periodInterval(frames, rate int) time.Duration {
	if rate <= 0 {
		return 20 * time.Millisecond
	}
	return time.Duration(frames) * time.Second / time.Duration(rate)
}
