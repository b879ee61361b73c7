// ABOUTME: Entry point for the Steadytone player
// ABOUTME: Parses CLI flags and starts the playback application
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/steadytone/steadytone-go/internal/app"
	"github.com/steadytone/steadytone-go/internal/version"
)

var (
	backend    = flag.String("backend", "", "Audio backend: alsa or oto (default: platform default)")
	deviceName = flag.String("device", "hw:0,0", "ALSA device name")
	rate       = flag.Int("rate", 44100, "Sample rate in Hz for the tone generator")
	freq       = flag.Float64("freq", 440, "Tone frequency in Hz")
	file       = flag.String("file", "", "Play an .mp3 or .flac file instead of the tone")
	loop       = flag.Bool("loop", false, "Restart file playback at end of file")
	logFile    = flag.String("log-file", "steadytone.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
		log.Printf("Starting %s %s", version.Product, version.Version)
	}

	player := app.New(app.Config{
		Backend:    *backend,
		Device:     *deviceName,
		SampleRate: *rate,
		Frequency:  *freq,
		File:       *file,
		Loop:       *loop,
		UseTUI:     useTUI,
	})

	// A first signal asks for a clean stop; the playback loop drains and
	// exits on its next iteration.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received %v, shutting down", sig)
		player.Stop()
	}()

	if err := player.Start(); err != nil {
		log.Printf("Playback failed: %v", err)
		os.Exit(1)
	}
}
