// ABOUTME: Tests for player orchestration helpers
// ABOUTME: Covers config defaults and source labeling
package app

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	p := New(Config{})

	if p.config.PeriodFrames != 1024 {
		t.Errorf("expected default period of 1024 frames, got %d", p.config.PeriodFrames)
	}
	if p.config.BufferFrames != 4096 {
		t.Errorf("expected default buffer of 4 periods, got %d", p.config.BufferFrames)
	}
	if p.playerID == "" {
		t.Error("player must get a unique ID")
	}
}

func TestPlayerIDsAreUnique(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	if a.playerID == b.playerID {
		t.Error("two players must not share an ID")
	}
}

func TestSourceLabel(t *testing.T) {
	tone := New(Config{Frequency: 440})
	if got := tone.sourceLabel(); got != "440.0 Hz tone" {
		t.Errorf("expected tone label, got %q", got)
	}

	file := New(Config{File: "song.flac"})
	if got := file.sourceLabel(); got != "song.flac" {
		t.Errorf("expected file path label, got %q", got)
	}
}

func TestPeriodInterval(t *testing.T) {
	if got := periodInterval(1024, 44100); got <= 0 || got > 100*time.Millisecond {
		t.Errorf("unexpected period interval: %v", got)
	}
	// ~23.2ms for 1024 frames at 44.1kHz
	want := time.Duration(1024) * time.Second / 44100
	if got := periodInterval(1024, 44100); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := periodInterval(1024, 0); got != 20*time.Millisecond {
		t.Errorf("zero rate should fall back to 20ms, got %v", got)
	}
}
