// ABOUTME: Audio source abstraction feeding the playback engine
// ABOUTME: Selects between the tone generator and file-backed decoders
package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source produces interleaved float32 PCM frames. Read fills samples (whole
// frames, Channels() samples each) and returns the sample count actually
// produced; io.EOF signals the end of a finite source. Sources are stateful
// and owned by a single reader.
type Source interface {
	Read(samples []float32) (int, error)
	SampleRate() int
	Channels() int
	Close() error
}

// Config selects and parameterizes a source.
type Config struct {
	Path       string  // empty means tone generator
	Loop       bool    // restart file sources at EOF
	SampleRate int     // tone generator rate
	Frequency  float64 // tone generator frequency in Hz
}

// New creates a source from a file path, or the tone generator when the path
// is empty.
func New(cfg Config) (Source, error) {
	if cfg.Path == "" {
		return NewTone(cfg.Frequency, cfg.SampleRate), nil
	}

	switch ext := strings.ToLower(filepath.Ext(cfg.Path)); ext {
	case ".mp3":
		return NewMP3(cfg.Path, cfg.Loop)
	case ".flac":
		return NewFLAC(cfg.Path, cfg.Loop)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .flac)", ext)
	}
}
