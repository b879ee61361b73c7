// ABOUTME: MP3 file source decoding to float32 PCM
// ABOUTME: Optionally loops by reopening the decoder at EOF
package source

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes an MP3 file. The decoder emits 16-bit little-endian stereo;
// Read converts to float32 in [-1, 1).
type MP3 struct {
	file    *os.File
	decoder *mp3.Decoder
	loop    bool
}

// NewMP3 opens an MP3 file source.
func NewMP3(path string, loop bool) (*MP3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	log.Printf("Loaded MP3: %s (%d Hz, stereo)", path, decoder.SampleRate())

	return &MP3{file: f, decoder: decoder, loop: loop}, nil
}

func (s *MP3) Read(samples []float32) (int, error) {
	buf := make([]byte, len(samples)*2)

	n, err := s.decoder.Read(buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("mp3 decode: %w", err)
	}

	count := n / 2
	for i := 0; i < count; i++ {
		v := int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
		samples[i] = float32(v) / 32768
	}

	if err == io.EOF {
		if !s.loop {
			return count, io.EOF
		}
		if err := s.rewind(); err != nil {
			return count, err
		}
	}

	return count, nil
}

// rewind reopens the decoder at the start of the file.
func (s *MP3) rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to start: %w", err)
	}
	decoder, err := mp3.NewDecoder(s.file)
	if err != nil {
		return fmt.Errorf("failed to restart decoder: %w", err)
	}
	s.decoder = decoder
	return nil
}

func (s *MP3) SampleRate() int { return s.decoder.SampleRate() }
func (s *MP3) Channels() int   { return 2 } // go-mp3 always outputs stereo
func (s *MP3) Close() error    { return s.file.Close() }
