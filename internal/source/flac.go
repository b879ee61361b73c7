// ABOUTME: FLAC file source decoding to float32 PCM
// ABOUTME: Buffers partial frames so no sample is dropped across reads
package source

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mewkiz/flac"
)

// FLAC decodes a FLAC file frame by frame. Decoded frames rarely line up
// with the caller's block size, so leftover samples are carried into the
// next Read rather than discarded.
type FLAC struct {
	file     *os.File
	stream   *flac.Stream
	loop     bool
	channels int
	rate     int
	scale    float32
	leftover []float32
}

// NewFLAC opens a FLAC file source.
func NewFLAC(path string, loop bool) (*FLAC, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	log.Printf("Loaded FLAC: %s (%d Hz, %d channels, %d-bit)",
		path, info.SampleRate, info.NChannels, info.BitsPerSample)

	return &FLAC{
		file:     f,
		stream:   stream,
		loop:     loop,
		channels: int(info.NChannels),
		rate:     int(info.SampleRate),
		scale:    float32(int64(1) << (info.BitsPerSample - 1)),
	}, nil
}

func (s *FLAC) Read(samples []float32) (int, error) {
	filled := 0

	for filled < len(samples) {
		if len(s.leftover) > 0 {
			n := copy(samples[filled:], s.leftover)
			s.leftover = s.leftover[n:]
			filled += n
			continue
		}

		frame, err := s.stream.ParseNext()
		if err == io.EOF {
			if !s.loop {
				return filled, io.EOF
			}
			if err := s.rewind(); err != nil {
				return filled, err
			}
			continue
		}
		if err != nil {
			return filled, fmt.Errorf("flac decode: %w", err)
		}

		// Interleave the frame's subframes into the leftover queue.
		block := int(frame.BlockSize)
		s.leftover = make([]float32, 0, block*s.channels)
		for i := 0; i < block; i++ {
			for ch := 0; ch < s.channels; ch++ {
				s.leftover = append(s.leftover, float32(frame.Subframes[ch].Samples[i])/s.scale)
			}
		}
	}

	return filled, nil
}

// rewind reopens the stream at the start of the file.
func (s *FLAC) rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to start: %w", err)
	}
	stream, err := flac.New(s.file)
	if err != nil {
		return fmt.Errorf("failed to restart stream: %w", err)
	}
	s.stream = stream
	return nil
}

func (s *FLAC) SampleRate() int { return s.rate }
func (s *FLAC) Channels() int   { return s.channels }
func (s *FLAC) Close() error    { return s.file.Close() }
