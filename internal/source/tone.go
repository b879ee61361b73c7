// ABOUTME: Sine tone source with explicit phase state
// ABOUTME: Produces phase-continuous blocks across arbitrary read boundaries
package source

import "math"

const toneGain = 0.5

// Tone generates a mono sine wave. The phase accumulator counts samples and
// wraps at the sample rate so long runs never lose float precision; it
// belongs to the generator alone and survives every refill.
type Tone struct {
	phase float64
	freq  float64
	rate  int
}

// NewTone creates a generator for freq Hz at the given sample rate.
func NewTone(freq float64, rate int) *Tone {
	return &Tone{freq: freq, rate: rate}
}

// Read fills samples with the next block of the waveform. It never fails and
// always produces len(samples) samples.
func (t *Tone) Read(samples []float32) (int, error) {
	for i := range samples {
		samples[i] = float32(toneGain * math.Sin(t.phase*2*math.Pi*t.freq/float64(t.rate)))
		t.phase++
		if t.phase >= float64(t.rate) {
			t.phase -= float64(t.rate)
		}
	}
	return len(samples), nil
}

func (t *Tone) SampleRate() int { return t.rate }
func (t *Tone) Channels() int   { return 1 }
func (t *Tone) Close() error    { return nil }
