// ABOUTME: Thread-safe circular buffer of float32 samples
// ABOUTME: Hands audio from the playback loop to a pull-based backend
package device

import "sync"

// ring is a fixed-capacity circular sample buffer. The playback loop writes
// into it and the backend's reader goroutine drains it, so it is the one
// place in the device layer that needs a lock.
type ring struct {
	buf      []float32
	readPos  int
	writePos int
	count    int
	mu       sync.Mutex
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]float32, capacity)}
}

// write copies as many samples as fit and returns how many were taken.
func (r *ring) write(samples []float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for written < len(samples) && r.count < len(r.buf) {
		r.buf[r.writePos] = samples[written]
		r.writePos = (r.writePos + 1) % len(r.buf)
		r.count++
		written++
	}
	return written
}

// read fills dst from the buffer and zero-fills the remainder if it runs dry.
func (r *ring) read(dst []float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	read := 0
	for read < len(dst) && r.count > 0 {
		dst[read] = r.buf[r.readPos]
		r.readPos = (r.readPos + 1) % len(r.buf)
		r.count--
		read++
	}
	for i := read; i < len(dst); i++ {
		dst[i] = 0
	}
	return read
}

// free returns the number of samples that can be written without dropping.
func (r *ring) free() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf) - r.count
}

// used returns the number of buffered samples.
func (r *ring) used() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
