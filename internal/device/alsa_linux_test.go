// ABOUTME: Tests for ALSA errno-to-fault classification
// ABOUTME: Covers the kernel's underrun, suspend, and would-block signals
package device

import (
	"fmt"
	"syscall"
	"testing"
)

func TestClassifyKernelErrnos(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Fault
	}{
		{"nil is normal", nil, FaultNone},
		{"EPIPE is underrun", fmt.Errorf("stream xrun: %w", syscall.EPIPE), FaultUnderrun},
		{"ESTRPIPE is suspended", fmt.Errorf("stream suspended: %w", syscall.ESTRPIPE), FaultSuspended},
		{"EAGAIN is transient", fmt.Errorf("pcm write: %w", syscall.EAGAIN), FaultNone},
		{"EBADFD is fatal", fmt.Errorf("ioctl failed: %w", syscall.EBADFD), FaultFatal},
		{"ENODEV is fatal", fmt.Errorf("device gone: %w", syscall.ENODEV), FaultFatal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := classify("test op", tc.err)
			if r.Fault != tc.want {
				t.Errorf("classify(%v): expected %v, got %v", tc.err, tc.want, r.Fault)
			}
			if tc.want == FaultFatal && r.Err == nil {
				t.Error("fatal results must carry the device-reported cause")
			}
			if tc.want != FaultFatal && r.Err != nil {
				t.Errorf("non-fatal results must not carry an error, got %v", r.Err)
			}
		})
	}
}

func TestCopyFloat32LE(t *testing.T) {
	dst := make([]byte, 8)
	n := copyFloat32LE(dst, []float32{0, 1})

	if n != 8 {
		t.Fatalf("expected 8 bytes, got %d", n)
	}
	// 0.0 encodes as zero bytes, 1.0 as 0x3f800000 little-endian.
	want := []byte{0, 0, 0, 0, 0, 0, 0x80, 0x3f}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x", i, want[i], dst[i])
		}
	}
}
