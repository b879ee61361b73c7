// ABOUTME: Stub for the ALSA backend on platforms without ALSA
// ABOUTME: Keeps the backend factory compilable everywhere
//go:build !linux

package device

import "fmt"

func openALSA(cfg Config) (Session, error) {
	return nil, fmt.Errorf("ALSA backend is only available on linux")
}

// DefaultBackend is the backend used when none is selected.
func DefaultBackend() Backend { return BackendOto }
