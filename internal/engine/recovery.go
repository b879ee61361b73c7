// ABOUTME: Fault recovery state machine for classified device faults
// ABOUTME: Drives prepare/resume and decides what is terminal
package engine

import (
	"errors"
	"fmt"
	"log"

	"github.com/steadytone/steadytone-go/internal/device"
)

// recover transitions the device back to a writable state after a classified
// fault. On success the engine is back in the normal state and the next
// readiness signal retries the write; staged data is untouched either way.
//
// Underrun: the device ring ran dry; re-prepare the stream.
// Suspended: try to resume; if the device reports resume is not possible,
// fall through to the same prepare path as underrun.
// Anything else is terminal.
func (e *Engine) recover(fault device.Fault, cause error) error {
	switch fault {
	case device.FaultUnderrun:
		e.underruns.Add(1)
		log.Printf("Device underrun, re-preparing stream")
		if err := e.session.Prepare(); err != nil {
			return fmt.Errorf("underrun recovery failed: %w", err)
		}
		return nil

	case device.FaultSuspended:
		e.suspends.Add(1)
		log.Printf("Device suspended, attempting resume")
		resumed, err := e.session.Resume()
		if err != nil {
			return fmt.Errorf("suspend recovery failed: %w", err)
		}
		if resumed {
			return nil
		}
		log.Printf("Resume not possible, re-preparing stream")
		if err := e.session.Prepare(); err != nil {
			return fmt.Errorf("suspend recovery failed: %w", err)
		}
		return nil

	case device.FaultFatal:
		if cause == nil {
			cause = errors.New("unclassified device error")
		}
		return fmt.Errorf("device failure: %w", cause)

	default:
		return nil
	}
}
