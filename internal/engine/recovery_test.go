// ABOUTME: Tests for the fault recovery state machine
// ABOUTME: Covers underrun, suspend, fallback, and fatal classification
package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/steadytone/steadytone-go/internal/device"
)

func TestUnderrunPreparesBeforeNextWrite(t *testing.T) {
	sess := &fakeSession{
		availScript: []device.Result{{Fault: device.FaultUnderrun}, {Frames: 4}},
	}
	waiter := &fakeWaiter{limit: 2}
	src := &seqSource{}

	eng := newTestEngine(sess, waiter, src, 4)
	if err := eng.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if sess.prepares != 1 {
		t.Fatalf("expected exactly one prepare, got %d", sess.prepares)
	}
	// Recovery consumes the iteration: the write happens on the next one,
	// and the cursor still points at the first staged frame.
	if len(sess.writeReqs) != 1 || sess.writeReqs[0] != 4 {
		t.Fatalf("expected a single full write after recovery, got %v", sess.writeReqs)
	}
	if sess.accepted[0] != 0 {
		t.Errorf("cursor advanced during the fault iteration")
	}
}

func TestUnderrunAtWriteDoesNotAdvanceCursor(t *testing.T) {
	sess := &fakeSession{
		defaultAvail: 4,
		writeScript:  []device.Result{{Fault: device.FaultUnderrun}},
	}
	waiter := &fakeWaiter{limit: 2}

	eng := newTestEngine(sess, waiter, &seqSource{}, 4)
	if err := eng.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if sess.prepares != 1 {
		t.Fatalf("expected one prepare after write-time underrun, got %d", sess.prepares)
	}
	// Both writes must request the same frames: the faulted write consumed
	// nothing.
	if len(sess.writeReqs) != 2 || sess.writeReqs[0] != 4 || sess.writeReqs[1] != 4 {
		t.Fatalf("expected write requests [4 4], got %v", sess.writeReqs)
	}
}

func TestSuspendedResumeSucceeds(t *testing.T) {
	sess := &fakeSession{
		defaultAvail: 4,
		stateScript:  []device.Result{{Fault: device.FaultSuspended}},
		resumeOK:     true,
	}
	waiter := &fakeWaiter{limit: 2}

	eng := newTestEngine(sess, waiter, &seqSource{}, 4)
	if err := eng.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if sess.resumes != 1 {
		t.Errorf("expected one resume, got %d", sess.resumes)
	}
	if sess.prepares != 0 {
		t.Errorf("prepare must not run when resume succeeds, got %d", sess.prepares)
	}
	if len(sess.writeReqs) != 1 {
		t.Errorf("expected the write on the iteration after recovery, got %v", sess.writeReqs)
	}
}

func TestSuspendedResumeNotPossibleFallsBackToPrepare(t *testing.T) {
	sess := &fakeSession{
		defaultAvail: 4,
		stateScript:  []device.Result{{Fault: device.FaultSuspended}},
		resumeOK:     false,
	}
	waiter := &fakeWaiter{limit: 2}

	eng := newTestEngine(sess, waiter, &seqSource{}, 4)
	if err := eng.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if sess.resumes != 1 || sess.prepares != 1 {
		t.Fatalf("expected resume then prepare in the same recovery cycle, got resumes=%d prepares=%d",
			sess.resumes, sess.prepares)
	}
	// No write may happen between the failed resume and the prepare.
	if len(sess.writeReqs) != 1 {
		t.Errorf("expected no write during the recovery cycle, got %v", sess.writeReqs)
	}
}

func TestFatalFaultStopsTheLoop(t *testing.T) {
	cause := errors.New("ioctl DELAY failed: bad file descriptor")
	sess := &fakeSession{
		availScript: []device.Result{{Fault: device.FaultFatal, Err: cause}},
	}
	waiter := &fakeWaiter{limit: 8}

	eng := newTestEngine(sess, waiter, &seqSource{}, 4)
	err := eng.Run(context.Background())
	if err == nil {
		t.Fatal("expected Run to fail on a fatal fault")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error must carry the device-reported cause, got: %v", err)
	}
	if sess.prepares != 0 || sess.resumes != 0 {
		t.Errorf("no recovery may be attempted after a fatal fault: prepares=%d resumes=%d",
			sess.prepares, sess.resumes)
	}
	if len(sess.writeReqs) != 0 {
		t.Errorf("no write may follow a fatal fault, got %v", sess.writeReqs)
	}
}

func TestFailedPrepareIsFatal(t *testing.T) {
	prepErr := errors.New("ioctl PREPARE failed")
	sess := &fakeSession{
		availScript: []device.Result{{Fault: device.FaultUnderrun}},
		prepareErr:  prepErr,
	}
	waiter := &fakeWaiter{limit: 8}

	eng := newTestEngine(sess, waiter, &seqSource{}, 4)
	err := eng.Run(context.Background())
	if err == nil {
		t.Fatal("expected Run to fail when prepare fails")
	}
	if !errors.Is(err, prepErr) {
		t.Errorf("error must wrap the prepare failure, got: %v", err)
	}
	if !strings.Contains(err.Error(), "underrun recovery") {
		t.Errorf("error should name the originating operation, got: %v", err)
	}
}

func TestFailedResumeIsFatal(t *testing.T) {
	resErr := errors.New("ioctl RESUME failed")
	sess := &fakeSession{
		stateScript: []device.Result{{Fault: device.FaultSuspended}},
		resumeErr:   resErr,
	}
	waiter := &fakeWaiter{limit: 8}

	eng := newTestEngine(sess, waiter, &seqSource{}, 4)
	err := eng.Run(context.Background())
	if err == nil {
		t.Fatal("expected Run to fail when resume fails hard")
	}
	if !errors.Is(err, resErr) {
		t.Errorf("error must wrap the resume failure, got: %v", err)
	}
	if sess.prepares != 0 {
		t.Errorf("a hard resume failure must not fall through to prepare, got %d prepares", sess.prepares)
	}
}
