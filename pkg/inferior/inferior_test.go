package inferior

import (
	"testing"

	sys "golang.org/x/sys/unix"
)

func TestLaunchStopsAtEntry(t *testing.T) {
	inf := launchFixture(t, "exitcleanly", nil)
	if inf.Pid <= 0 {
		t.Errorf("bad pid %d", inf.Pid)
	}
	if inf.Exited() {
		t.Fatal("inferior exited before first continue")
	}
	if inf.State() != StateStoppedOther {
		t.Errorf("state = %v, want stopped", inf.State())
	}
	if _, err := inf.CurrentPC(); err != nil {
		t.Errorf("CurrentPC(): %v", err)
	}
}

func TestLaunchMissingExecutable(t *testing.T) {
	if _, err := Launch([]string{"/does/not/exist"}, nil); err == nil {
		t.Fatal("expected launch error for missing executable")
	}
}

func TestContinueToCleanExit(t *testing.T) {
	inf := launchFixture(t, "exitcleanly", nil)
	status, err := inf.Continue()
	if err != nil {
		t.Fatalf("Continue(): %v", err)
	}
	exited, ok := status.(Exited)
	if !ok {
		t.Fatalf("status = %v, want Exited", status)
	}
	if exited.Code != 0 {
		t.Errorf("exit code = %d, want 0", exited.Code)
	}
	if !inf.Exited() {
		t.Error("inferior not marked exited")
	}
	if _, err := inf.Continue(); err == nil {
		t.Error("expected error continuing an exited inferior")
	}
}

func TestKillReportsSignaled(t *testing.T) {
	inf := launchFixture(t, "loopforever", nil)
	inf.Kill()

	status, err := inf.Wait(0)
	if err != nil {
		t.Fatalf("Wait(): %v", err)
	}
	signaled, ok := status.(Signaled)
	if !ok {
		t.Fatalf("status = %v, want Signaled", status)
	}
	if signaled.Signal != sys.SIGKILL {
		t.Errorf("signal = %v, want SIGKILL", signaled.Signal)
	}
	if inf.State() != StateSignaled {
		t.Errorf("state = %v, want signaled", inf.State())
	}

	// Killing and waiting on an already-dead inferior must not crash or
	// hang; the terminal event is replayed.
	inf.Kill()
	again, err := inf.Wait(0)
	if err != nil {
		t.Fatalf("Wait() after reap: %v", err)
	}
	if again != status {
		t.Errorf("replayed status = %v, want %v", again, status)
	}
}

func TestWaitNonBlockingWhileStopped(t *testing.T) {
	inf := launchFixture(t, "loopforever", nil)
	// The launch stop was already consumed; a poll sees no state change.
	status, err := inf.Wait(sys.WNOHANG)
	if err != nil {
		t.Fatalf("Wait(WNOHANG): %v", err)
	}
	if status != nil {
		t.Errorf("status = %v, want nil", status)
	}
}
