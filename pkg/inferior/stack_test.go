package inferior

import "testing"

// stubDebugInfo is an in-memory stand-in for the external debug-information
// collaborator.
type stubDebugInfo struct {
	names    map[uint64]string
	fallback string
	calls    int
}

func (s *stubDebugInfo) FunctionNameAt(pc uint64) (string, bool) {
	s.calls++
	if name, ok := s.names[pc]; ok {
		return name, true
	}
	if s.fallback != "" {
		return s.fallback, true
	}
	return "", false
}

func (s *stubDebugInfo) SourceLineAt(pc uint64) (string, int, bool) {
	if _, ok := s.names[pc]; !ok && s.fallback == "" {
		return "", 0, false
	}
	return "stub.go", 1, true
}

func TestBacktraceStopsAtEntryFunction(t *testing.T) {
	inf := launchFixture(t, "loopforever", nil)
	info := &stubDebugInfo{fallback: "main"}

	frames, err := inf.Backtrace(info)
	if err != nil {
		t.Fatalf("Backtrace(): %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].Function != "main" {
		t.Errorf("function = %q, want main", frames[0].Function)
	}
	if frames[0].File != "stub.go" || frames[0].Line != 1 {
		t.Errorf("location = %s:%d, want stub.go:1", frames[0].File, frames[0].Line)
	}
}

func TestBacktraceUnknownPlaceholder(t *testing.T) {
	inf := launchFixture(t, "loopforever", nil)
	info := &stubDebugInfo{} // resolves nothing

	// With nothing resolvable the walk follows the frame chain until a
	// read fails; the failure ends the walk, it does not kill the
	// controller.
	frames, _ := inf.Backtrace(info)
	if len(frames) == 0 {
		t.Fatal("no frames emitted")
	}
	if frames[0].Function != UnknownFunction {
		t.Errorf("function = %q, want %q", frames[0].Function, UnknownFunction)
	}
	if inf.Exited() {
		t.Error("backtrace failure marked inferior dead")
	}
}

func TestBacktraceMemoizesLookups(t *testing.T) {
	inf := launchFixture(t, "loopforever", nil)
	info := &stubDebugInfo{fallback: "main"}

	if _, err := inf.Backtrace(info); err != nil {
		t.Fatalf("Backtrace(): %v", err)
	}
	first := info.calls
	if first == 0 {
		t.Fatal("debug info never consulted")
	}

	// The process has not run since; the same pc resolves from cache.
	if _, err := inf.Backtrace(info); err != nil {
		t.Fatalf("second Backtrace(): %v", err)
	}
	if info.calls != first {
		t.Errorf("lookups after second walk = %d, want %d (cached)", info.calls, first)
	}
}

func TestBacktraceEntryFunctionFromConfig(t *testing.T) {
	inf := launchFixture(t, "loopforever", nil)
	inf.entryFunction = "main.main"
	info := &stubDebugInfo{fallback: "main.main"}

	frames, err := inf.Backtrace(info)
	if err != nil {
		t.Fatalf("Backtrace(): %v", err)
	}
	if len(frames) != 1 || frames[0].Function != "main.main" {
		t.Errorf("frames = %v, want single main.main frame", frames)
	}
}
