package inferior

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/quarry-dbg/quarry/pkg/config"
	"github.com/quarry-dbg/quarry/pkg/logflags"
)

// State describes where the inferior is in its lifecycle between control
// operations. StateExited and StateSignaled are terminal.
type State int

const (
	StateRunning State = iota
	StateStoppedAtBreakpoint
	StateStoppedOther
	StateExited
	StateSignaled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStoppedAtBreakpoint:
		return "stopped at breakpoint"
	case StateStoppedOther:
		return "stopped"
	case StateExited:
		return "exited"
	case StateSignaled:
		return "signaled"
	}
	return "unknown"
}

// Inferior is the exclusive handle on a process being debugged. Holds onto
// the pid, the installed breakpoints and the lifecycle state. All trace
// operations against the tracee go through this handle; the kernel binds
// tracer and tracee one-to-one, so it must not be shared between
// controllers.
type Inferior struct {
	Pid     int
	Process *os.Process

	// Breakpoints maps a virtual address in the inferior to the breakpoint
	// installed there.
	Breakpoints map[uint64]*Breakpoint

	state     State
	stoppedAt uint64 // valid while state == StateStoppedAtBreakpoint
	final     Status // cached terminal event once the tracee is gone

	entryFunction       string
	breakpointIDCounter int
	symCache            *lru.Cache
	log                 *logrus.Entry
}

// ProcessExitedError indicates an operation was attempted against an
// inferior that has already terminated.
type ProcessExitedError struct {
	Pid int
}

func (pe ProcessExitedError) Error() string {
	return fmt.Sprintf("process %d has exited", pe.Pid)
}

// Launch creates and begins debugging a new process with the default
// configuration. First entry in cmd is the program to run, and the rest are
// the arguments to be supplied to that process.
func Launch(cmd []string, breakpoints []uint64) (*Inferior, error) {
	return LaunchWithConfig(config.Default(), cmd, breakpoints)
}

// LaunchWithConfig spawns cmd[0] under trace control: the child requests to
// be traced before it execs, so the tracer observes the initial stop before
// any target code runs. Once that stop is seen, every requested breakpoint
// is installed; individual installation failures are logged and skipped. On
// any launch failure no partial tracee is left running.
func LaunchWithConfig(conf *config.Config, cmd []string, breakpoints []uint64) (*Inferior, error) {
	cache, err := lru.New(conf.SymbolCacheSize)
	if err != nil {
		return nil, fmt.Errorf("invalid symbol cache size %d: %s", conf.SymbolCacheSize, err)
	}

	proc := exec.Command(cmd[0])
	proc.Args = cmd
	if conf.FollowExecOutput {
		proc.Stdout = os.Stdout
		proc.Stderr = os.Stderr
	}
	proc.SysProcAttr = &syscall.SysProcAttr{Ptrace: true}

	if err := proc.Start(); err != nil {
		return nil, fmt.Errorf("could not launch %s: %s", cmd[0], err)
	}

	inf := &Inferior{
		Pid:           proc.Process.Pid,
		Process:       proc.Process,
		Breakpoints:   make(map[uint64]*Breakpoint),
		entryFunction: conf.EntryFunction,
		symCache:      cache,
		log:           logflags.InferiorLogger(),
	}

	status, err := inf.Wait(0)
	if err != nil {
		inf.Kill()
		return nil, fmt.Errorf("waiting for target execve failed: %s", err)
	}
	if _, ok := status.(Stopped); !ok {
		inf.Kill()
		return nil, fmt.Errorf("target did not stop after execve: %s", status)
	}

	for _, addr := range breakpoints {
		bp, err := inf.SetBreakpoint(addr)
		if err != nil {
			inf.log.Warnf("could not set breakpoint at %#x: %v", addr, err)
			continue
		}
		inf.log.Debugf("set %s", bp)
	}

	return inf, nil
}

// Exited returns whether the inferior has terminated.
func (inf *Inferior) Exited() bool {
	return inf.state == StateExited || inf.state == StateSignaled
}

// State returns the inferior's current lifecycle state.
func (inf *Inferior) State() State {
	return inf.state
}

// StoppedAt reports the address of the breakpoint the inferior is currently
// stopped at, if any.
func (inf *Inferior) StoppedAt() (uint64, bool) {
	if inf.state != StateStoppedAtBreakpoint {
		return 0, false
	}
	return inf.stoppedAt, true
}

// Registers reads a fresh register snapshot from the inferior.
func (inf *Inferior) Registers() (Registers, error) {
	if inf.Exited() {
		return nil, ProcessExitedError{Pid: inf.Pid}
	}
	regs, err := registers(inf.Pid)
	if err != nil {
		return nil, fmt.Errorf("could not get registers: %s", err)
	}
	return regs, nil
}

// CurrentPC returns the inferior's program counter.
func (inf *Inferior) CurrentPC() (uint64, error) {
	regs, err := inf.Registers()
	if err != nil {
		return 0, err
	}
	return regs.PC(), nil
}

// Kill forcefully terminates the inferior and reaps it. Termination and
// reap failures are logged, never propagated: killing an already-dead
// process must not take the controller down with it.
func (inf *Inferior) Kill() {
	if inf.Exited() {
		inf.log.Debugf("kill: process %d already gone", inf.Pid)
		return
	}
	if err := inf.Process.Kill(); err != nil {
		inf.log.Warnf("could not kill process %d: %v", inf.Pid, err)
	}
	status, err := inf.Wait(0)
	if err != nil {
		inf.log.Warnf("could not reap process %d: %v", inf.Pid, err)
		return
	}
	inf.log.Debugf("killed process %d: %s", inf.Pid, status)
}
