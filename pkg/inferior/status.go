package inferior

import (
	"fmt"

	sys "golang.org/x/sys/unix"
)

// Status is the translated outcome of a wait on the inferior. Exactly one
// of the three variants is produced per wait: Stopped while the process is
// alive and halted, Exited or Signaled once it is gone.
type Status interface {
	waitStatus()
	String() string
}

// Stopped indicates the inferior halted on a signal. PC is the program
// counter it is stopped at.
type Stopped struct {
	Signal sys.Signal
	PC     uint64
}

// Exited indicates the inferior exited normally with the given status code.
type Exited struct {
	Code int
}

// Signaled indicates the inferior was terminated by a signal.
type Signaled struct {
	Signal sys.Signal
}

func (Stopped) waitStatus()  {}
func (Exited) waitStatus()   {}
func (Signaled) waitStatus() {}

func (s Stopped) String() string {
	return fmt.Sprintf("stopped with %v at %#x", s.Signal, s.PC)
}

func (e Exited) String() string {
	return fmt.Sprintf("exited with status %d", e.Code)
}

func (s Signaled) String() string {
	return fmt.Sprintf("terminated by %v", s.Signal)
}

// Wait blocks until the inferior changes state and translates the result.
// Pass unix.WNOHANG in options to poll instead; a poll that observes no
// state change returns (nil, nil). Once the inferior has terminated the
// final event is replayed on every subsequent call, since the pid has
// already been reaped.
//
// On a stop the register set is fetched to report the current program
// counter. Wait categories outside {exited, signaled, stopped} are not
// modeled (no group-stop or continue semantics apply to our tracee); hitting
// one means a platform assumption was violated and is fatal.
func (inf *Inferior) Wait(options int) (Status, error) {
	if inf.final != nil {
		return inf.final, nil
	}

	var ws sys.WaitStatus
	wpid, err := sys.Wait4(inf.Pid, &ws, options, nil)
	if err != nil {
		return nil, fmt.Errorf("wait err %s %d", err, inf.Pid)
	}
	if wpid == 0 {
		// WNOHANG and nothing changed.
		return nil, nil
	}

	switch {
	case ws.Exited():
		status := Exited{Code: ws.ExitStatus()}
		inf.terminate(status, StateExited)
		return status, nil
	case ws.Signaled():
		status := Signaled{Signal: ws.Signal()}
		inf.terminate(status, StateSignaled)
		return status, nil
	case ws.Stopped():
		regs, err := registers(inf.Pid)
		if err != nil {
			return nil, fmt.Errorf("could not get registers: %s", err)
		}
		inf.state = StateStoppedOther
		return Stopped{Signal: ws.StopSignal(), PC: regs.PC()}, nil
	}

	panic(fmt.Sprintf("unexpected wait status %#x for pid %d", uint32(ws), inf.Pid))
}

func (inf *Inferior) terminate(status Status, state State) {
	inf.final = status
	inf.state = state
}
