package inferior

import (
	"fmt"

	sys "golang.org/x/sys/unix"
)

// Continue resumes the inferior and blocks until the next stop event.
//
// If the stop is a SIGTRAP one byte past an installed breakpoint, the trap
// was ours: the program counter is rewound onto the breakpoint (a full
// register-set read, SetPC, explicit write-back) and the stop is reported at
// the breakpoint's address. The instruction the trap shadows has not run
// yet; the next Continue executes it via stepOverBreakpoint before resuming.
// Every other stop event is returned unchanged.
func (inf *Inferior) Continue() (Status, error) {
	if inf.Exited() {
		return nil, ProcessExitedError{Pid: inf.Pid}
	}

	// If we are sitting on an armed breakpoint, step past it first so
	// resuming does not re-trigger the same trap.
	regs, err := registers(inf.Pid)
	if err != nil {
		return nil, fmt.Errorf("could not get registers: %s", err)
	}
	if bp, ok := inf.Breakpoints[regs.PC()]; ok {
		status, err := inf.stepOverBreakpoint(bp)
		if err != nil {
			return nil, err
		}
		if status != nil {
			// The stepped instruction terminated the process.
			return status, nil
		}
	}

	inf.state = StateRunning
	if err := sys.PtraceCont(inf.Pid, 0); err != nil {
		return nil, fmt.Errorf("continue failed: %s", err)
	}

	status, err := inf.Wait(0)
	if err != nil {
		return nil, err
	}

	if st, ok := status.(Stopped); ok && st.Signal == sys.SIGTRAP {
		if bp, ok := inf.Breakpoints[st.PC-1]; ok {
			regs, err := registers(inf.Pid)
			if err != nil {
				return nil, fmt.Errorf("could not get registers: %s", err)
			}
			if err := regs.SetPC(inf.Pid, bp.Addr); err != nil {
				return nil, fmt.Errorf("could not set registers: %s", err)
			}
			inf.state = StateStoppedAtBreakpoint
			inf.stoppedAt = bp.Addr
			inf.log.Debugf("hit %s", bp)
			return Stopped{Signal: st.Signal, PC: bp.Addr}, nil
		}
	}

	return status, nil
}

// stepOverBreakpoint executes the instruction shadowed by bp: the original
// byte is put back, the inferior is stepped exactly one instruction, and the
// trap opcode is re-armed. The program counter must already have been
// rewound to bp.Addr. Returns a non-nil Status only when the stepped
// instruction terminated the process, in which case there is nothing left
// to re-arm.
//
// If the landing address of the step carries another breakpoint, no special
// handling is needed: resuming will trap there and the usual pc-1
// disambiguation picks it up.
func (inf *Inferior) stepOverBreakpoint(bp *Breakpoint) (Status, error) {
	if err := inf.restoreByte(bp.Addr); err != nil {
		return nil, err
	}
	if err := sys.PtraceSingleStep(inf.Pid); err != nil {
		return nil, fmt.Errorf("single step failed: %s", err)
	}
	status, err := inf.Wait(0)
	if err != nil {
		return nil, err
	}
	switch status.(type) {
	case Exited, Signaled:
		return status, nil
	}
	if _, err := inf.patchByte(bp.Addr, trapOpcode); err != nil {
		return nil, fmt.Errorf("could not re-arm %s: %s", bp, err)
	}
	return nil, nil
}
