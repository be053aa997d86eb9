package inferior

import sys "golang.org/x/sys/unix"

// Registers is an ephemeral snapshot of the inferior's register set. It is
// invalidated the moment the process runs again; read a fresh one for every
// query. Mutating a snapshot is never observed by the inferior on its own,
// which is why SetPC performs the write-back itself.
type Registers interface {
	PC() uint64
	SP() uint64
	BP() uint64
	SetPC(pid int, pc uint64) error
}

type Regs struct {
	regs *sys.PtraceRegs
}

func (r *Regs) PC() uint64 {
	return r.regs.PC()
}

func (r *Regs) SP() uint64 {
	return r.regs.Rsp
}

func (r *Regs) BP() uint64 {
	return r.regs.Rbp
}

// SetPC modifies the snapshot's program counter and writes the full
// register set back to the inferior.
func (r *Regs) SetPC(pid int, pc uint64) error {
	r.regs.SetPC(pc)
	return sys.PtraceSetRegs(pid, r.regs)
}

func registers(pid int) (Registers, error) {
	var regs sys.PtraceRegs
	err := sys.PtraceGetRegs(pid, &regs)
	if err != nil {
		return nil, err
	}
	return &Regs{&regs}, nil
}
