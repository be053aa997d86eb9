package inferior

import "fmt"

// Represents a single breakpoint. Stores information on the breakpoint
// including the byte of data that originally was stored at that address.
type Breakpoint struct {
	Addr         uint64
	OriginalByte byte
	ID           int
}

func (bp *Breakpoint) String() string {
	return fmt.Sprintf("breakpoint %d at %#x", bp.ID, bp.Addr)
}

// NoBreakpointError is returned when operating on an address that has no
// breakpoint installed.
type NoBreakpointError struct {
	address uint64
}

func (nbe NoBreakpointError) Error() string {
	return fmt.Sprintf("no breakpoint at %#x", nbe.address)
}

// SetBreakpoint writes the trap opcode at addr, saving the byte it
// displaces, and records the breakpoint in the table. Setting a breakpoint
// where one is already installed is a no-op returning the existing entry:
// the saved original byte must never be clobbered with the trap opcode by a
// redundant install. On a patch failure nothing is recorded.
func (inf *Inferior) SetBreakpoint(addr uint64) (*Breakpoint, error) {
	if bp, ok := inf.Breakpoints[addr]; ok {
		return bp, nil
	}
	orig, err := inf.patchByte(addr, trapOpcode)
	if err != nil {
		return nil, err
	}
	inf.breakpointIDCounter++
	bp := &Breakpoint{Addr: addr, OriginalByte: orig, ID: inf.breakpointIDCounter}
	inf.Breakpoints[addr] = bp
	return bp, nil
}

// BreakpointExists reports whether a breakpoint is installed at addr.
func (inf *Inferior) BreakpointExists(addr uint64) bool {
	_, ok := inf.Breakpoints[addr]
	return ok
}

// FindBreakpoint returns the breakpoint installed at addr, if any.
func (inf *Inferior) FindBreakpoint(addr uint64) (*Breakpoint, bool) {
	bp, ok := inf.Breakpoints[addr]
	return bp, ok
}

// restoreByte puts the original byte back at addr. The table entry stays:
// the breakpoint remains logically armed and the step-over protocol will
// re-insert the trap once the shadowed instruction has run.
func (inf *Inferior) restoreByte(addr uint64) error {
	bp, ok := inf.Breakpoints[addr]
	if !ok {
		return NoBreakpointError{address: addr}
	}
	_, err := inf.patchByte(addr, bp.OriginalByte)
	return err
}

// ClearBreakpoint restores the original byte at addr and removes the
// breakpoint from the table.
func (inf *Inferior) ClearBreakpoint(addr uint64) (*Breakpoint, error) {
	bp, ok := inf.Breakpoints[addr]
	if !ok {
		return nil, NoBreakpointError{address: addr}
	}
	if err := inf.restoreByte(addr); err != nil {
		return nil, fmt.Errorf("could not clear breakpoint %s", err)
	}
	delete(inf.Breakpoints, addr)
	return bp, nil
}
