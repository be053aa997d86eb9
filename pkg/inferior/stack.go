package inferior

import (
	"fmt"

	"github.com/quarry-dbg/quarry/pkg/logflags"
)

// DebugInfo resolves addresses in the inferior to symbolic information. It
// is an external collaborator; this package only consumes it.
type DebugInfo interface {
	// FunctionNameAt returns the name of the function containing pc.
	FunctionNameAt(pc uint64) (string, bool)
	// SourceLineAt returns the source file and line for pc.
	SourceLineAt(pc uint64) (file string, line int, ok bool)
}

// UnknownFunction is emitted for frames the debug information cannot name.
const UnknownFunction = "???"

// Frame describes one entry of a backtrace.
type Frame struct {
	PC       uint64
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
}

type frameSymbol struct {
	fn   string
	file string
	line int
}

// resolve looks pc up through the debug information, memoizing the result:
// the address-to-symbol mapping never changes for a given target, and the
// walker revisits the same program counters on every stop.
func (inf *Inferior) resolve(info DebugInfo, pc uint64) frameSymbol {
	if v, ok := inf.symCache.Get(pc); ok {
		return v.(frameSymbol)
	}
	symbol := frameSymbol{fn: UnknownFunction}
	if name, ok := info.FunctionNameAt(pc); ok {
		symbol.fn = name
	}
	if file, line, ok := info.SourceLineAt(pc); ok {
		symbol.file = file
		symbol.line = line
	}
	inf.symCache.Add(pc, symbol)
	return symbol
}

// Backtrace reconstructs the call stack by following the chain of saved
// frame pointers. Each program counter is resolved through info; frames the
// debug information cannot name are emitted with the UnknownFunction
// placeholder. The walk terminates at the entry function (configurable,
// "main" by default). The return address is read one word above the current
// frame pointer, the caller's frame pointer at the frame pointer itself. A
// failed memory read ends the walk early: the frames collected so far are
// returned together with the read error, and the controller stays usable.
func (inf *Inferior) Backtrace(info DebugInfo) ([]Frame, error) {
	if inf.Exited() {
		return nil, ProcessExitedError{Pid: inf.Pid}
	}
	regs, err := registers(inf.Pid)
	if err != nil {
		return nil, fmt.Errorf("could not get registers: %s", err)
	}

	var (
		frames []Frame
		pc     = regs.PC()
		bp     = regs.BP()
		log    = logflags.BacktraceLogger()
	)
	for {
		symbol := inf.resolve(info, pc)
		frames = append(frames, Frame{PC: pc, Function: symbol.fn, File: symbol.file, Line: symbol.line})
		if symbol.fn == inf.entryFunction {
			return frames, nil
		}
		ret, err := inf.readWord(bp + wordSize)
		if err != nil {
			log.Warnf("stack walk ended after frame %d: %v", len(frames), err)
			return frames, err
		}
		saved, err := inf.readWord(bp)
		if err != nil {
			log.Warnf("stack walk ended after frame %d: %v", len(frames), err)
			return frames, err
		}
		pc, bp = ret, saved
	}
}
