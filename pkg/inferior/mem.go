package inferior

import (
	"encoding/binary"
	"fmt"

	sys "golang.org/x/sys/unix"
)

const wordSize = 8

// alignAddr rounds addr down to the containing word boundary.
func alignAddr(addr uint64) uint64 {
	return addr &^ (wordSize - 1)
}

func extractByte(word uint64, off uint64) byte {
	return byte(word >> (8 * off))
}

// replaceByte returns word with exactly the byte at off swapped for b.
func replaceByte(word uint64, off uint64, b byte) uint64 {
	masked := word &^ (uint64(0xff) << (8 * off))
	return masked | uint64(b)<<(8*off)
}

// ReadWord reads one machine word from the inferior at a word-aligned
// address. The inferior must be stopped.
func (inf *Inferior) ReadWord(addr uint64) (uint64, error) {
	if addr != alignAddr(addr) {
		return 0, fmt.Errorf("read of misaligned address %#x", addr)
	}
	return inf.readWord(addr)
}

// WriteWord writes one machine word to the inferior at a word-aligned
// address. The inferior must be stopped.
func (inf *Inferior) WriteWord(addr uint64, word uint64) error {
	if addr != alignAddr(addr) {
		return fmt.Errorf("write to misaligned address %#x", addr)
	}
	return inf.writeWord(addr, word)
}

func (inf *Inferior) readWord(addr uint64) (uint64, error) {
	if inf.Exited() {
		return 0, ProcessExitedError{Pid: inf.Pid}
	}
	data := make([]byte, wordSize)
	if _, err := sys.PtracePeekData(inf.Pid, uintptr(addr), data); err != nil {
		return 0, fmt.Errorf("could not read word at %#x: %s", addr, err)
	}
	return binary.LittleEndian.Uint64(data), nil
}

func (inf *Inferior) writeWord(addr uint64, word uint64) error {
	if inf.Exited() {
		return ProcessExitedError{Pid: inf.Pid}
	}
	data := make([]byte, wordSize)
	binary.LittleEndian.PutUint64(data, word)
	if _, err := sys.PtracePokeData(inf.Pid, uintptr(addr), data); err != nil {
		return fmt.Errorf("could not write word at %#x: %s", addr, err)
	}
	return nil
}

// patchByte swaps the byte at addr for b and returns the byte it displaced.
// The containing word is read, modified and written back whole, never a
// partial write, so the other seven bytes are preserved exactly.
func (inf *Inferior) patchByte(addr uint64, b byte) (byte, error) {
	aligned := alignAddr(addr)
	off := addr - aligned
	word, err := inf.readWord(aligned)
	if err != nil {
		return 0, err
	}
	orig := extractByte(word, off)
	if err := inf.writeWord(aligned, replaceByte(word, off, b)); err != nil {
		return 0, err
	}
	return orig, nil
}
