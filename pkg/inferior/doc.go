// Package inferior is a low-level package that provides methods to launch
// and manipulate the process we are debugging, and methods to read and
// write from the virtual memory of that process.
//
// inferior implements the core of this debugger: spawning a target under
// trace control, installing and removing software breakpoints, resuming
// execution past a breakpoint without re-triggering it, and walking the
// frame-pointer chain to reconstruct a backtrace.
//
// What follows is a breakdown of the division of responsibility by file:
//
// * inferior.go - The Inferior handle: launch, kill, lifecycle state.
// * status.go - Stop event variants and wait-status translation.
// * breakpoints.go - Data structures and methods for setting / clearing breakpoints.
// * mem.go - Word-aligned read/modify/write of the inferior's memory.
// * continue.go - Continuation and the step-over-breakpoint protocol.
// * stack.go - Functions for unwinding the stack.
// * registers_linux_amd64.go - Register snapshot access and write-back.
//
// Only linux/amd64 is supported. An Inferior owns its tracee exclusively;
// the kernel enforces the one-tracer relationship.
package inferior
