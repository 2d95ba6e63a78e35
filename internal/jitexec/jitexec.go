// Package jitexec compiles a program into native x86-64 machine code,
// one function per state, and executes it directly.
package jitexec

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jkrafczyk/aoc2017/internal/disasm"
	"github.com/jkrafczyk/aoc2017/internal/executor"
	"github.com/jkrafczyk/aoc2017/internal/jit"
	"github.com/jkrafczyk/aoc2017/internal/program"
)

// log carries this package's compilation diagnostics: one line per
// state as its native function is emitted.
var log = logrus.New()

func init() {
	executor.Register("jit", func(p program.Program) (executor.Executor, error) {
		return New(p)
	})
}

// Registers used by every compiled state function. Fixed by convention
// across all of them, since each function is re-entered independently
// rather than called in a chain:
//
//	R9  &tape_offset
//	R10 tape_offset (value)
//	R11 &tape
//	R12 &state_name
//	R14 &state_func
//	R15 tape_size

// Executor JIT-compiles prog into one native function per state and
// runs that code directly, with the tape, the current offset and the
// dispatch pointer for "which function to run next" all living in
// buffers owned by the underlying Jit.
type Executor struct {
	prog program.Program
	j    *jit.Jit
}

// New compiles prog and leaves the executor ready to Step from its
// initial state.
func New(prog program.Program) (*Executor, error) {
	j, err := jit.New()
	if err != nil {
		return nil, err
	}
	e := &Executor{prog: prog, j: j}
	if err := e.compile(); err != nil {
		_ = j.Close()
		return nil, err
	}
	e.Reset()
	return e, nil
}

// Close releases the executable memory region. Call it when the
// executor is no longer needed.
func (e *Executor) Close() error {
	return e.j.Close()
}

func (e *Executor) compile() error {
	tapeSize := uint64(e.prog.ChecksumDelay)

	if err := e.j.AddBuffer("tape", tapeSize); err != nil {
		return err
	}
	if err := e.j.AddBuffer("tape_size", 8); err != nil {
		return err
	}
	if err := e.j.AddBuffer("tape_offset", 8); err != nil {
		return err
	}
	if err := e.j.AddBuffer("state_name", 8); err != nil {
		return err
	}
	if err := e.j.AddBuffer("state_func", 8); err != nil {
		return err
	}

	sizeBuf, _ := e.j.Buffer("tape_size")
	binary.LittleEndian.PutUint64(sizeBuf, tapeSize)

	log.WithField("states", len(e.prog.StateOrder)).Debug("compiling program states to native code")
	for _, name := range e.prog.StateOrder {
		if err := compileState(e.j, e.prog.States[name]); err != nil {
			log.WithField("state", name).WithError(err).Error("failed to compile state")
			return fmt.Errorf("compiling state %s: %w", name, err)
		}
		log.WithField("state", name).Debug("compiled state")
	}

	return e.j.FinalizeCode()
}

// Reset rewinds the tape, tape offset, and dispatch pointers back to
// the program's initial state.
func (e *Executor) Reset() {
	initial := e.prog.InitialState

	nameAddr, ok := e.j.ResolvedAddress("state_name_" + string(initial))
	if !ok {
		panic(fmt.Sprintf("jitexec: missing compiled state name constant for %s", initial))
	}
	funcAddr, ok := e.j.ResolvedAddress("state_" + string(initial))
	if !ok {
		panic(fmt.Sprintf("jitexec: missing compiled state function for %s", initial))
	}

	nameBuf, _ := e.j.Buffer("state_name")
	binary.LittleEndian.PutUint64(nameBuf, uint64(nameAddr))

	funcBuf, _ := e.j.Buffer("state_func")
	binary.LittleEndian.PutUint64(funcBuf, uint64(funcAddr))

	offsetBuf, _ := e.j.Buffer("tape_offset")
	binary.LittleEndian.PutUint64(offsetBuf, 0)

	tapeBuf, _ := e.j.Buffer("tape")
	for i := range tapeBuf {
		tapeBuf[i] = 0
	}
}

// Step runs whichever compiled state function the last step (or Reset)
// left parked in the state_func dispatch buffer.
func (e *Executor) Step() {
	funcBuf, _ := e.j.Buffer("state_func")
	addr := uintptr(binary.LittleEndian.Uint64(funcBuf))
	if _, err := e.j.CallAddress(addr, 0); err != nil {
		panic(fmt.Sprintf("jitexec: step failed: %v", err))
	}
}

// DiagnosticChecksum sums every byte currently on the tape.
func (e *Executor) DiagnosticChecksum() uint32 {
	tapeBuf, _ := e.j.Buffer("tape")
	var checksum uint32
	for _, b := range tapeBuf {
		checksum += uint32(b)
	}
	return checksum
}

// DumpState renders the same "idx=...; state=...; tape=..." line the
// AST and bytecode executors print under -v, resolving the current
// state name from the dispatch pointer rather than the opaque C-string
// buffer (which nothing in Go ever needs to dereference directly).
func (e *Executor) DumpState() string {
	offsetBuf, _ := e.j.Buffer("tape_offset")
	offset := binary.LittleEndian.Uint64(offsetBuf)

	funcBuf, _ := e.j.Buffer("state_func")
	addr := uintptr(binary.LittleEndian.Uint64(funcBuf))
	name := e.stateNameAt(addr)

	tapeBuf, _ := e.j.Buffer("tape")
	out := fmt.Sprintf("State: idx=%d; state=%s; tape=", offset, name)
	for _, b := range tapeBuf {
		out += fmt.Sprintf("%d", b)
	}
	return out
}

// Disassemble renders every state function this executor compiled as
// decoded x86-64 instructions, for the CLI's -v output on the "jit"
// executor.
func (e *Executor) Disassemble() []string {
	return disasm.Lines(e.j.DumpMemory())
}

// stateNameAt resolves addr back to a program state name by checking
// each state's own "state_<name>" entry point. EmitFunction binds a
// second, internal "_state_<name>_start" label to that very same
// address, so a generic reverse symbol lookup would be ambiguous;
// searching only the names this package itself defined is not.
func (e *Executor) stateNameAt(addr uintptr) string {
	for _, name := range e.prog.StateOrder {
		if a, ok := e.j.ResolvedAddress("state_" + string(name)); ok && a == addr {
			return string(name)
		}
	}
	return "?"
}
