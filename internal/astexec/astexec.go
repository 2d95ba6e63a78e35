// Package astexec is the direct interpreter: it walks the parsed
// program.Program structure on every step. It is the behavioral oracle
// the bytecode and JIT executors are validated against.
package astexec

import (
	"fmt"

	"github.com/jkrafczyk/aoc2017/internal/executor"
	"github.com/jkrafczyk/aoc2017/internal/program"
)

func init() {
	executor.Register("ast", func(p program.Program) (executor.Executor, error) {
		return New(p), nil
	})
}

// Executor is the AST-walking interpreter.
type Executor struct {
	prog    program.Program
	tape    []byte
	offset  uint32
	current program.Name
}

// New builds an AST executor over prog and resets it to the initial
// state.
func New(prog program.Program) *Executor {
	e := &Executor{
		prog: prog,
		tape: make([]byte, prog.ChecksumDelay),
	}
	e.Reset()
	return e
}

// Reset zeroes the tape and restores the initial state and offset.
func (e *Executor) Reset() {
	for i := range e.tape {
		e.tape[i] = 0
	}
	e.offset = 0
	e.current = e.prog.InitialState
}

// Step reads the cell at the current offset, finds the matching action,
// writes, advances (with two-sided wrap), and transitions state.
func (e *Executor) Step() {
	st := e.prog.States[e.current]
	slot := e.tape[e.offset]
	action := st.Actions[int(slot)]

	e.tape[e.offset] = byte(action.WriteValue)
	e.offset = advance(e.offset, action.MoveDirection, uint32(len(e.tape)))
	e.current = action.NextState
}

// advance moves offset by direction (±1), wrapping in both directions
// across a tape of the given length.
func advance(offset uint32, direction int, length uint32) uint32 {
	if direction > 0 {
		offset++
		if offset >= length {
			offset = 0
		}
	} else {
		if offset == 0 {
			offset = length - 1
		} else {
			offset--
		}
	}
	return offset
}

// DiagnosticChecksum sums the tape cells.
func (e *Executor) DiagnosticChecksum() uint32 {
	var sum uint32
	for _, c := range e.tape {
		sum += uint32(c)
	}
	return sum
}

// DumpState renders offset/state/tape for -v diagnostics, mirroring the
// original dump_state() helper.
func (e *Executor) DumpState() string {
	s := fmt.Sprintf("State: idx=%d; state=%s; tape=", e.offset, e.current)
	for _, c := range e.tape {
		s += fmt.Sprintf("%d", c)
	}
	return s
}
