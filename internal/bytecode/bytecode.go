// Package bytecode packs each state into a 16-bit word and decodes it
// on every step, instead of walking the AST directly.
package bytecode

import (
	"fmt"

	"github.com/jkrafczyk/aoc2017/internal/executor"
	"github.com/jkrafczyk/aoc2017/internal/program"
)

func init() {
	executor.Register("bytecode", func(p program.Program) (executor.Executor, error) {
		return New(p)
	})
}

// maxStates is the capacity limit: a next-state index must fit in 5
// bits (bits 2..6 of an encoded action byte).
const maxStates = 32

// Executor packs each state to a 16-bit word: low byte for slot 0, high
// byte for slot 1.
type Executor struct {
	prog     program.Program
	stateMap map[program.Name]uint8
	code     []uint16
	tape     []byte
	offset   uint32
	state    uint8
}

// New builds a bytecode executor, assigning state indexes from
// prog.StateOrder and encoding every state. It fails if there are more
// than 32 states.
func New(prog program.Program) (*Executor, error) {
	if len(prog.StateOrder) > maxStates {
		return nil, fmt.Errorf("bytecode executor only works with up to %d states", maxStates)
	}

	e := &Executor{
		prog:     prog,
		stateMap: make(map[program.Name]uint8, len(prog.StateOrder)),
		code:     make([]uint16, len(prog.StateOrder)),
		tape:     make([]byte, prog.ChecksumDelay),
	}
	for i, name := range prog.StateOrder {
		e.stateMap[name] = uint8(i)
	}

	for _, name := range prog.StateOrder {
		word, err := e.encodeState(prog.States[name])
		if err != nil {
			return nil, err
		}
		e.code[e.stateMap[name]] = word
	}

	e.Reset()
	return e, nil
}

// encodeState packs the slot-0 action into the low byte and the slot-1
// action into the high byte.
func (e *Executor) encodeState(st program.State) (uint16, error) {
	lo, err := e.encodeAction(st.Actions[0])
	if err != nil {
		return 0, err
	}
	hi, err := e.encodeAction(st.Actions[1])
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// encodeAction packs write_value (bit 0), movement (bit 1, 1 == +1),
// and next_state index (bits 2..6) into a byte, then round-trips it
// through decodeAction and aborts if the decode disagrees with the
// input — the encoder must never silently produce a byte it cannot
// read back correctly.
func (e *Executor) encodeAction(a program.StateAction) (uint8, error) {
	var result uint8
	if a.WriteValue&1 != 0 {
		result |= 1
	}
	if a.MoveDirection == 1 {
		result |= 1 << 1
	}
	result |= (e.stateMap[a.NextState] & 0x1f) << 2

	write, move, next := decodeAction(result)
	wantNext := e.stateMap[a.NextState]
	if write != uint8(a.WriteValue) || move != a.MoveDirection || next != wantNext {
		return 0, fmt.Errorf("bug: decoding instruction does not yield original encoder input")
	}
	return result, nil
}

// decodeAction is the inverse of encodeAction.
func decodeAction(encoded uint8) (writeContents uint8, moveDirection int, nextState uint8) {
	writeContents = encoded & 0x01
	if (encoded>>1)&0x01 != 0 {
		moveDirection = 1
	} else {
		moveDirection = -1
	}
	nextState = encoded >> 2
	return
}

// Reset zeroes the tape and returns to the initial state and offset.
func (e *Executor) Reset() {
	for i := range e.tape {
		e.tape[i] = 0
	}
	e.state = e.stateMap[e.prog.InitialState]
	e.offset = 0
}

// Step fetches the 16-bit word for the current state, selects the byte
// for the current cell, decodes it, writes, advances (with wrap), and
// transitions.
func (e *Executor) Step() {
	word := e.code[e.state]
	slot := e.tape[e.offset]

	var encoded uint8
	if slot == 0 {
		encoded = uint8(word & 0xff)
	} else {
		encoded = uint8((word >> 8) & 0xff)
	}
	write, move, next := decodeAction(encoded)

	e.tape[e.offset] = write
	length := uint32(len(e.tape))
	e.offset = uint32((int64(e.offset) + int64(length) + int64(move)) % int64(length))
	e.state = next
}

// DiagnosticChecksum sums the tape cells.
func (e *Executor) DiagnosticChecksum() uint32 {
	var sum uint32
	for _, c := range e.tape {
		sum += uint32(c)
	}
	return sum
}

// DumpState renders the same "idx=...; state=...; tape=..." line the
// AST and JIT executors print under -v, recovering the state name from
// the index via prog.StateOrder rather than carrying a second map.
func (e *Executor) DumpState() string {
	name := e.prog.StateOrder[e.state]
	s := fmt.Sprintf("State: idx=%d; state=%s; tape=", e.offset, name)
	for _, c := range e.tape {
		s += fmt.Sprintf("%d", c)
	}
	return s
}
