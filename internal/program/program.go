// Package program holds the parsed data model for a day25 tape machine:
// a set of named states, each with one action per possible cell value.
package program

import "fmt"

// Name is a state identifier; the tokenizer only ever captures
// [A-Za-z0-9]+ here, so no further validation is performed downstream.
type Name = string

// StateAction describes what happens when a state reads a particular
// cell value: what to write, which way to move, and where to go next.
type StateAction struct {
	SlotCondition int // 0 or 1: the cell value that selects this action
	WriteValue    int // 0 or 1
	MoveDirection int // -1 or +1
	NextState     Name
}

// State is a named pair of actions, one for slot 0 and one for slot 1.
type State struct {
	Name    Name
	Actions map[int]StateAction
}

// Program is the fully parsed, validated machine description.
type Program struct {
	InitialState  Name
	ChecksumDelay uint32
	States        map[Name]State

	// StateOrder preserves the order state names were declared in the
	// source text; the bytecode encoder and the C emitter both assign numeric
	// state indexes from this order, so changing it changes the indexes
	// (not the machine's behavior — see the Open Questions note in
	// DESIGN.md).
	StateOrder []Name
}

// String renders the program the way the original C++ program.cpp did,
// for -v output.
func (p Program) String() string {
	s := fmt.Sprintf("Program:\n  Initial state: %s\n  Checksum after %d steps\n  States:\n",
		p.InitialState, p.ChecksumDelay)
	for _, name := range p.StateOrder {
		st := p.States[name]
		s += fmt.Sprintf("    %s:\n", name)
		for slot := 0; slot <= 1; slot++ {
			a := st.Actions[slot]
			s += fmt.Sprintf("      If slot = %d:\n        Write %d\n        Move %d\n        Next state: %s\n",
				slot, a.WriteValue, a.MoveDirection, a.NextState)
		}
	}
	return s
}
