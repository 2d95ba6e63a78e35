package astexec_test

import (
	"testing"

	"github.com/jkrafczyk/aoc2017/internal/astexec"
	"github.com/jkrafczyk/aoc2017/internal/parser"
	"github.com/jkrafczyk/aoc2017/internal/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleProgramChecksumIsThree(t *testing.T) {
	p, err := parser.Load("../../testdata/sample.txt")
	require.NoError(t, err)

	e := astexec.New(p)
	for i := uint32(0); i < p.ChecksumDelay; i++ {
		e.Step()
	}
	assert.Equal(t, uint32(3), e.DiagnosticChecksum())
}

func TestSingleStateSelfLoopChecksumIsTen(t *testing.T) {
	p := singleStateSelfLoopProgram(10)
	e := astexec.New(p)
	for i := 0; i < 10; i++ {
		e.Step()
	}
	assert.Equal(t, uint32(10), e.DiagnosticChecksum())
}

func TestPureLeftWrapVisitsCellsInReverseOrder(t *testing.T) {
	p := program.Program{
		InitialState:  "A",
		ChecksumDelay: 4,
		StateOrder:    []program.Name{"A"},
		States: map[program.Name]program.State{
			"A": {Name: "A", Actions: map[int]program.StateAction{
				0: {WriteValue: 1, MoveDirection: -1, NextState: "A"},
				1: {WriteValue: 1, MoveDirection: -1, NextState: "A"},
			}},
		},
	}
	e := astexec.New(p)
	for i := 0; i < 4; i++ {
		e.Step()
	}
	assert.Equal(t, uint32(4), e.DiagnosticChecksum())
}

func TestEraseAfterWriteChecksumIsZero(t *testing.T) {
	p := program.Program{
		InitialState:  "A",
		ChecksumDelay: 4,
		StateOrder:    []program.Name{"A"},
		States: map[program.Name]program.State{
			"A": {Name: "A", Actions: map[int]program.StateAction{
				0: {WriteValue: 1, MoveDirection: 1, NextState: "A"},
				1: {WriteValue: 0, MoveDirection: 1, NextState: "A"},
			}},
		},
	}
	e := astexec.New(p)
	for i := 0; i < 8; i++ {
		e.Step()
	}
	assert.Equal(t, uint32(0), e.DiagnosticChecksum())
}

func TestResetIsIdempotentAndZeroesChecksum(t *testing.T) {
	p := singleStateSelfLoopProgram(10)
	e := astexec.New(p)
	for i := 0; i < 5; i++ {
		e.Step()
	}
	e.Reset()
	e.Reset()
	assert.Equal(t, uint32(0), e.DiagnosticChecksum())
}

func TestOffsetStaysWithinTapeBoundsAcrossManySteps(t *testing.T) {
	p := singleStateSelfLoopProgram(3)
	e := astexec.New(p)
	for i := 0; i < 100; i++ {
		e.Step()
		state := e.DumpState()
		assert.NotEmpty(t, state)
	}
}

func singleStateSelfLoopProgram(length uint32) program.Program {
	return program.Program{
		InitialState:  "A",
		ChecksumDelay: length,
		StateOrder:    []program.Name{"A"},
		States: map[program.Name]program.State{
			"A": {Name: "A", Actions: map[int]program.StateAction{
				0: {WriteValue: 1, MoveDirection: 1, NextState: "A"},
				1: {WriteValue: 1, MoveDirection: 1, NextState: "A"},
			}},
		},
	}
}
