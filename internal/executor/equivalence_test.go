package executor_test

import (
	"testing"

	_ "github.com/jkrafczyk/aoc2017/internal/astexec"
	_ "github.com/jkrafczyk/aoc2017/internal/bytecode"
	"github.com/jkrafczyk/aoc2017/internal/executor"
	_ "github.com/jkrafczyk/aoc2017/internal/jitexec"
	"github.com/jkrafczyk/aoc2017/internal/parser"
	"github.com/jkrafczyk/aoc2017/internal/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllExecutorsAgreeOnSampleProgram runs the AoC-2017 sample program
// to completion on every registered executor and checks they all reach
// the same diagnostic checksum — the property the bytecode and JIT
// executors exist to be validated against the AST interpreter for.
func TestAllExecutorsAgreeOnSampleProgram(t *testing.T) {
	p, err := parser.Load("../../testdata/sample.txt")
	require.NoError(t, err)
	assertAllExecutorsAgree(t, p, 3)
}

func TestAllExecutorsAgreeOnSingleStateSelfLoop(t *testing.T) {
	p := program.Program{
		InitialState:  "A",
		ChecksumDelay: 10,
		StateOrder:    []program.Name{"A"},
		States: map[program.Name]program.State{
			"A": {Name: "A", Actions: map[int]program.StateAction{
				0: {WriteValue: 1, MoveDirection: 1, NextState: "A"},
				1: {WriteValue: 1, MoveDirection: 1, NextState: "A"},
			}},
		},
	}
	assertAllExecutorsAgree(t, p, 10)
}

func TestAllExecutorsAgreeOnPureLeftWrap(t *testing.T) {
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
	assertAllExecutorsAgree(t, p, 4)
}

func TestAllExecutorsAgreeOnEraseAfterWrite(t *testing.T) {
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
	assertAllExecutorsAgree(t, p, 0, 8)
}

// assertAllExecutorsAgree runs p for p.ChecksumDelay steps on every
// registered executor, unless an explicit step count is given, and
// asserts every one lands on wantChecksum.
func assertAllExecutorsAgree(t *testing.T, p program.Program, wantChecksum uint32, steps ...uint32) {
	t.Helper()
	n := p.ChecksumDelay
	if len(steps) > 0 {
		n = steps[0]
	}

	for _, name := range executor.Names() {
		e, err := executor.Get(name, p)
		require.NoErrorf(t, err, "executor %s", name)

		type closer interface{ Close() error }
		if c, ok := e.(closer); ok {
			defer c.Close()
		}

		for i := uint32(0); i < n; i++ {
			e.Step()
		}
		assert.Equalf(t, wantChecksum, e.DiagnosticChecksum(), "executor %s disagreed", name)
	}
}
