package program_test

import (
	"os"
	"testing"

	"github.com/jkrafczyk/aoc2017/internal/program"
	"github.com/stretchr/testify/assert"
)

func TestReadLinesSplitsOnCRLFAndLF(t *testing.T) {
	path := t.TempDir() + "/mixed.txt"
	assert.NoError(t, os.WriteFile(path, []byte("a\r\nb\nc"), 0o644))

	lines, err := program.ReadLines(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestReadLinesMissingFile(t *testing.T) {
	_, err := program.ReadLines("/nonexistent/path/does-not-exist.txt")
	assert.Error(t, err)
}

func TestProgramStringIncludesEveryState(t *testing.T) {
	p := program.Program{
		InitialState:  "A",
		ChecksumDelay: 6,
		StateOrder:    []program.Name{"A", "B"},
		States: map[program.Name]program.State{
			"A": {Name: "A", Actions: map[int]program.StateAction{
				0: {WriteValue: 1, MoveDirection: 1, NextState: "B"},
				1: {WriteValue: 0, MoveDirection: -1, NextState: "B"},
			}},
			"B": {Name: "B", Actions: map[int]program.StateAction{
				0: {WriteValue: 1, MoveDirection: -1, NextState: "A"},
				1: {WriteValue: 1, MoveDirection: 1, NextState: "A"},
			}},
		},
	}

	s := p.String()
	assert.Contains(t, s, "Initial state: A")
	assert.Contains(t, s, "Checksum after 6 steps")
	assert.Contains(t, s, "A:")
	assert.Contains(t, s, "B:")
}
