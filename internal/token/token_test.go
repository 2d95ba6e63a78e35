package token_test

import (
	"testing"

	"github.com/jkrafczyk/aoc2017/internal/token"
	"github.com/stretchr/testify/assert"
)

func TestNextClassifiesEveryProduction(t *testing.T) {
	lines := []string{
		"Begin in state A.",
		"Perform a diagnostic checksum after 6 steps.",
		"",
		"In state A:",
		"  If the current value is 0:",
		"    - Write the value 1.",
		"    - Move one slot to the right.",
		"    - Continue with state B.",
	}
	tz := token.New(lines)

	want := []struct {
		kind token.Kind
		arg  string
	}{
		{token.InitialState, "A"},
		{token.ChecksumDelay, "6"},
		{token.StateDeclaration, "A"},
		{token.StateRequirement, "0"},
		{token.StateWrite, "1"},
		{token.StateMovement, "right"},
		{token.StateNext, "B"},
		{token.EndOfStream, ""},
	}
	for i, w := range want {
		tok := tz.Next()
		assert.Equalf(t, w.kind, tok.Kind, "token %d", i)
		assert.Equalf(t, w.arg, tok.Arg, "token %d", i)
	}
}

func TestNextSkipsBlankLines(t *testing.T) {
	tz := token.New([]string{"", "   ", "Begin in state X."})
	tok := tz.Next()
	assert.Equal(t, token.InitialState, tok.Kind)
	assert.Equal(t, "X", tok.Arg)
	assert.Equal(t, 3, tok.Line)
}

func TestNextReturnsErrorForUnrecognizedLine(t *testing.T) {
	tz := token.New([]string{"this is not a valid line"})
	tok := tz.Next()
	assert.Equal(t, token.Error, tok.Kind)
	assert.Equal(t, "this is not a valid line", tok.RawText)
}

func TestCurrentReturnsLastToken(t *testing.T) {
	tz := token.New([]string{"Begin in state A."})
	first := tz.Next()
	assert.Equal(t, first, tz.Current())
}

func TestNextPastEndOfStreamKeepsReturningEndOfStream(t *testing.T) {
	tz := token.New([]string{"Begin in state A."})
	tz.Next()
	first := tz.Next()
	second := tz.Next()
	assert.Equal(t, token.EndOfStream, first.Kind)
	assert.Equal(t, token.EndOfStream, second.Kind)
}

func TestMoveDirectionLeftRecognized(t *testing.T) {
	tz := token.New([]string{"    - Move one slot to the left."})
	tok := tz.Next()
	assert.Equal(t, token.StateMovement, tok.Kind)
	assert.Equal(t, "left", tok.Arg)
}
