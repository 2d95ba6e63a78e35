package cemit_test

import (
	"strings"
	"testing"

	"github.com/jkrafczyk/aoc2017/internal/cemit"
	"github.com/jkrafczyk/aoc2017/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesOneCaseLabelPerState(t *testing.T) {
	p, err := parser.Load("../../testdata/sample.txt")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, cemit.Generate(p, &out))

	text := out.String()
	assert.Contains(t, text, "char tape[6];")
	assert.Equal(t, len(p.StateOrder), strings.Count(text, "case "))
	assert.Contains(t, text, "Checksum: %i")
	assert.Contains(t, text, "#include <time.h>")
}
