package jit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJit(t *testing.T) *Jit {
	t.Helper()
	j, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

// TestSimpleFunctionReturnsArgUnchanged exercises the full pipeline:
// emit, finalize, call. `mov rax, rdi; ret` should be the identity
// function under the SysV calling convention this JIT targets.
func TestSimpleFunctionReturnsArgUnchanged(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.MovRR(RAX, RDI))
	require.NoError(t, j.Ret())
	require.NoError(t, j.FinalizeCode())

	result, err := j.Call(0x2a)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2a), result)
}

// TestAddImmOnArgument checks an imm8 add against a live call.
func TestAddImmOnArgument(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.MovRR(RAX, RDI))
	require.NoError(t, j.AddImm(RAX, 100))
	require.NoError(t, j.Ret())
	require.NoError(t, j.FinalizeCode())

	result, err := j.Call(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(101), result)
}

// TestCallBeforeFinalizeFails guards the "never execute RW memory"
// invariant.
func TestCallBeforeFinalizeFails(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.Ret())
	_, err := j.Call(0)
	assert.Error(t, err)
}

// TestFinalizeIsIdempotent checks a second FinalizeCode call is a no-op
// rather than an error or a double mprotect.
func TestFinalizeIsIdempotent(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.MovRR(RAX, RDI))
	require.NoError(t, j.Ret())
	require.NoError(t, j.FinalizeCode())
	assert.NoError(t, j.FinalizeCode())
	assert.True(t, j.Finalized())
}

// TestFinalizeFailsOnUndefinedSymbol ensures a dangling relocation is
// caught at finalize rather than silently patched with garbage.
func TestFinalizeFailsOnUndefinedSymbol(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.JmpSymbol(Sym("nowhere")))
	err := j.FinalizeCode()
	assert.Error(t, err)
}

// TestCallEntryDispatchesToNamedFunction builds two functions in one
// buffer and calls the second one directly by name.
func TestCallEntryDispatchesToNamedFunction(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.MovImm64(RAX, 111))
	require.NoError(t, j.Ret())
	require.NoError(t, j.EmitSymbol("second"))
	require.NoError(t, j.MovImm64(RAX, 222))
	require.NoError(t, j.Ret())
	require.NoError(t, j.FinalizeCode())

	result, err := j.CallEntry("second", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(222), result)

	result, err = j.Call(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(111), result)
}

// TestReDefiningSymbolFails locks in the "symbols are write-once"
// invariant shared by EmitSymbol, EmitSymbolAt, AddConstant and
// AddBuffer.
func TestReDefiningSymbolFails(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.EmitSymbol("once"))
	err := j.EmitSymbol("once")
	assert.Error(t, err)
}

// TestAddConstantBufferPrecedesSymbolLookup matches the original
// lookup order: a buffer name shadows a same-named code symbol.
func TestAddConstantBufferPrecedesSymbolLookup(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.AddConstant("label", "hello"))
	require.NoError(t, j.EmitSymbol("label"))
	addr, ok := j.ResolvedAddress("label")
	require.True(t, ok)
	assert.NotZero(t, addr)
	data, _ := j.Buffer("label")
	assert.Equal(t, bufAddr(data), addr)
}

// TestRelativeRelocationOutOfRangeFails pins the range-check behavior
// for a 1-byte relative relocation: the target is forced far enough
// away that the signed-byte distance cannot represent it.
func TestRelativeRelocationOutOfRangeFails(t *testing.T) {
	j := newTestJit(t)
	require.NoError(t, j.emitSymbolRelativeRef("far", 1))
	for i := 0; i < 1000; i++ {
		require.NoError(t, j.emitByte(0x90))
	}
	require.NoError(t, j.EmitSymbol("far"))
	err := j.FinalizeCode()
	assert.Error(t, err)
}
