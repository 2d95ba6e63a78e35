package jit

import "fmt"

// argRegisters is the System V AMD64 integer argument order.
var argRegisters = [...]Register{RDI, RSI, RDX, RCX, R8, R9}

// FunctionBody emits a function's body. It receives the Jit, the
// function's own name, and the label the body should jump to in order
// to return early.
type FunctionBody func(j *Jit, name string, endLabel string) error

// EmitFunction emits a complete SysV AMD64 function: a prologue that
// reserves nLocals local slots (16-byte aligned) and saves the
// callee-saved registers this JIT's generated code touches, the body,
// and the matching epilogue. The body may `JmpSymbol` to endLabel to
// return early.
func (j *Jit) EmitFunction(name string, nLocals uint8, body FunctionBody) error {
	stackRequirements := int32(16 + 8*int(nLocals))
	for stackRequirements%16 != 0 {
		stackRequirements++
	}
	endLabel := "_" + name + "_end"
	startLabel := "_" + name + "_start"

	if err := j.EmitSymbol(name); err != nil {
		return err
	}
	if err := j.EmitSymbol(startLabel); err != nil {
		return err
	}
	if err := j.Push(RBP); err != nil {
		return err
	}
	if err := j.MovRR(RBP, RSP); err != nil {
		return err
	}
	if err := j.SubImm(RSP, stackRequirements); err != nil {
		return err
	}

	// Callee-saved registers used by compiled state bodies. R11 is
	// saved too, purely to keep the stack 16-byte aligned here.
	for _, reg := range []Register{R11, R12, R13, R14, R15, RBX} {
		if err := j.Push(reg); err != nil {
			return err
		}
	}

	if err := body(j, name, endLabel); err != nil {
		return fmt.Errorf("emitting body of %s: %w", name, err)
	}

	if err := j.EmitSymbol(endLabel); err != nil {
		return err
	}
	for _, reg := range []Register{RBX, R15, R14, R13, R12, R11} {
		if err := j.Pop(reg); err != nil {
			return err
		}
	}

	if err := j.AddImm(RSP, stackRequirements); err != nil {
		return err
	}
	if err := j.Pop(RBP); err != nil {
		return err
	}
	return j.Ret()
}

// EmitFunctionCall loads up to six u64 arguments into
// RDI,RSI,RDX,RCX,R8,R9, loads fn's address into RAX, and calls it.
func (j *Jit) EmitFunctionCall(fn Symbol, args ...uint64) error {
	if len(args) > len(argRegisters) {
		return fmt.Errorf("no explicit support for calling functions with more than %d arguments", len(argRegisters))
	}
	for i, v := range args {
		if err := j.MovImm64(argRegisters[i], v); err != nil {
			return err
		}
	}
	if err := j.MovSymbol(RAX, fn); err != nil {
		return err
	}
	return j.CallReg(RAX)
}
