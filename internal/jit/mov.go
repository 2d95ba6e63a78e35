package jit

import "fmt"

// === mov ===

// MovImm64 emits `mov reg, imm64` (REX.W + B8+rd + imm64).
func (j *Jit) MovImm64(reg Register, val uint64) error {
	if err := j.emitByte(rex(true, false, false, reg.extended())); err != nil {
		return err
	}
	if err := j.emitByte(0xb8 + reg.low3()); err != nil {
		return err
	}
	return j.emitU64(val)
}

// MovRR emits `mov dest, src` (REX.W + 89 /r).
func (j *Jit) MovRR(dest, src Register) error {
	if err := j.emitByte(rex(true, src.extended(), false, dest.extended())); err != nil {
		return err
	}
	return j.emit(0x89, registerPair(src, dest))
}

// MovSymbol emits `mov reg, imm64` with the immediate deferred to an
// absolute relocation resolving to symbol's address.
func (j *Jit) MovSymbol(reg Register, sym Symbol) error {
	if err := j.emitByte(rex(true, false, false, reg.extended())); err != nil {
		return err
	}
	if err := j.emitByte(0xb8 + reg.low3()); err != nil {
		return err
	}
	return j.emitSymbolRef(sym.Name)
}

// indirectOperand emits the REX/opcode/ModRM(/SIB) sequence shared by
// `mov reg, [mem]` and `mov [mem], reg`: regOperand occupies the reg
// field, addr supplies base (and optional index).
//
// [RBP]/[R13] with no explicit displacement is architecturally
// unrepresentable (mod=00, rm=101 means RIP-relative, not "no base"),
// so that combination is rejected rather than silently miscompiled.
func (j *Jit) indirectOperand(regOperand Register, addr Indirect, opcode byte) error {
	hasIndex := addr.Index != NoReg
	if err := j.emitByte(rex(true, regOperand.extended(), hasIndex && addr.Index.extended(), addr.Base.extended())); err != nil {
		return err
	}
	if err := j.emitByte(opcode); err != nil {
		return err
	}

	if addr.Base == RBP || addr.Base == R13 {
		return fmt.Errorf("invalid operand combination: [%v] requires a displacement", addr.Base)
	}

	if addr.Base == RSP || addr.Base == R12 || hasIndex {
		if err := j.emitByte(modRM(0, regOperand.low3(), RSP)); err != nil {
			return err
		}
		if !hasIndex {
			return j.emitByte(sib(0, RSP, addr.Base))
		}
		return j.emitByte(sib(0, addr.Index, addr.Base))
	}

	return j.emitByte(regOperand.low3()<<3 | addr.Base.low3())
}

// MovLoad emits `mov dest, [src]`.
func (j *Jit) MovLoad(dest Register, src Indirect) error {
	return j.indirectOperand(dest, src, 0x8b)
}

// MovStore emits `mov [dest], src`.
func (j *Jit) MovStore(dest Indirect, src Register) error {
	return j.indirectOperand(src, dest, 0x89)
}

// === lea ===

// LeaDisp32 emits `lea reg, [rip+disp32]` (mod=00, rm=101 is
// RIP-relative in 64-bit mode; there is no "disp32, no base" form).
func (j *Jit) LeaDisp32(reg Register, displacement int32) error {
	if err := j.emitByte(rex(true, reg.extended(), false, false)); err != nil {
		return err
	}
	if err := j.emit(0x8d, modRM(0, reg.low3(), RBP)); err != nil {
		return err
	}
	return j.emitU32(uint32(displacement))
}

// LeaSymbol emits `lea reg, [rip+disp32]` with the displacement
// deferred to a relative relocation against symbol.
func (j *Jit) LeaSymbol(reg Register, sym Symbol) error {
	if err := j.emitByte(rex(true, reg.extended(), false, false)); err != nil {
		return err
	}
	if err := j.emit(0x8d, modRM(0, reg.low3(), RBP)); err != nil {
		return err
	}
	return j.emitSymbolRelativeRef(sym.Name, 4)
}

// LeaIndirect emits `lea reg, [base(+index)]` via a SIB byte.
func (j *Jit) LeaIndirect(reg Register, addr Indirect) error {
	hasIndex := addr.Index != NoReg
	if err := j.emitByte(rex(true, reg.extended(), hasIndex && addr.Index.extended(), addr.Base.extended())); err != nil {
		return err
	}
	if err := j.emit(0x8d, modRM(0, reg.low3(), RSP)); err != nil {
		return err
	}
	index := RSP
	if hasIndex {
		index = addr.Index
	}
	return j.emitByte(sib(0, index, addr.Base))
}
