package jit

// === add ===

// AddImm emits `add target, imm`, auto-selecting the imm8 encoding
// when the value fits in a signed byte and imm32 otherwise.
func (j *Jit) AddImm(target Register, imm int32) error {
	if err := j.emitByte(rex(true, false, false, target.extended())); err != nil {
		return err
	}
	if imm >= -128 && imm <= 127 {
		return j.emit(0x83, registerPair(RAX, target), byte(int8(imm)))
	}
	if err := j.emit(0x81, registerPair(RAX, target)); err != nil {
		return err
	}
	return j.emitU32(uint32(imm))
}

// AddRR emits `add target, addend`.
func (j *Jit) AddRR(target, addend Register) error {
	if err := j.emitByte(rex(true, addend.extended(), false, target.extended())); err != nil {
		return err
	}
	return j.emit(0x01, registerPair(addend, target))
}

// AddSymbol emits `add target, [rip+symbol]`.
func (j *Jit) AddSymbol(target Register, addend Symbol) error {
	if err := j.emitByte(rex(true, target.extended(), false, false)); err != nil {
		return err
	}
	if err := j.emit(0x03, modRM(0, target.low3(), RBP)); err != nil {
		return err
	}
	return j.emitSymbolRelativeRef(addend.Name, 4)
}

// === sub ===

// SubImm emits `sub target, imm`, auto-selecting imm8 vs imm32.
func (j *Jit) SubImm(target Register, imm int32) error {
	if err := j.emitByte(rex(true, false, false, target.extended())); err != nil {
		return err
	}
	if imm >= -128 && imm <= 127 {
		return j.emit(0x83, registerPair(RBP, target), byte(int8(imm)))
	}
	if err := j.emit(0x81, registerPair(RBP, target)); err != nil {
		return err
	}
	return j.emitU32(uint32(imm))
}

// SubRR emits `sub target, subtrahend`.
func (j *Jit) SubRR(target, subtrahend Register) error {
	if err := j.emitByte(rex(true, subtrahend.extended(), false, target.extended())); err != nil {
		return err
	}
	return j.emit(0x29, registerPair(subtrahend, target))
}

// SubSymbol emits `sub target, [rip+symbol]`.
func (j *Jit) SubSymbol(target Register, subtrahend Symbol) error {
	if err := j.emitByte(rex(true, target.extended(), false, false)); err != nil {
		return err
	}
	if err := j.emit(0x2b, modRM(0, target.low3(), RBP)); err != nil {
		return err
	}
	return j.emitSymbolRelativeRef(subtrahend.Name, 4)
}

// === mul / div ===

// Mul emits `mul arg` (unsigned RDX:RAX = RAX * arg).
func (j *Jit) Mul(arg Register) error {
	if err := j.emitByte(rex(true, false, false, arg.extended())); err != nil {
		return err
	}
	return j.emit(0xf7, registerPair(RSP, arg))
}

// Div emits `div arg` (unsigned RAX = RDX:RAX / arg, RDX = remainder).
func (j *Jit) Div(arg Register) error {
	if err := j.emitByte(rex(true, false, false, arg.extended())); err != nil {
		return err
	}
	return j.emit(0xf7, registerPair(RSI, arg))
}

// === cmp ===

// CmpImm emits `cmp r1, imm`, auto-selecting imm8 vs imm32.
func (j *Jit) CmpImm(r1 Register, imm int32) error {
	if err := j.emitByte(rex(true, false, false, r1.extended())); err != nil {
		return err
	}
	if imm >= -128 && imm <= 127 {
		return j.emit(0x83, 0xf8|r1.low3(), byte(int8(imm)))
	}
	if err := j.emit(0x81, 0xf8|r1.low3()); err != nil {
		return err
	}
	return j.emitU32(uint32(imm))
}

// CmpRR emits `cmp r1, r2`.
func (j *Jit) CmpRR(r1, r2 Register) error {
	if err := j.emitByte(rex(true, r2.extended(), false, r1.extended())); err != nil {
		return err
	}
	return j.emit(0x39, registerPair(r2, r1))
}

// CmpSymbol emits `cmp r1, [rip+symbol]`.
func (j *Jit) CmpSymbol(r1 Register, s Symbol) error {
	if err := j.emitByte(rex(true, r1.extended(), false, false)); err != nil {
		return err
	}
	if err := j.emit(0x3b, modRM(0, r1.low3(), RBP)); err != nil {
		return err
	}
	return j.emitSymbolRelativeRef(s.Name, 4)
}
