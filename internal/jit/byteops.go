package jit

// MovByteStoreIndexed emits `mov [base+index], al`: an 8-bit store of
// AL's low byte through a SIB-addressed base+index operand. Only AL is
// supported; nothing built on top of this package's curated subset
// needs any other byte register.
func (j *Jit) MovByteStoreIndexed(base, index Register) error {
	if err := j.emitByte(rex(false, false, index.extended(), base.extended())); err != nil {
		return err
	}
	if err := j.emit(0x88, modRM(0, 0, RSP)); err != nil {
		return err
	}
	return j.emitByte(sib(0, index, base))
}

// MovByteLoadIndexed emits `mov al, [base+index]`, the load twin of
// MovByteStoreIndexed.
func (j *Jit) MovByteLoadIndexed(base, index Register) error {
	if err := j.emitByte(rex(false, false, index.extended(), base.extended())); err != nil {
		return err
	}
	if err := j.emit(0x8a, modRM(0, 0, RSP)); err != nil {
		return err
	}
	return j.emitByte(sib(0, index, base))
}
