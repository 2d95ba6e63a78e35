package jit

// === push / pop / inc / dec ===

// Push emits `push reg`.
func (j *Jit) Push(reg Register) error {
	if reg.extended() {
		if err := j.emitByte(rex(false, false, false, true)); err != nil {
			return err
		}
	}
	return j.emitByte(0x50 | reg.low3())
}

// Pop emits `pop reg`.
func (j *Jit) Pop(reg Register) error {
	if reg.extended() {
		if err := j.emitByte(rex(false, false, false, true)); err != nil {
			return err
		}
	}
	return j.emitByte(0x58 | reg.low3())
}

// Inc emits `inc reg`.
func (j *Jit) Inc(reg Register) error {
	if err := j.emitByte(rex(true, false, false, reg.extended())); err != nil {
		return err
	}
	return j.emit(0xff, 0xc0|reg.low3())
}

// Dec emits `dec reg`.
func (j *Jit) Dec(reg Register) error {
	if err := j.emitByte(rex(true, false, false, reg.extended())); err != nil {
		return err
	}
	return j.emit(0xff, 0xc8|reg.low3())
}
