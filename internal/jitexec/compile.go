package jitexec

import (
	"github.com/jkrafczyk/aoc2017/internal/jit"
	"github.com/jkrafczyk/aoc2017/internal/program"
)

// compileStateAction emits the body for a single (value, action) slot:
// write the new tape value, point state_name/state_func at the next
// state, move the tape head, and jump to the state function's cleanup
// label.
func compileStateAction(j *jit.Jit, action program.StateAction, cleanupLabel string) error {
	if err := j.MovImm64(jit.RAX, uint64(action.WriteValue)); err != nil {
		return err
	}
	if err := j.MovByteStoreIndexed(jit.R10, jit.R11); err != nil {
		return err
	}

	if err := j.MovSymbol(jit.RAX, jit.Sym("state_name_"+string(action.NextState))); err != nil {
		return err
	}
	if err := j.MovStore(jit.Indirect{Base: jit.R12, Index: jit.NoReg}, jit.RAX); err != nil {
		return err
	}

	if err := j.MovSymbol(jit.RAX, jit.Sym("state_"+string(action.NextState))); err != nil {
		return err
	}
	if err := j.MovStore(jit.Indirect{Base: jit.R14, Index: jit.NoReg}, jit.RAX); err != nil {
		return err
	}

	if action.MoveDirection > 0 {
		if err := j.Inc(jit.R10); err != nil {
			return err
		}
	} else {
		if err := j.Dec(jit.R10); err != nil {
			return err
		}
	}

	return j.JmpSymbol(jit.Sym(cleanupLabel))
}

// compileState emits the full native function for one program state,
// plus the null-terminated constant holding its name.
func compileState(j *jit.Jit, st program.State) error {
	name := string(st.Name)

	if0 := "_state_" + name + "_if0"
	if1 := "_state_" + name + "_if1"
	cleanup := "_state_" + name + "_cleanup"
	fixUnderflow := "_state_" + name + "_fix_underflow"
	fixOverflow := "_state_" + name + "_fix_overflow"
	offsetFixed := "_state_" + name + "_offset_fixed"

	err := j.EmitFunction("state_"+name, 0, func(j *jit.Jit, _ string, _ string) error {
		// Locals: R9=&tape_offset R10=tape_offset R11=&tape
		// R12=&state_name R14=&state_func R15=tape_size
		if err := j.MovSymbol(jit.R9, jit.Sym("tape_offset")); err != nil {
			return err
		}
		if err := j.MovLoad(jit.R10, jit.Indirect{Base: jit.R9, Index: jit.NoReg}); err != nil {
			return err
		}
		if err := j.MovSymbol(jit.R11, jit.Sym("tape")); err != nil {
			return err
		}
		if err := j.MovSymbol(jit.R12, jit.Sym("state_name")); err != nil {
			return err
		}
		if err := j.MovSymbol(jit.R15, jit.Sym("tape_size")); err != nil {
			return err
		}
		if err := j.MovLoad(jit.R15, jit.Indirect{Base: jit.R15, Index: jit.NoReg}); err != nil {
			return err
		}
		if err := j.MovSymbol(jit.R14, jit.Sym("state_func")); err != nil {
			return err
		}

		// Load the cell under the head into AL.
		if err := j.MovImm64(jit.RAX, 0); err != nil {
			return err
		}
		if err := j.MovByteLoadIndexed(jit.R10, jit.R11); err != nil {
			return err
		}
		if err := j.CmpImm(jit.RAX, 0); err != nil {
			return err
		}
		if err := j.JccSymbol(jit.CondNotEqual, jit.Sym(if1)); err != nil {
			return err
		}

		if err := j.EmitSymbol(if0); err != nil {
			return err
		}
		if err := compileStateAction(j, st.Actions[0], cleanup); err != nil {
			return err
		}

		if err := j.EmitSymbol(if1); err != nil {
			return err
		}
		if err := compileStateAction(j, st.Actions[1], cleanup); err != nil {
			return err
		}

		if err := j.EmitSymbol(cleanup); err != nil {
			return err
		}

		// Fix up the tape offset on under/overflow. R10 is compared
		// signed against 0: decrementing past the low end wraps to a
		// value that reads as negative, which is exactly what this
		// check relies on.
		if err := j.CmpImm(jit.R10, 0); err != nil {
			return err
		}
		if err := j.JccSymbol(jit.CondLess, jit.Sym(fixUnderflow)); err != nil {
			return err
		}
		if err := j.CmpRR(jit.R10, jit.R15); err != nil {
			return err
		}
		if err := j.JccSymbol(jit.CondAboveEqual, jit.Sym(fixOverflow)); err != nil {
			return err
		}
		if err := j.JmpSymbol(jit.Sym(offsetFixed)); err != nil {
			return err
		}

		if err := j.EmitSymbol(fixUnderflow); err != nil {
			return err
		}
		if err := j.MovRR(jit.R10, jit.R15); err != nil {
			return err
		}
		if err := j.Dec(jit.R10); err != nil {
			return err
		}
		if err := j.JmpSymbol(jit.Sym(offsetFixed)); err != nil {
			return err
		}

		if err := j.EmitSymbol(fixOverflow); err != nil {
			return err
		}
		if err := j.MovImm64(jit.R10, 0); err != nil {
			return err
		}

		if err := j.EmitSymbol(offsetFixed); err != nil {
			return err
		}
		if err := j.MovStore(jit.Indirect{Base: jit.R9, Index: jit.NoReg}, jit.R10); err != nil {
			return err
		}
		return j.MovImm64(jit.RAX, 0)
	})
	if err != nil {
		return err
	}

	return j.AddConstant("state_name_"+name, name)
}
