// Package disasm renders a JIT code buffer as a sequence of decoded
// x86-64 instructions, for the CLI's -v debug output. It has no role in
// execution; it exists purely to make the generated machine code
// legible while a program runs.
package disasm

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// Lines decodes code as a sequence of 64-bit instructions starting at
// offset 0, one line per instruction in "offset: mnemonic" form. A
// byte range the decoder rejects is reported inline and decoding
// resumes at the next byte, so one bad instruction doesn't hide the
// rest of the buffer.
func Lines(code []byte) []string {
	var out []string
	offset := 0
	for offset < len(code) {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil {
			out = append(out, fmt.Sprintf("%04x: <bad byte %02x>", offset, code[offset]))
			offset++
			continue
		}
		out = append(out, fmt.Sprintf("%04x: %s", offset, x86asm.GNUSyntax(inst, uint64(offset), nil)))
		offset += inst.Len
	}
	return out
}
