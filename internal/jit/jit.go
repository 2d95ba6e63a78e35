package jit

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// log carries this package's diagnostic path: finalize progress and
// relocation patching. Parse/assembly errors still return as values;
// this is progress/timing narration only.
var log = logrus.New()

// codeBufferSize is the fixed capacity of the JIT's executable memory
// region. 16 KiB comfortably fits every state function this puzzle's
// programs need.
const codeBufferSize = 16 * 1024

// relocation is a pending patch: turn a placeholder written at emission
// time into an absolute or PC-relative address once every symbol the
// code references has been defined.
type relocation struct {
	absolute bool
	offset   int
	symbol   string
	width    uint8 // 1, 2, 4 (relative) or 8 (absolute)
}

// symbolEntry is what the symbol table actually stores: a resolved
// address, and — if that address falls inside the code buffer — the
// offset from the buffer's base.
type symbolEntry struct {
	address      uintptr
	insideBuffer bool
	bufferOffset uint32
}

// buffer is an owned byte region created by AddConstant/AddBuffer.
type buffer struct {
	name string
	data []byte
}

// Jit owns one executable memory region, a symbol table, a relocation
// list, and a set of named scratch/constant buffers. It is constructed
// empty, receives emit_* calls interleaved with symbol definitions, is
// finalized exactly once, and is then safe to Call into.
type Jit struct {
	code       []byte // mmap'd region, RW until finalize, RX after
	offset     int
	finalized  bool
	symbols    map[string]symbolEntry
	relocs     []relocation
	buffers    map[string]*buffer
	bufferKeep [][]byte // keeps buffer backing arrays alive for the GC
}

// New allocates a fresh RW code buffer and an empty Jit.
func New() (*Jit, error) {
	mem, err := unix.Mmap(-1, 0, codeBufferSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("could not create code buffer for JIT: %w", err)
	}
	return &Jit{
		code:    mem,
		symbols: map[string]symbolEntry{},
		buffers: map[string]*buffer{},
	}, nil
}

// Close releases the executable memory region and the owned buffers.
// It must be called on every exit path, including error propagation
// during emission.
func (j *Jit) Close() error {
	if j.code == nil {
		return nil
	}
	err := unix.Munmap(j.code)
	j.code = nil
	j.buffers = nil
	j.bufferKeep = nil
	return err
}

// Offset returns the current write cursor, i.e. the number of bytes
// emitted so far.
func (j *Jit) Offset() int {
	return j.offset
}

// Finalized reports whether finalize_code has already run.
func (j *Jit) Finalized() bool {
	return j.finalized
}

// === Raw byte emission ===

// emit appends bytes at the cursor, advancing it. It is the single
// choke point every instruction emitter and every placeholder write
// passes through.
func (j *Jit) emit(bytes ...byte) error {
	if j.offset+len(bytes) >= len(j.code) {
		return fmt.Errorf("generated code too large")
	}
	copy(j.code[j.offset:], bytes)
	j.offset += len(bytes)
	return nil
}

func (j *Jit) emitByte(b byte) error { return j.emit(b) }

func (j *Jit) emitU16(v uint16) error {
	return j.emit(byte(v), byte(v>>8))
}

func (j *Jit) emitU32(v uint32) error {
	return j.emit(byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (j *Jit) emitU64(v uint64) error {
	return j.emit(byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// === Symbols ===

// EmitSymbol binds name to the current cursor position inside the code
// buffer.
func (j *Jit) EmitSymbol(name string) error {
	return j.bindSymbol(name, symbolEntry{
		address:      j.bufferAddr(j.offset),
		insideBuffer: true,
		bufferOffset: uint32(j.offset),
	})
}

// EmitSymbolAt binds name to an external memory location: a host
// variable, a C function pointer, anything the caller guarantees will
// outlive any invocation of code that references it. The JIT does not
// take ownership of this memory.
func (j *Jit) EmitSymbolAt(name string, address uintptr) error {
	return j.bindSymbol(name, symbolEntry{address: address})
}

func (j *Jit) bindSymbol(name string, entry symbolEntry) error {
	if _, exists := j.symbols[name]; exists {
		return fmt.Errorf("re-defined symbol %s", name)
	}
	j.symbols[name] = entry
	return nil
}

// Buffer returns the live backing bytes of a named owned buffer created
// by AddConstant/AddBuffer, letting Go code read or write the same
// memory the generated code addresses through the symbol table.
func (j *Jit) Buffer(name string) ([]byte, bool) {
	b, ok := j.buffers[name]
	if !ok {
		return nil, false
	}
	return b.data, true
}

// ResolvedAddress looks up a previously defined symbol or named buffer.
// Buffers take precedence, matching the lookup order of the original
// jit's symbol() accessor.
func (j *Jit) ResolvedAddress(name string) (uintptr, bool) {
	if b, ok := j.buffers[name]; ok {
		return bufAddr(b.data), true
	}
	if s, ok := j.symbols[name]; ok {
		return s.address, true
	}
	return 0, false
}

// emitSymbolRef marks the next 8 bytes — currently written as a
// placeholder — for absolute patching to symbol.address at finalize.
func (j *Jit) emitSymbolRef(name string) error {
	j.relocs = append(j.relocs, relocation{
		absolute: true,
		offset:   j.offset,
		symbol:   name,
		width:    8,
	})
	return j.emitU64(0xdeadbeef1badf00d)
}

// emitSymbolRelativeRef marks the next width bytes for relative
// patching: target - (patch_site + width).
func (j *Jit) emitSymbolRelativeRef(name string, width uint8) error {
	j.relocs = append(j.relocs, relocation{
		offset: j.offset,
		symbol: name,
		width:  width,
	})
	switch width {
	case 1:
		return j.emitByte(0xde)
	case 2:
		return j.emitU16(0xdead)
	case 4:
		return j.emitU32(0xdeadbeef)
	default:
		return fmt.Errorf("invalid relative reference width %d", width)
	}
}

// === Named buffers ===

// AddConstant allocates an owned, null-terminated byte region holding
// value's bytes and binds name to it — used for the state-name string
// constants the JIT executor attaches to every compiled state.
func (j *Jit) AddConstant(name string, value string) error {
	data := make([]byte, len(value)+1)
	copy(data, value)
	return j.addBuffer(name, data)
}

// AddBuffer allocates an owned, zeroed scratch region of size bytes and
// binds name to it.
func (j *Jit) AddBuffer(name string, size uint64) error {
	return j.addBuffer(name, make([]byte, size))
}

func (j *Jit) addBuffer(name string, data []byte) error {
	if _, exists := j.buffers[name]; exists {
		return fmt.Errorf("re-defined symbol %s", name)
	}
	b := &buffer{name: name, data: data}
	j.buffers[name] = b
	j.bufferKeep = append(j.bufferKeep, data)
	return nil
}

// === Finalize ===

// FinalizeCode resolves every pending relocation, switches the code
// region from RW to RX, and marks the Jit finalized. A second call is
// a no-op.
func (j *Jit) FinalizeCode() error {
	if j.finalized {
		return nil
	}
	log.WithFields(logrus.Fields{"code_bytes": j.offset, "relocations": len(j.relocs)}).Debug("finalizing code buffer")

	for _, ref := range j.relocs {
		target, ok := j.ResolvedAddress(ref.symbol)
		if !ok {
			log.WithField("symbol", ref.symbol).Error("relocation refers to undefined symbol")
			return fmt.Errorf("reference to undefined symbol %s", ref.symbol)
		}
		log.WithFields(logrus.Fields{"symbol": ref.symbol, "offset": ref.offset, "absolute": ref.absolute}).Debug("patching relocation")

		if ref.absolute {
			putU64(j.code[ref.offset:], uint64(target))
			continue
		}

		site := j.bufferAddr(ref.offset)
		distance := int64(target) - int64(site) - int64(ref.width)
		switch ref.width {
		case 1:
			if distance < -128 || distance > 127 {
				return fmt.Errorf("relative reference to symbol %s too far away", ref.symbol)
			}
			j.code[ref.offset] = byte(int8(distance))
		case 2:
			if distance < -32768 || distance > 32767 {
				return fmt.Errorf("relative reference to symbol %s too far away", ref.symbol)
			}
			putU16(j.code[ref.offset:], uint16(int16(distance)))
		case 4:
			if distance < -2147483648 || distance > 2147483647 {
				return fmt.Errorf("relative reference to symbol %s too far away", ref.symbol)
			}
			putU32(j.code[ref.offset:], uint32(int32(distance)))
		default:
			return fmt.Errorf("invalid symbol reference: relative reference with width %d", ref.width)
		}
	}

	if err := unix.Mprotect(j.code, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		log.WithError(err).Error("could not mark code buffer executable")
		return fmt.Errorf("could not mark code as executable: %w", err)
	}
	j.finalized = true
	log.Debug("code buffer finalized")
	return nil
}

// === Call protocol ===

// Call invokes the code at the buffer's base address with arg.
func (j *Jit) Call(arg uint64) (uint64, error) {
	return j.callAt(j.bufferAddr(0), arg)
}

// CallEntry invokes the function bound to the entry symbol with arg.
func (j *Jit) CallEntry(entry string, arg uint64) (uint64, error) {
	addr, ok := j.ResolvedAddress(entry)
	if !ok {
		return 0, fmt.Errorf("unknown entry point %s", entry)
	}
	return j.callAt(addr, arg)
}

// CallAddress invokes the function at a raw address previously
// resolved through ResolvedAddress. Used where the next function to
// run is decided dynamically by already-executed generated code,
// rather than known by name up front.
func (j *Jit) CallAddress(addr uintptr, arg uint64) (uint64, error) {
	return j.callAt(addr, arg)
}

func (j *Jit) callAt(location uintptr, arg uint64) (uint64, error) {
	base := j.bufferAddr(0)
	end := j.bufferAddr(len(j.code))
	if location < base || location >= end {
		return 0, fmt.Errorf("trying to call pointer outside of jit code area")
	}
	if !j.finalized {
		return 0, fmt.Errorf("trying to call jit before calling finalize()")
	}
	return callTrampoline(location, arg), nil
}

// DumpMemory returns a copy of everything emitted so far, for
// diagnostics.
func (j *Jit) DumpMemory() []byte {
	out := make([]byte, j.offset)
	copy(out, j.code[:j.offset])
	return out
}
