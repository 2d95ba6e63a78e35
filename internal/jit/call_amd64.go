package jit

// callTrampoline invokes the native function at fn with a single u64
// argument, following the System V AMD64 calling convention: the
// argument goes in RDI, the result comes back in RAX. Implemented in
// call_amd64.s so the call crosses into foreign code without Go's own
// (different) internal calling convention getting in the way.
func callTrampoline(fn uintptr, arg uint64) uint64
