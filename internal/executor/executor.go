// Package executor defines the shared interface all three strategies
// (AST, bytecode, JIT) implement, and a name -> factory registry so the
// CLI can pick one by string.
package executor

import "github.com/jkrafczyk/aoc2017/internal/program"

// Executor is the capability set every strategy offers: advance the
// machine one step, restore it to its initial state, and read the
// current diagnostic checksum.
type Executor interface {
	Step()
	Reset()
	DiagnosticChecksum() uint32
}

// Factory builds a fresh Executor over a given Program. Construction may
// fail (the bytecode executor rejects programs with more than 32
// states), hence the error return.
type Factory func(program.Program) (Executor, error)

var registry = map[string]Factory{}

// Register adds a named factory to the registry. Called from each
// executor package's init — a name→factory registry, mirroring a
// typical compiler backend-dispatch table.
func Register(name string, f Factory) {
	registry[name] = f
}

// Get instantiates the named executor over program, or reports that the
// name is unknown.
func Get(name string, p program.Program) (Executor, error) {
	f, ok := registry[name]
	if !ok {
		return nil, &UnknownExecutorError{Name: name}
	}
	return f(p)
}

// Names returns the registered executor names in a stable order.
func Names() []string {
	// Fixed order rather than map iteration: the CLI's usage text and
	// "benchmark all executors" loop should not reorder between runs.
	order := []string{"ast", "bytecode", "jit"}
	var out []string
	for _, n := range order {
		if _, ok := registry[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// UnknownExecutorError is returned by Get for an unregistered name.
type UnknownExecutorError struct {
	Name string
}

func (e *UnknownExecutorError) Error() string {
	return "unknown executor: " + e.Name
}
