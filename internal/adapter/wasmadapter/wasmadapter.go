// Package wasmadapter is the bytecode runtime adapter: it compiles
// WebAssembly module bytes once and, on each invocation, runs the module
// inside a fresh WASI environment with stdout and stderr captured into
// in-memory buffers.
//
// Grounded on the WASM executor in the nmxmxh_v1 example, which wires the
// same wasmer-go engine for a single exported-function call; this adapter
// generalizes that into a full WASI environment so a module's stdout and
// stderr can be captured the way the host's worker and runner supervisors
// require.
package wasmadapter

import (
	"fmt"

	"github.com/wasmerio/wasmer-go/wasmer"
)

// Module wraps a compiled WebAssembly module. Compilation happens once;
// Invoke may be called any number of times, each time with a fresh
// WASI environment as required by spec §4.3.a.
type Module struct {
	name   string
	store  *wasmer.Store
	module *wasmer.Module
}

// Compile builds a reusable module handle from raw bytes. Failure here is
// fatal to the owning supervisor (spec §4.4/§4.5 adapter-setup tier).
func Compile(name string, bytes []byte) (*Module, error) {
	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)

	mod, err := wasmer.NewModule(store, bytes)
	if err != nil {
		return nil, fmt.Errorf("compiling wasm module %q: %w", name, err)
	}

	return &Module{name: name, store: store, module: mod}, nil
}

// Output is the captured result of one invocation.
type Output struct {
	Stdout string
	Stderr string
}

// Invoke runs the module to completion with empty arguments and an empty
// environment (spec §4.3.a), capturing stdout/stderr into buffers that
// are read back only after the module exits -- there is no incremental
// parsing of a running module's output.
func (m *Module) Invoke() (Output, error) {
	builder := wasmer.NewWasiStateBuilder(m.name).
		CaptureStdout().
		CaptureStderr()

	wasiEnv, err := builder.Finalize()
	if err != nil {
		return Output{}, fmt.Errorf("building wasi environment for %q: %w", m.name, err)
	}

	importObject, err := wasiEnv.GenerateImportObject(m.store, m.module)
	if err != nil {
		return Output{}, fmt.Errorf("generating import object for %q: %w", m.name, err)
	}

	instance, err := wasmer.NewInstance(m.module, importObject)
	if err != nil {
		return Output{}, fmt.Errorf("instantiating %q: %w", m.name, err)
	}
	defer instance.Close()

	start, err := instance.Exports.GetWasiStartFunction()
	if err != nil {
		return Output{}, fmt.Errorf("resolving wasi start function for %q: %w", m.name, err)
	}

	if _, err := start(); err != nil {
		return Output{}, fmt.Errorf("running %q: %w", m.name, err)
	}

	stdout := wasiEnv.ReadStdout()
	stderr := wasiEnv.ReadStderr()

	return Output{Stdout: string(stdout), Stderr: string(stderr)}, nil
}
