// Package nativeadapter is the native runtime adapter: it dynamically
// opens a shared object at the descriptor's canonical path and resolves
// the two fixed C-ABI symbols modules export, start and free_string,
// calling them with manual pointer lifetime management.
//
// No example repository in the retrieval pack performs C-ABI dynamic
// loading; purego is brought in as the standard pure-Go way to resolve
// dynamic-library symbols and call them without cgo. The scoped-release
// discipline below (defer-based, fires on every exit path including a
// panic while parsing output) follows the resource-handling idiom the
// reference backend applies to its own transaction handles.
package nativeadapter

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Library wraps one loaded shared object and its two resolved symbols.
type Library struct {
	handle     uintptr
	startNoArg func() uintptr
	startEnv   func(env uintptr) uintptr
	freeString func(ptr uintptr)
}

// LoadWorker opens path and resolves the worker-shaped start() signature.
// A load failure here is fatal to the owning module (spec §4.3.b/§7).
func LoadWorker(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("loading shared object %q: %w", path, err)
	}

	lib := &Library{handle: handle}
	purego.RegisterLibFunc(&lib.startNoArg, handle, "start")
	purego.RegisterLibFunc(&lib.freeString, handle, "free_string")
	return lib, nil
}

// LoadRunner opens path and resolves the runner-shaped start(env) signature.
func LoadRunner(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("loading shared object %q: %w", path, err)
	}

	lib := &Library{handle: handle}
	purego.RegisterLibFunc(&lib.startEnv, handle, "start")
	purego.RegisterLibFunc(&lib.freeString, handle, "free_string")
	return lib, nil
}

// InvokeWorker calls start() with no arguments and returns the copied
// result string. The returned C pointer is passed to free_string exactly
// once, on every exit path, via defer.
func (l *Library) InvokeWorker() (result string, err error) {
	ptr := l.startNoArg()
	defer l.freeString(ptr)
	return cStringToGo(ptr), nil
}

// InvokeRunner materializes env into a NUL-terminated C buffer, calls
// start(env), reclaims the env buffer unconditionally, and releases the
// returned pointer via free_string on every exit path of this function.
// The release happens before InvokeRunner returns, so the caller only
// ever parses the copied Go string and a panic while parsing it cannot
// leak the C pointer.
func (l *Library) InvokeRunner(env string) (result string, err error) {
	envBuf := append([]byte(env), 0)
	envPtr := uintptr(unsafe.Pointer(&envBuf[0]))

	ptr := l.startEnv(envPtr)
	defer l.freeString(ptr)
	// envBuf's backing array must outlive the call made through its raw
	// uintptr; released here, unconditionally, once start has returned.
	runtime.KeepAlive(envBuf)

	return cStringToGo(ptr), nil
}

// cStringToGo copies a NUL-terminated C string into a Go string. It does
// not free ptr -- callers are responsible for that via free_string.
func cStringToGo(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}

	var length int
	for {
		b := *(*byte)(unsafe.Pointer(ptr + uintptr(length)))
		if b == 0 {
			break
		}
		length++
	}

	bytes := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), length)
	return string(bytes)
}
