package abi

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// MainFunc is the callable native entry point produced by compilation:
// Result main(begin, end) where both pointers address the same
// contiguous 8-bit buffer. The caller retains ownership of the buffer;
// MainFunc neither frees, resizes, nor retains it beyond the call.
type MainFunc struct {
	entry uintptr
	// owner keeps the executable page (and anything it references,
	// such as callback trampolines) alive for as long as this
	// MainFunc is reachable. Generated code is only valid while its
	// driver, and this page, are alive.
	owner interface{}
}

// NewMainFunc wraps a compiled entry point. owner should be whatever
// object keeps the backing executable memory mapped.
func NewMainFunc(entry uintptr, owner interface{}) *MainFunc {
	return &MainFunc{entry: entry, owner: owner}
}

// WithOwner returns m with an additional object pinned alongside its
// existing owner, such as the callback trampolines the entry point's
// generated code calls into. It does not copy or move m's identity;
// callers should discard the receiver and use the returned value.
func (m *MainFunc) WithOwner(extra interface{}) *MainFunc {
	m.owner = []interface{}{m.owner, extra}
	return m
}

// Invoke calls the generated function on heap, using the host's C
// calling convention. heap must be zero-initialized for defined reads
// on untouched cells, and must not be resized or retained past the
// call.
func (m *MainFunc) Invoke(heap []byte) (Result, error) {
	if m == nil || m.entry == 0 {
		return 0, fmt.Errorf("abi: invoke called on an unlinked entry point")
	}

	var begin, end uintptr
	if n := len(heap); n > 0 {
		base := uintptr(unsafe.Pointer(&heap[0]))
		begin, end = base, base+uintptr(n)
	}

	r1, _, errno := purego.SyscallN(m.entry, begin, end)
	if errno != 0 {
		return 0, fmt.Errorf("abi: generated code trapped: %v", errno)
	}

	// keep heap and the code page alive across the raw call above.
	runtime.KeepAlive(heap)
	runtime.KeepAlive(m.owner)

	return Result(int64(r1)), nil
}
