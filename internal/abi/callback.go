package abi

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// Thunks holds the two host callback addresses generated code embeds
// as call-instruction immediates. Once built they are constant for the
// lifetime of the generated code that references them.
type Thunks struct {
	WriteChar uintptr
	ReadChar  uintptr

	// keepAlive pins the Go closures purego.NewCallback wraps; the
	// runtime must never collect them while generated code can still
	// call through WriteChar/ReadChar.
	keepAlive []interface{}
}

// NewThunks builds C-ABI-callable trampolines for the two host
// callbacks, matching the fixed signatures generated code calls
// through: readChar(ptr) -> i64, writeChar(value) -> i64.
func NewThunks(write WriteFunc, read ReadFunc) *Thunks {
	writeTrampoline := func(value uintptr) uintptr {
		return uintptr(int64(write(byte(value))))
	}
	readTrampoline := func(ptr uintptr) uintptr {
		var b byte
		result := read(&b)
		if result == Success {
			*(*byte)(unsafe.Pointer(ptr)) = b
		}
		return uintptr(int64(result))
	}

	return &Thunks{
		WriteChar: purego.NewCallback(writeTrampoline),
		ReadChar:  purego.NewCallback(readTrampoline),
		keepAlive: []interface{}{writeTrampoline, readTrampoline},
	}
}
