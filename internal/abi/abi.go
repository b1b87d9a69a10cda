// Package abi is the contract between generated code and the host:
// the calling convention for the I/O thunks, tape pointer semantics,
// and the exit-code enumeration. Its numeric Result values are part
// of the wire contract with generated machine code and must never be
// renumbered.
package abi

// Result is the closed enumeration generated code stores into its
// return register. The numeric values are stable ABI.
type Result int64

const (
	Success        Result = 0
	WriteError     Result = 1
	ReadError      Result = 2
	MemoryUnderrun Result = 3
	OutOfMemory    Result = 4
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case WriteError:
		return "WriteError"
	case ReadError:
		return "ReadError"
	case MemoryUnderrun:
		return "MemoryUnderrun"
	case OutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// WriteFunc emits one byte to the host's output. It returns Success or
// WriteError and must not panic across the call boundary from generated
// code.
type WriteFunc func(b byte) Result

// ReadFunc reads one byte from the host's input into *out. It returns
// Success or ReadError; on error *out is unspecified.
type ReadFunc func(out *byte) Result

// Context bundles the two host callbacks a compiled program calls
// into. The instruction source is supplied separately to whatever
// compiles against this Context, since it is consumed once and is not
// part of the ABI the generated code itself depends on.
type Context struct {
	Write WriteFunc
	Read  ReadFunc
}
