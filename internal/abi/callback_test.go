package abi

import (
	"testing"
	"unsafe"

	"github.com/ebitengine/purego"
)

func TestThunksRoundTripThroughCABI(t *testing.T) {
	var written []byte
	write := func(b byte) Result {
		written = append(written, b)
		return Success
	}
	read := func(p *byte) Result {
		*p = 'z'
		return Success
	}

	thunks := NewThunks(write, read)

	r1, _, errno := purego.SyscallN(thunks.WriteChar, uintptr('Q'))
	if errno != 0 {
		t.Fatalf("calling WriteChar trampoline trapped: %v", errno)
	}
	if Result(int64(r1)) != Success {
		t.Fatalf("WriteChar trampoline returned %v, want Success", Result(int64(r1)))
	}
	if len(written) != 1 || written[0] != 'Q' {
		t.Fatalf("write callback saw %v, want ['Q']", written)
	}

	var out byte
	r1, _, errno = purego.SyscallN(thunks.ReadChar, uintptr(unsafe.Pointer(&out)))
	if errno != 0 {
		t.Fatalf("calling ReadChar trampoline trapped: %v", errno)
	}
	if Result(int64(r1)) != Success {
		t.Fatalf("ReadChar trampoline returned %v, want Success", Result(int64(r1)))
	}
	if out != 'z' {
		t.Errorf("read callback wrote %q, want 'z'", out)
	}
}
