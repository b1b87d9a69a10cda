// Package driver is the compiler driver: the external-facing entry
// point that turns host callbacks and an instruction source into a
// callable native function. It owns the lifetime of the callback
// trampolines abi.Thunks builds, and delegates the actual lowering to
// internal/compiler.
package driver

import (
	"fmt"

	"github.com/LowCostCustoms/bf-jit/internal/abi"
	"github.com/LowCostCustoms/bf-jit/internal/compiler"
	"github.com/LowCostCustoms/bf-jit/internal/reader"
)

// Compile validates ctx, builds C-ABI trampolines for its callbacks,
// and compiles src into a callable MainFunc. The returned MainFunc
// keeps both the trampolines and the executable page alive for as
// long as it is reachable.
func Compile(ctx *abi.Context, src reader.Reader) (*abi.MainFunc, error) {
	if ctx == nil {
		return nil, fmt.Errorf("driver: context must not be nil")
	}
	if ctx.Write == nil {
		return nil, fmt.Errorf("driver: write callback must not be nil")
	}
	if ctx.Read == nil {
		return nil, fmt.Errorf("driver: read callback must not be nil")
	}
	if src == nil {
		return nil, fmt.Errorf("driver: instruction reader must not be nil")
	}

	thunks := abi.NewThunks(ctx.Write, ctx.Read)

	fn, err := compiler.Compile(&compiler.Context{
		WriteAddr: thunks.WriteChar,
		ReadAddr:  thunks.ReadChar,
		Reader:    src,
	})
	if err != nil {
		return nil, err
	}

	return fn.WithOwner(thunks), nil
}
