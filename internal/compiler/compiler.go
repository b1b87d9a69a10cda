// Package compiler implements the core compilation algorithm: it
// drains an instruction reader opcode by opcode, lowers each one
// through the IR builder facade in internal/mir, and links the result
// into a callable native entry point via internal/jitmem. This mirrors
// the instruction-at-a-time emission loop and loop-label bookkeeping a
// streaming brainfuck-to-native compiler needs, generalized from a
// fixed two-error-label scheme to the facade above.
package compiler

import (
	"fmt"

	"github.com/LowCostCustoms/bf-jit/internal/abi"
	"github.com/LowCostCustoms/bf-jit/internal/jitmem"
	"github.com/LowCostCustoms/bf-jit/internal/mir"
	"github.com/LowCostCustoms/bf-jit/internal/opcode"
	"github.com/LowCostCustoms/bf-jit/internal/reader"
)

// Context bundles what a compilation needs: the two host callback
// addresses generated code will call into, and the opcode stream to
// compile. WriteAddr and ReadAddr are the C-ABI-callable trampoline
// addresses a caller has already built (abi.Thunks); Reader must never
// be nil.
type Context struct {
	WriteAddr uintptr
	ReadAddr  uintptr
	Reader    reader.Reader
}

func (c *Context) validate() error {
	if c.WriteAddr == 0 {
		return newError(InvalidContext, 0, "write callback address must not be zero")
	}
	if c.ReadAddr == 0 {
		return newError(InvalidContext, 0, "read callback address must not be zero")
	}
	if c.Reader == nil {
		return newError(InvalidContext, 0, "instruction reader must not be nil")
	}
	return nil
}

type loopLabels = mir.LoopLabels

// unit holds the state threaded through a single compilation: the IR
// builder, the open-loop label stack, and the two error labels every
// bounds check jumps to.
type unit struct {
	ctx      *Context
	build    *mir.Builder
	loops    []loopLabels
	oom      mir.Label
	underrun mir.Label
	offset   int
}

// Compile lowers ctx.Reader's opcode stream into machine code and
// links it into an executable page, returning a callable entry point.
// The page is owned by the returned MainFunc; it stays mapped for as
// long as the MainFunc is reachable.
func Compile(ctx *Context) (*abi.MainFunc, error) {
	if err := ctx.validate(); err != nil {
		return nil, err
	}

	u := &unit{ctx: ctx, build: mir.New()}
	u.oom = u.build.NewLabel()
	u.underrun = u.build.NewLabel()

	if err := u.emitAll(); err != nil {
		return nil, err
	}

	u.build.EmitReturn(uint32(abi.Success))
	u.build.Bind(u.oom)
	u.build.EmitReturn(uint32(abi.OutOfMemory))
	u.build.Bind(u.underrun)
	u.build.EmitReturn(uint32(abi.MemoryUnderrun))

	code, err := u.build.Finish()
	if err != nil {
		return nil, newError(LinkError, u.offset, err.Error())
	}

	return link(code)
}

func (u *unit) emitAll() error {
	for {
		op := u.ctx.Reader.Next()
		if op == opcode.End {
			break
		}

		switch op {
		case opcode.Inc:
			u.build.EmitInc()
		case opcode.Dec:
			u.build.EmitDec()
		case opcode.Next:
			u.build.EmitNext(u.oom)
		case opcode.Prev:
			u.build.EmitPrev(u.underrun)
		case opcode.Jz:
			if err := u.emitOpen(); err != nil {
				return err
			}
		case opcode.Jnz:
			if err := u.emitClose(); err != nil {
				return err
			}
		case opcode.Write:
			u.build.EmitWriteCall(u.ctx.WriteAddr)
		case opcode.Read:
			u.build.EmitReadCall(u.ctx.ReadAddr)
		default:
			return newError(LinkError, u.offset, fmt.Sprintf("unexpected opcode %v", op))
		}

		u.offset++
	}

	if len(u.loops) != 0 {
		return newError(UnbalancedOpen, u.offset, "reached end of input with an open loop pending")
	}
	return nil
}

func (u *unit) emitOpen() error {
	labels := u.build.NewLoopLabels()
	u.loops = append(u.loops, labels)

	u.build.EmitLoopOpen(labels)
	u.build.Bind(labels.Open)
	return nil
}

func (u *unit) emitClose() error {
	if len(u.loops) == 0 {
		return newError(UnbalancedClose, u.offset, "no matching open bracket")
	}

	labels := u.loops[len(u.loops)-1]
	u.loops = u.loops[:len(u.loops)-1]

	u.build.EmitLoopClose(labels)
	u.build.Bind(labels.Close)
	return nil
}

func link(code []byte) (*abi.MainFunc, error) {
	page, err := jitmem.Alloc(len(code))
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	if err := page.Write(code); err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	if err := page.Finalize(); err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	return abi.NewMainFunc(page.Addr(), page), nil
}
