// Package mir is the IR builder facade: it exposes the handful of
// generic operations the compilation algorithm in internal/compiler
// needs (arithmetic on the current cell, bounds-checked pointer
// motion, structured branches, host calls, and a fixed two-argument
// entry point) without exposing any x86-64 encoding detail. Underneath
// it drives internal/x64gen the way the compilation algorithm this
// mirrors drives an in-process code generator: build one function
// body, then hand the finished bytes to the linker.
//
// The register file below is fixed rather than allocated, because the
// lowering this facade supports never has more than one live scratch
// value at a time: current cell arithmetic loads into AL, uses it, and
// stores it back before anything else can observe it. A generic
// allocator would be correct but pointless machinery for a fixed usage
// pattern; see DESIGN.md.
package mir

import "github.com/LowCostCustoms/bf-jit/internal/x64gen"

// Fixed physical assignment for the function this package builds.
// begin and end are the caller-supplied buffer bounds; current is the
// moving cell pointer. All three are callee-saved so they survive the
// calls into host write/read callbacks untouched.
const (
	regBegin   = x64gen.R13
	regEnd     = x64gen.R12
	regCurrent = x64gen.RBX
	regScratch = x64gen.R10 // holds a callback address across a call
)

// Label identifies a bound or forward-referenced point in the
// function body being built.
type Label = x64gen.Label

// LoopLabels is the pair of labels a structured loop needs: Open sits
// just after the opening test, Close sits just after the matching
// close.
type LoopLabels struct {
	Open  Label
	Close Label
}

// Builder assembles one function body: the fixed two-argument entry
// point over a byte range, with a shared epilogue that every return
// path funnels through.
type Builder struct {
	asm      *x64gen.Assembler
	epilogue Label
}

// New starts a fresh function body and emits its prologue: save the
// callee-saved registers this backend pins, load the argument
// registers into their fixed homes, and initialize the cell pointer
// to begin.
func New() *Builder {
	b := &Builder{asm: x64gen.New()}
	b.epilogue = b.asm.NewLabel()

	b.asm.PushReg(x64gen.RBX)
	b.asm.PushReg(x64gen.R12)
	b.asm.PushReg(x64gen.R13)

	b.asm.MovRegReg(regBegin, x64gen.RDI)
	b.asm.MovRegReg(regEnd, x64gen.RSI)
	b.asm.MovRegReg(regCurrent, regBegin)

	return b
}

// NewLabel allocates an unbound label for use as a branch target.
func (b *Builder) NewLabel() Label { return b.asm.NewLabel() }

// NewLoopLabels allocates the open/close pair a single loop needs.
func (b *Builder) NewLoopLabels() LoopLabels {
	return LoopLabels{Open: b.NewLabel(), Close: b.NewLabel()}
}

// Bind fixes a label at the current write position.
func (b *Builder) Bind(l Label) { b.asm.Bind(l) }

// EmitInc adds one to the current cell, wrapping modulo 256.
func (b *Builder) EmitInc() {
	b.asm.LoadByte(regCurrent)
	b.asm.AddALImm8(1)
	b.asm.StoreByte(regCurrent)
}

// EmitDec subtracts one from the current cell, wrapping modulo 256.
func (b *Builder) EmitDec() {
	b.asm.LoadByte(regCurrent)
	b.asm.SubALImm8(1)
	b.asm.StoreByte(regCurrent)
}

// EmitNext advances the cell pointer, returning OutOfMemory in place
// rather than advancing onto end (one past the last cell).
func (b *Builder) EmitNext(outOfMemory Label) {
	b.asm.CmpRegReg(regCurrent, regEnd)
	b.asm.JE(outOfMemory)
	b.asm.IncReg(regCurrent)
	b.asm.CmpRegReg(regCurrent, regEnd)
	b.asm.JE(outOfMemory)
}

// EmitPrev retreats the cell pointer, returning MemoryUnderrun in
// place rather than retreating past begin.
func (b *Builder) EmitPrev(underrun Label) {
	b.asm.CmpRegReg(regCurrent, regBegin)
	b.asm.JE(underrun)
	b.asm.DecReg(regCurrent)
}

// EmitLoopOpen tests the current cell and, if zero, jumps past the
// matching close; otherwise falls through into the loop body. Bind
// labels.Open immediately after calling this.
func (b *Builder) EmitLoopOpen(labels LoopLabels) {
	b.asm.LoadByte(regCurrent)
	b.asm.TestALAL()
	b.asm.JE(labels.Close)
}

// EmitLoopClose tests the current cell and, if nonzero, jumps back to
// the loop's open label; otherwise falls through. Bind labels.Close
// immediately after calling this.
func (b *Builder) EmitLoopClose(labels LoopLabels) {
	b.asm.LoadByte(regCurrent)
	b.asm.TestALAL()
	b.asm.JNE(labels.Open)
}

// EmitWriteCall calls the write callback at addr with the current
// cell's value and returns through the shared epilogue if it reports
// anything other than success (0).
func (b *Builder) EmitWriteCall(addr uintptr) {
	b.asm.LoadByte(regCurrent)
	b.asm.MovZXFromAL(x64gen.RDI)
	b.emitHostCall(addr)
}

// EmitReadCall calls the read callback at addr with the address of the
// current cell and returns through the shared epilogue if it reports
// anything other than success (0).
func (b *Builder) EmitReadCall(addr uintptr) {
	b.asm.MovRegReg(x64gen.RDI, regCurrent)
	b.emitHostCall(addr)
}

func (b *Builder) emitHostCall(addr uintptr) {
	b.asm.MovAbs(regScratch, uint64(addr))
	b.asm.CallReg(regScratch)

	ok := b.asm.NewLabel()
	b.asm.TestRegReg(x64gen.RAX)
	b.asm.JE(ok)
	b.asm.Jmp(b.epilogue)
	b.asm.Bind(ok)
}

// EmitReturn loads imm as the function's result and jumps to the
// shared epilogue.
func (b *Builder) EmitReturn(imm uint32) {
	b.asm.MovImm32(x64gen.RAX, imm)
	b.asm.Jmp(b.epilogue)
}

// Finish binds the shared epilogue (restore callee-saved registers,
// return whatever is in RAX) and returns the assembled machine code.
// It must be called exactly once, after every instruction has been
// emitted and every label bound.
func (b *Builder) Finish() ([]byte, error) {
	b.asm.Bind(b.epilogue)
	b.asm.PopReg(x64gen.R13)
	b.asm.PopReg(x64gen.R12)
	b.asm.PopReg(x64gen.RBX)
	b.asm.Ret()

	return b.asm.Code()
}
