package x64gen

// This file emits exactly the instruction shapes the brainfuck lowering
// in internal/mir and internal/compiler needs. Each function mirrors
// the ModR/M + REX construction hand-rolled per mnemonic in mov.go,
// cmp.go, jmp.go; the set here is deliberately small rather than a
// general-purpose encoder, since the facade above only ever drives it
// through one fixed lowering pattern. The front end stays trivial and
// leaves allocation to the generator — here, the generator picks a
// single-scratch-register assignment that is provably correct for that
// one lowering pattern (see DESIGN.md).

func rex(w, r, x, b bool) (val byte, present bool) {
	v := byte(0x40)
	if w {
		v |= 0x08
	}
	if r {
		v |= 0x04
	}
	if x {
		v |= 0x02
	}
	if b {
		v |= 0x01
	}
	return v, w || r || x || b
}

func (a *Assembler) emitRex(w, r, x, b bool) {
	if v, present := rex(w, r, x, b); present {
		a.byte(v)
	}
}

func modrmReg(mod, reg, rm byte) byte {
	return (mod << 6) | ((reg & 7) << 3) | (rm & 7)
}

// PushReg emits PUSH r64.
func (a *Assembler) PushReg(r Reg) {
	a.emitRex(false, false, false, r.ext())
	a.byte(0x50 + r.low3())
}

// PopReg emits POP r64.
func (a *Assembler) PopReg(r Reg) {
	a.emitRex(false, false, false, r.ext())
	a.byte(0x58 + r.low3())
}

// MovRegReg emits MOV dst, src (64-bit register to register).
func (a *Assembler) MovRegReg(dst, src Reg) {
	a.emitRex(true, src.ext(), false, dst.ext())
	a.bytes(0x89, modrmReg(0b11, byte(src), byte(dst)))
}

// MovAbs emits MOV dst, imm64 (a "movabs").
func (a *Assembler) MovAbs(dst Reg, imm uint64) {
	a.emitRex(true, false, false, dst.ext())
	a.byte(0xB8 + dst.low3())
	a.imm64(imm)
}

// MovImm32 emits MOV dst32, imm32 — a 32-bit move that zero-extends
// into the full 64-bit register, used for small constant results
// (Success/MemoryUnderrun/OutOfMemory).
func (a *Assembler) MovImm32(dst Reg, imm uint32) {
	if dst.ext() {
		a.emitRex(false, false, false, true)
	}
	a.byte(0xB8 + dst.low3())
	a.imm32(imm)
}

// LoadByte emits MOV AL, [base] — load the tape cell under base into
// the low byte of RAX.
func (a *Assembler) LoadByte(base Reg) {
	a.bytes(0x8A, modrmReg(0b00, byte(RAX), byte(base)))
}

// StoreByte emits MOV [base], AL — store the low byte of RAX into the
// tape cell under base.
func (a *Assembler) StoreByte(base Reg) {
	a.bytes(0x88, modrmReg(0b00, byte(RAX), byte(base)))
}

// AddALImm8 emits ADD AL, imm8. 8-bit register arithmetic wraps modulo
// 256 for free: the carry out of bit 7 is simply discarded.
func (a *Assembler) AddALImm8(imm uint8) {
	a.bytes(0x04, imm)
}

// SubALImm8 emits SUB AL, imm8.
func (a *Assembler) SubALImm8(imm uint8) {
	a.bytes(0x2C, imm)
}

// TestALAL emits TEST AL, AL, setting ZF from the tape cell's value.
func (a *Assembler) TestALAL() {
	a.bytes(0x84, modrmReg(0b11, byte(RAX), byte(RAX)))
}

// TestRegReg emits TEST r, r (64-bit), used to check a callback result.
func (a *Assembler) TestRegReg(r Reg) {
	a.emitRex(true, r.ext(), false, r.ext())
	a.bytes(0x85, modrmReg(0b11, byte(r), byte(r)))
}

// CmpRegReg emits CMP a, b (64-bit): computes a-b and sets flags.
func (a *Assembler) CmpRegReg(dst, src Reg) {
	a.emitRex(true, src.ext(), false, dst.ext())
	a.bytes(0x39, modrmReg(0b11, byte(src), byte(dst)))
}

// IncReg emits INC r64.
func (a *Assembler) IncReg(r Reg) {
	a.emitRex(true, false, false, r.ext())
	a.bytes(0xFF, modrmReg(0b11, 0, byte(r)))
}

// DecReg emits DEC r64.
func (a *Assembler) DecReg(r Reg) {
	a.emitRex(true, false, false, r.ext())
	a.bytes(0xFF, modrmReg(0b11, 1, byte(r)))
}

// MovZXFromAL emits MOVZX dst64, AL, zero-extending the tape byte into
// a full argument register ahead of a call.
func (a *Assembler) MovZXFromAL(dst Reg) {
	a.emitRex(true, dst.ext(), false, false)
	a.bytes(0x0F, 0xB6, modrmReg(0b11, byte(dst), byte(RAX)))
}

// CallReg emits CALL r/m64 (absolute, register-indirect).
func (a *Assembler) CallReg(r Reg) {
	if r.ext() {
		a.emitRex(false, false, false, true)
	}
	a.bytes(0xFF, modrmReg(0b11, 2, byte(r)))
}

// Ret emits RET.
func (a *Assembler) Ret() {
	a.byte(0xC3)
}

// JE emits a near, rel32 jump to l taken when ZF=1.
func (a *Assembler) JE(l Label) {
	a.bytes(0x0F, 0x84)
	a.rel32To(l)
}

// JNE emits a near, rel32 jump to l taken when ZF=0.
func (a *Assembler) JNE(l Label) {
	a.bytes(0x0F, 0x85)
	a.rel32To(l)
}

// Jmp emits an unconditional near, rel32 jump to l.
func (a *Assembler) Jmp(l Label) {
	a.byte(0xE9)
	a.rel32To(l)
}
