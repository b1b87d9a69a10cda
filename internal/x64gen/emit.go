// Package x64gen is the native code generator: it turns the small,
// fixed instruction set the IR facade (internal/mir) requests into
// x86-64 machine code. Register/ModR/M/REX construction follows
// reg.go/mov.go/mov_x86_64.go; label back-patching and the
// executable-page handoff pair with internal/jitmem.
package x64gen

import (
	"encoding/binary"
	"fmt"
)

// Label is an opaque forward-reference handle. All jumps in this
// backend are encoded as fixed-width rel32 displacements, so a single
// pass with back-patching is sufficient: instruction sizes never
// depend on how far a label ends up being.
type Label int

type patch struct {
	offset int // position of the 4-byte rel32 field to fill in
	label  Label
}

// Assembler accumulates one function's machine code body.
type Assembler struct {
	buf      []byte
	labelPos []int // -1 until bound
	patches  []patch
}

// New returns an empty Assembler.
func New() *Assembler {
	return &Assembler{}
}

// NewLabel allocates a fresh, as-yet-unbound label.
func (a *Assembler) NewLabel() Label {
	a.labelPos = append(a.labelPos, -1)
	return Label(len(a.labelPos) - 1)
}

// Bind fixes label at the current write cursor. A label may only be
// bound once.
func (a *Assembler) Bind(l Label) {
	if a.labelPos[l] != -1 {
		panic(fmt.Sprintf("x64gen: label %d already bound", l))
	}
	a.labelPos[l] = len(a.buf)
}

func (a *Assembler) byte(b byte) {
	a.buf = append(a.buf, b)
}

func (a *Assembler) bytes(bs ...byte) {
	a.buf = append(a.buf, bs...)
}

// rel32To reserves a 4-byte placeholder for a jump target and records
// it for resolution in Code.
func (a *Assembler) rel32To(l Label) {
	a.patches = append(a.patches, patch{offset: len(a.buf), label: l})
	a.buf = append(a.buf, 0, 0, 0, 0)
}

func (a *Assembler) imm32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	a.buf = append(a.buf, b[:]...)
}

func (a *Assembler) imm64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	a.buf = append(a.buf, b[:]...)
}

// Code resolves every label reference and returns the finished machine
// code. It is an error to call Code while any label remains unbound.
func (a *Assembler) Code() ([]byte, error) {
	for i, pos := range a.labelPos {
		if pos == -1 {
			return nil, fmt.Errorf("x64gen: label %d was never bound", i)
		}
	}

	out := make([]byte, len(a.buf))
	copy(out, a.buf)

	for _, p := range a.patches {
		target := a.labelPos[p.label]
		rel := int32(target - (p.offset + 4))
		binary.LittleEndian.PutUint32(out[p.offset:p.offset+4], uint32(rel))
	}

	return out, nil
}
