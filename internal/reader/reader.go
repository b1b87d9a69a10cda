// Package reader is the streaming instruction reader: a polymorphic
// byte-to-opcode front end for the compiler.
package reader

import (
	"bufio"
	"io"
	"strings"

	"github.com/LowCostCustoms/bf-jit/internal/opcode"
)

// Reader produces one opcode per call to Next and is idempotent once it
// has returned opcode.End. Implementations must not validate bracket
// nesting; that is the compiler's responsibility.
type Reader interface {
	Next() opcode.Opcode
}

// Stream adapts any io.ByteReader into a Reader, skipping every byte
// that does not map to a program opcode. It is restartable over any
// byte producer: a file, an in-memory buffer, or a pipe.
type Stream struct {
	src  io.ByteReader
	done bool
}

// New wraps src as a Reader. src is read exactly once, forward-only.
func New(src io.ByteReader) *Stream {
	return &Stream{src: src}
}

// NewFile wraps an io.Reader (typically an *os.File) with buffering.
func NewFile(r io.Reader) *Stream {
	return New(bufio.NewReader(r))
}

// NewString wraps an in-memory program for tests and embedded use.
func NewString(s string) *Stream {
	return New(strings.NewReader(s))
}

// Next returns the next opcode, or opcode.End once the source is
// exhausted. All non-program bytes, including whitespace, conventional
// comment text, and embedded NULs, are skipped silently.
func (s *Stream) Next() opcode.Opcode {
	if s.done {
		return opcode.End
	}

	for {
		b, err := s.src.ReadByte()
		if err != nil {
			s.done = true
			return opcode.End
		}

		if op, ok := opcode.FromByte(b); ok {
			return op
		}
	}
}
