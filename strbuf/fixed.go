package strbuf

import (
	"encoding/binary"

	"github.com/xdg-go/jstream/utf"
)

// Fixed is a small bounded buffer of code points kept as host UTF-32.  It
// never flushes; appends report false once it is full.  It is meant as a
// scratch area, e.g. for a run of escapes, before the content moves on to a
// Buffer or is encoded directly.
//
// Fixed is a standalone utility for callers that assemble short runs of code
// points themselves.  The decoders in this module write escapes straight to
// a Buffer and do not use it.
type Fixed struct {
	buf []byte
	n   int
}

// NewFixed returns a Fixed holding up to n code points.
func NewFixed(n int) *Fixed {
	return &Fixed{buf: make([]byte, n*4)}
}

// AppendUnicode appends c and reports whether it fit.
func (f *Fixed) AppendUnicode(c utf.CodePoint) bool {
	if f.n*4 == len(f.buf) {
		return false
	}
	utf.EncodeUnsafe(f.buf[f.n*4:], c, utf.HostUTF32)
	f.n++
	return true
}

// AppendASCII appends ch and reports whether it fit.
func (f *Fixed) AppendASCII(ch byte) bool {
	return f.AppendUnicode(utf.CodePoint(ch))
}

// Len returns the number of code points held.
func (f *Fixed) Len() int { return f.n }

// Cap returns the maximum number of code points.
func (f *Fixed) Cap() int { return len(f.buf) / 4 }

// Reset empties the buffer.
func (f *Fixed) Reset() { f.n = 0 }

// Bytes returns the content as host UTF-32.
func (f *Fixed) Bytes() []byte { return f.buf[:f.n*4] }

// At returns the i'th code point.
func (f *Fixed) At(i int) utf.CodePoint {
	if i < 0 || i >= f.n {
		panic("strbuf: index out of range")
	}
	return utf.CodePoint(binary.NativeEndian.Uint32(f.buf[i*4:]))
}

// Encode narrows the content in place to enc, resets the buffer and returns
// the encoded bytes.  The result aliases the buffer and is overwritten by the
// next append.
func (f *Fixed) Encode(enc utf.Encoding) []byte {
	n := utf.NarrowInPlace(f.buf[:f.n*4], enc)
	f.n = 0
	return f.buf[:n]
}

// Drain appends the content to b and resets the buffer.
func (f *Fixed) Drain(b *Buffer) error {
	n := f.n
	f.n = 0
	for i := 0; i < n; i++ {
		err := b.AppendUnicode(utf.CodePoint(binary.NativeEndian.Uint32(f.buf[i*4:])))
		if err != nil {
			return err
		}
	}
	return nil
}
