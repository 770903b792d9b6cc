package strbuf

import "github.com/xdg-go/jstream/utf"

// Buffer is the parser-facing side of a Storage.  It encodes characters into
// the storage encoding and keeps the code units of each code point together.
type Buffer struct {
	s    *Storage
	form utf.Form
}

// NewBuffer returns a Buffer writing to s.  s is not owned by the Buffer and
// may be shared by successive Buffers, but not used concurrently.
func NewBuffer(s *Storage) *Buffer {
	return &Buffer{s: s, form: s.enc.Form()}
}

// Storage returns the underlying storage.
func (b *Buffer) Storage() *Storage { return b.s }

// AppendASCII appends a 7-bit character.  ch is not checked.
func (b *Buffer) AppendASCII(ch byte) error {
	return b.s.AppendUnit(uint32(ch))
}

// AppendASCIIChecked is AppendASCII but fails with ErrInvalidASCII if ch is
// not 7-bit.
func (b *Buffer) AppendASCIIChecked(ch byte) error {
	if ch > 0x7F {
		return ErrInvalidASCII
	}
	return b.s.AppendUnit(uint32(ch))
}

// AppendUnicode appends the encoding of c.  c is not validated; see
// utf.EncodeUnsafe.  If the storage cannot hold the whole encoding, it is
// synced before any of it is written.
func (b *Buffer) AppendUnicode(c utf.CodePoint) error {
	if c < 0x80 {
		return b.s.AppendUnit(uint32(c))
	}
	n := utf.EncodedLenUnsafe(c, b.form)
	if n == 0 {
		return nil
	}
	err := b.s.Extend(n)
	if err != nil {
		return err
	}
	b.s.Advance(utf.EncodeUnsafe(b.s.Tail(), c, b.s.enc))
	return nil
}

// AppendUnicodeChecked appends c if it is a scalar value accepted by filter.
// A nil filter accepts everything.
func (b *Buffer) AppendUnicodeChecked(c utf.CodePoint, filter utf.Filter) error {
	if !c.IsScalar() {
		return utf.ErrInvalidCodePoint
	}
	if filter.Match(c) {
		return utf.ErrPredicateFailed
	}
	return b.AppendUnicode(c)
}

// AppendEncoded decodes src from the given encoding and appends each code
// point.  It returns the number of bytes of src consumed.  With utf.Strict it
// stops at the first ill-formed sequence; otherwise each maximal subpart is
// appended as U+FFFD.
func (b *Buffer) AppendEncoded(src []byte, from utf.Encoding, opt utf.ConvertOption) (int, error) {
	i := 0
	for i < len(src) {
		if from == utf.UTF8 && src[i] < 0x80 {
			err := b.s.AppendUnit(uint32(src[i]))
			if err != nil {
				return i, err
			}
			i++
			continue
		}
		c, n, err := utf.Decode(src[i:], from)
		if err != nil {
			if opt == utf.Strict {
				return i, err
			}
			c = utf.ReplacementChar
		}
		err = b.AppendUnicode(c)
		if err != nil {
			return i, err
		}
		i += n
	}
	return i, nil
}

// Flush ends the current string.  The consumer always receives a final chunk,
// which is empty for an empty string.
func (b *Buffer) Flush() error { return b.s.Flush() }

// Reset discards content not yet delivered.  The consumer is not notified;
// chunks it already received for the current string stay with it.
func (b *Buffer) Reset() { b.s.Reset() }

// Len returns the number of code units not yet delivered.
func (b *Buffer) Len() int { return b.s.Len() }
