package utf

import (
	"io"

	"golang.org/x/text/transform"
)

// Transcoder converts a stream between two encodings.  It implements
// transform.Transformer, so a sequence split across two source buffers is
// held back (transform.ErrShortSrc) until the rest of it arrives.
//
// With MarkIllFormed, the decode error behind each IllFormedMark written is
// queued in order, for the reader of the output to claim with NextMark.
type Transcoder struct {
	from, to Encoding
	opt      ConvertOption
	marks    []error
}

var _ transform.Transformer = (*Transcoder)(nil)

// NewTranscoder returns a Transcoder from one encoding to another.
func NewTranscoder(from, to Encoding, opt ConvertOption) *Transcoder {
	return &Transcoder{from: from, to: to, opt: opt}
}

// SetOption changes how ill-formed input is treated from the next Transform
// call on.
func (t *Transcoder) SetOption(opt ConvertOption) {
	t.opt = opt
}

// Reset implements transform.Transformer.  It drops unclaimed mark causes;
// partial sequences stay in the caller's source buffer.
func (t *Transcoder) Reset() { t.marks = t.marks[:0] }

// NextMark returns the decode error behind the oldest IllFormedMark not yet
// claimed.  If none is pending, the mark was not written by t and
// ErrInvalidStartByte describes it.
func (t *Transcoder) NextMark() error {
	if len(t.marks) == 0 {
		return ErrInvalidStartByte
	}
	err := t.marks[0]
	if len(t.marks) == 1 {
		t.marks = t.marks[:0]
	} else {
		t.marks = t.marks[1:]
	}
	return err
}

// PendingMarks returns the number of mark causes not yet claimed.
func (t *Transcoder) PendingMarks() int { return len(t.marks) }

// Transform implements transform.Transformer.
func (t *Transcoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !t.from.Valid() || !t.to.Valid() {
		return 0, 0, ErrInvalidEncoding
	}
	var tmp [MaxEncodedBytes]byte
	size := t.to.CodeUnitSize()
	for nSrc < len(src) {
		c, n, derr := Decode(src[nSrc:], t.from)
		if derr != nil {
			if derr == ErrUnexpectedEnd && !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			switch {
			case t.opt == MarkIllFormed && t.to.Form() == FormUTF8:
				if nDst == len(dst) {
					return nDst, nSrc, transform.ErrShortDst
				}
				dst[nDst] = IllFormedMark
				nDst++
				t.marks = append(t.marks, derr)
				nSrc += n
				continue
			case t.opt == Strict:
				return nDst, nSrc, derr
			}
			c = ReplacementChar
		}
		k := EncodeUnsafe(tmp[:], c, t.to) * size
		if nDst+k > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], tmp[:k])
		nSrc += n
	}
	return nDst, nSrc, nil
}

// NewReader returns a reader producing UTF-8 from r, whose content is
// encoded as from.  A byte order mark in r is passed through as U+FEFF.
func NewReader(r io.Reader, from Encoding, opt ConvertOption) io.Reader {
	return transform.NewReader(r, NewTranscoder(from, UTF8, opt))
}
