package jstream

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xdg-go/jstream/strbuf"
	"github.com/xdg-go/jstream/utf"
)

// stringPeekWidth is how much input the decoder offers the string scanner at
// a time.  It must exceed the longest escape, a surrogate pair written as two
// \u escapes (12 bytes).
const stringPeekWidth = 64

// stringScanner decodes the content of JSON string literals into a
// strbuf.Buffer.  It works on windows of input: scan is handed whatever is
// available and reports how much it consumed, stopping early rather than
// splitting an escape or a UTF-8 sequence.
type stringScanner struct {
	buf     *strbuf.Buffer
	lenient bool
	filter  utf.Filter
	repl    utf.CodePoint
	onSubst func(c utf.CodePoint, cause error)

	// markCause is set for transcoded input and reports the decode error
	// behind each utf.IllFormedMark.
	markCause func() error
}

func newStringScanner(buf *strbuf.Buffer) *stringScanner {
	return &stringScanner{buf: buf}
}

// scan decodes src, which begins inside a string literal, up to and including
// the closing quote.  It returns the number of bytes consumed and whether the
// closing quote was reached, in which case the buffer has been flushed.
//
// If src ends in the middle of an escape or a UTF-8 sequence, scan stops
// before it and expects to be called again with more input, unless atEOF is
// set.  On error, content not yet flushed is left in the buffer; callers
// reset it.
func (s *stringScanner) scan(src []byte, atEOF bool) (int, bool, error) {
	var err error
	i := 0
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == '"':
			err = s.buf.Flush()
			if err != nil {
				return i, false, err
			}
			return i + 1, true, nil
		case ch == '\\':
			var n int
			n, err = s.escape(src[i:], atEOF)
			if err != nil {
				return i, false, err
			}
			if n == 0 {
				return i, false, nil
			}
			i += n
		case ch < 0x20:
			return i, false, newParseError(nil, "control characters not allowed in strings: %q", ch)
		case ch < 0x80:
			if s.filter != nil {
				err = s.appendChecked(utf.CodePoint(ch))
			} else {
				err = s.buf.AppendASCII(ch)
			}
			if err != nil {
				return i, false, err
			}
			i++
		case ch == utf.IllFormedMark && s.markCause != nil:
			err = s.illFormed(s.markCause())
			if err != nil {
				return i, false, err
			}
			i++
		default:
			c, n, derr := utf.Decode(src[i:], utf.UTF8)
			if derr == utf.ErrUnexpectedEnd && !atEOF {
				return i, false, nil
			}
			if derr != nil {
				err = s.illFormed(derr)
			} else {
				err = s.appendChecked(c)
			}
			if err != nil {
				return i, false, err
			}
			i += n
		}
	}
	if atEOF {
		return i, false, newReadError(io.ErrUnexpectedEOF)
	}
	return i, false, nil
}

// escape decodes the escape sequence at the start of src and returns its
// length, or 0 if src is too short to hold it.
func (s *stringScanner) escape(src []byte, atEOF bool) (int, error) {
	if len(src) < 2 {
		return s.short(atEOF)
	}

	switch src[1] {
	case '"', '\\', '/':
		return 2, s.buf.AppendASCII(src[1])
	case 'b':
		return 2, s.buf.AppendASCII('\b')
	case 'f':
		return 2, s.buf.AppendASCII('\f')
	case 'n':
		return 2, s.buf.AppendASCII('\n')
	case 'r':
		return 2, s.buf.AppendASCII('\r')
	case 't':
		return 2, s.buf.AppendASCII('\t')
	case 'u':
	default:
		return 0, newParseError(nil, "unknown escape '%s'", string(src[1]))
	}

	if len(src) < 6 {
		return s.short(atEOF)
	}
	c, err := parseHex4(src[2:6])
	if err != nil {
		return 0, err
	}

	switch {
	case c.IsHighSurrogate():
		// A high surrogate needs a second escape to pair with.
		if len(src) < 12 && !atEOF {
			return 0, nil
		}
		if len(src) >= 12 && src[6] == '\\' && src[7] == 'u' {
			lo, err := parseHex4(src[8:12])
			if err != nil {
				return 0, err
			}
			if lo.IsLowSurrogate() {
				return 12, s.appendChecked(utf.CombineSurrogates(c, lo))
			}
		}
		return 6, s.illFormed(utf.ErrUnpairedHighSurrogate)
	case c.IsLowSurrogate():
		return 6, s.illFormed(utf.ErrUnpairedLowSurrogate)
	}
	return 6, s.appendChecked(c)
}

func (s *stringScanner) short(atEOF bool) (int, error) {
	if atEOF {
		return 0, newReadError(io.ErrUnexpectedEOF)
	}
	return 0, nil
}

// appendChecked appends c unless the filter rejects it, in which case the
// replacement is appended instead, or an error returned if there is none.
func (s *stringScanner) appendChecked(c utf.CodePoint) error {
	if s.filter.Match(c) {
		if s.repl == 0 {
			return newParseError(utf.ErrPredicateFailed, "code point U+%04X not allowed in strings", uint32(c))
		}
		s.substituted(s.repl, utf.ErrPredicateFailed)
		c = s.repl
	}
	return s.buf.AppendUnicode(c)
}

// illFormed either substitutes U+FFFD for an ill-formed sequence or fails.
func (s *stringScanner) illFormed(cause error) error {
	if !s.lenient {
		return newParseError(cause, "invalid unicode in string: %v", cause)
	}
	s.substituted(utf.ReplacementChar, cause)
	return s.buf.AppendUnicode(utf.ReplacementChar)
}

func (s *stringScanner) substituted(c utf.CodePoint, cause error) {
	if s.onSubst != nil {
		s.onSubst(c, cause)
	}
}

func (s *stringScanner) reset() {
	s.buf.Reset()
}

func parseHex4(b []byte) (utf.CodePoint, error) {
	n, err := strconv.ParseUint(string(b), 16, 32)
	if err != nil {
		return 0, newParseError(err, "converting unicode escape: %v", err)
	}
	return utf.CodePoint(n), nil
}

// convertStringContent decodes a string literal whose opening quote has been
// read and appends its UTF-8 content to out.  Keys are checked for NUL, which
// a BSON cstring cannot hold.
func (d *Decoder) convertStringContent(out []byte, key bool) ([]byte, error) {
	d.sink.out = out
	d.sink.key = key
	defer func() { d.sink.out = nil }()

	for {
		buf, err := d.json.Peek(stringPeekWidth)
		atEOF := false
		if err != nil {
			// here, io.EOF is OK, since we're only peeking and may hit end of
			// object
			if err != io.EOF {
				d.str.reset()
				return nil, newReadError(err)
			}
			atEOF = true
		}

		n, done, err := d.str.scan(buf, atEOF)
		if err != nil {
			d.str.reset()
			if pe, ok := err.(*ParseError); ok && n < len(buf) {
				ch := buf[n]
				_, _ = d.json.Discard(n + 1)
				return nil, d.parseErrorCause(ch, pe.msg, pe.cause)
			}
			return nil, err
		}

		_, err = d.json.Discard(n)
		if err != nil {
			return nil, fmt.Errorf("unexpected error discarding buffered reader: %v", err)
		}
		if done {
			return d.sink.out, nil
		}
	}
}

func (d *Decoder) convertCString(out []byte) ([]byte, error) {
	out, err := d.convertStringContent(out, true)
	if err != nil {
		return nil, err
	}

	// C-string null terminator
	return append(out, nullByte), nil
}
