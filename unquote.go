package jstream

import (
	"errors"

	"github.com/xdg-go/jstream/strbuf"
	"github.com/xdg-go/jstream/utf"
)

// Unquoter decodes JSON string literals, quotes included, into a target
// encoding.  UTF-8 results are interned, so repeated literals share a
// single string.  An Unquoter is not safe for concurrent use.
type Unquoter struct {
	enc    utf.Encoding
	str    *stringScanner
	intern *strbuf.Interner
	col    *strbuf.Collector
}

// NewUnquoter returns an Unquoter producing enc.  UTF-16 output is built in
// host UTF-32 and narrowed when each chunk is written.
func NewUnquoter(enc utf.Encoding) (*Unquoter, error) {
	if !enc.Valid() {
		return nil, utf.ErrInvalidEncoding
	}

	u := &Unquoter{enc: enc}
	var storage *strbuf.Storage
	var err error
	switch enc.Form() {
	case utf.FormUTF8:
		u.intern = strbuf.NewInterner()
		storage, err = strbuf.NewStorage(utf.UTF8, u.intern, 0)
	case utf.FormUTF16:
		u.col = strbuf.NewCollector(enc)
		storage, err = strbuf.NewStorage(utf.HostUTF32, u.col, 0)
	default:
		u.col = strbuf.NewCollector(enc)
		storage, err = strbuf.NewStorage(enc, u.col, 0)
	}
	if err != nil {
		return nil, err
	}
	u.str = newStringScanner(strbuf.NewBuffer(storage))
	return u, nil
}

// Encoding returns the encoding of unquoted results.
func (u *Unquoter) Encoding() utf.Encoding { return u.enc }

// Lenient toggles whether ill-formed UTF-8 and unpaired surrogate escapes are
// replaced with U+FFFD instead of failing.
func (u *Unquoter) Lenient(b bool) { u.str.lenient = b }

// Filter rejects code points for which f returns true, replacing them with
// repl if it is non-zero.
func (u *Unquoter) Filter(f utf.Filter, repl utf.CodePoint) {
	u.str.filter = f
	u.str.repl = repl
}

// Unquote decodes lit and returns the content as a string holding the
// target encoding's bytes.
func (u *Unquoter) Unquote(lit string) (string, error) {
	err := u.decode([]byte(lit))
	if err != nil {
		return "", err
	}
	if u.intern != nil {
		return u.intern.Last(), nil
	}
	return string(u.col.Values()[0]), nil
}

// UnquoteBytes is like Unquote but returns a new byte slice.
func (u *Unquoter) UnquoteBytes(lit []byte) ([]byte, error) {
	err := u.decode(lit)
	if err != nil {
		return nil, err
	}
	if u.intern != nil {
		return []byte(u.intern.Last()), nil
	}
	return u.col.Values()[0], nil
}

// Interned reports how many distinct UTF-8 strings have been produced.
func (u *Unquoter) Interned() int {
	if u.intern == nil {
		return 0
	}
	return u.intern.Len()
}

func (u *Unquoter) decode(lit []byte) error {
	if u.col != nil {
		u.col.Reset()
	}
	if len(lit) == 0 || lit[0] != '"' {
		return errors.New("parse error: string literal must start with '\"'")
	}

	n, done, err := u.str.scan(lit[1:], true)
	if err != nil {
		u.discard()
		var pe *ParseError
		if errors.As(err, &pe) {
			return newParseError(pe.cause, "parse error: %s at offset %d", pe.msg, n+1)
		}
		return err
	}
	if !done || n+1 != len(lit) {
		return newParseError(nil, "parse error: unexpected data after string literal at offset %d", n+1)
	}
	return nil
}

func (u *Unquoter) discard() {
	u.str.reset()
	if u.intern != nil {
		u.intern.Discard()
	} else {
		u.col.Discard()
	}
}
