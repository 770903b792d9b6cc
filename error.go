package jstream

import (
	"fmt"
	"io"
)

// ParseError records JSON parsing errors.  It can include a small excerpt of
// text from the reader at the point of error.  When the error was caused by
// ill-formed Unicode or a rejected code point, the utf package error is
// available through errors.Is and errors.Unwrap.
type ParseError struct {
	msg   string
	cause error
}

func (pe *ParseError) Error() string { return pe.msg }

// Unwrap returns the underlying cause, if any.
func (pe *ParseError) Unwrap() error { return pe.cause }

func newParseError(cause error, format string, args ...interface{}) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...), cause: cause}
}

// newReadError is used when we expect to be able to read and fail.  If the
// error is EOF, we convert it to UnexpectedEOF because we aren't between
// top-level object.
func newReadError(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("error reading json: %w", err)
}
