package utf

import "errors"

// Decode errors.  A decoder reporting one of these has consumed the maximal
// subpart of the ill-formed sequence.
var (
	ErrUnexpectedEnd         = errors.New("utf: unexpected end of input")
	ErrInvalidStartByte      = errors.New("utf: invalid start byte")
	ErrTrailByteExpected     = errors.New("utf: trail byte expected")
	ErrInvalidFirstTrailByte = errors.New("utf: invalid first trail byte")
	ErrUnpairedHighSurrogate = errors.New("utf: high surrogate not followed by low surrogate")
	ErrUnpairedLowSurrogate  = errors.New("utf: low surrogate without preceding high surrogate")
)

// Encode errors.  ErrInvalidCodePoint is also returned when decoding a UTF-32
// unit that is not a scalar value.
var (
	ErrInvalidCodePoint = errors.New("utf: invalid code point")
	ErrPredicateFailed  = errors.New("utf: code point rejected by filter")
)

// ErrInvalidEncoding is returned for an Encoding value outside the supported
// set.
var ErrInvalidEncoding = errors.New("utf: invalid encoding")

// IsIllFormed reports whether err denotes an ill-formed code unit sequence or
// an invalid code point, as opposed to a filter rejection or an unrelated
// failure.
func IsIllFormed(err error) bool {
	switch {
	case errors.Is(err, ErrUnexpectedEnd),
		errors.Is(err, ErrInvalidStartByte),
		errors.Is(err, ErrTrailByteExpected),
		errors.Is(err, ErrInvalidFirstTrailByte),
		errors.Is(err, ErrUnpairedHighSurrogate),
		errors.Is(err, ErrUnpairedLowSurrogate),
		errors.Is(err, ErrInvalidCodePoint):
		return true
	}
	return false
}
