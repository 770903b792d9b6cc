package strbuf

import "errors"

// ErrBufferTooLarge is returned when a single append needs more room than the
// storage's total capacity.  Flushing cannot help; the caller needs a larger
// storage or a smaller append.
var ErrBufferTooLarge = errors.New("strbuf: append exceeds storage capacity")

var (
	// ErrIncompatibleEncoding is returned by NewStorage when the storage
	// encoding can be neither passed through nor narrowed in place to the
	// consumer's encoding.
	ErrIncompatibleEncoding = errors.New("strbuf: storage encoding incompatible with consumer")
	// ErrPartialCodeUnit is returned when a byte slice does not hold a whole
	// number of code units.
	ErrPartialCodeUnit = errors.New("strbuf: partial code unit")
	// ErrInvalidASCII is returned by AppendASCIIChecked for bytes above 0x7F.
	ErrInvalidASCII = errors.New("strbuf: invalid ASCII input")
)
