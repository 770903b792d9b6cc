package utf

// CodePoint is a value in the Unicode code space.  Unsafe conversions accept
// any 32-bit value; validating conversions accept only scalar values.
type CodePoint uint32

const (
	// ReplacementChar is U+FFFD, substituted for ill-formed input.
	ReplacementChar CodePoint = 0xFFFD
	// MaxCodePoint is the largest value in the Unicode code space.
	MaxCodePoint CodePoint = 0x10FFFF
	// MaxEncodedBytes is the largest number of bytes any encoding needs for a
	// single code point.
	MaxEncodedBytes = 4

	surrogateMin     = 0xD800
	highSurrogateMax = 0xDBFF
	lowSurrogateMin  = 0xDC00
	surrogateMax     = 0xDFFF
	surrogateOffset  = 0x10000
)

// IsCodePoint reports whether c is within U+0000..U+10FFFF.
func (c CodePoint) IsCodePoint() bool { return c <= MaxCodePoint }

// IsSurrogate reports whether c is in U+D800..U+DFFF.
func (c CodePoint) IsSurrogate() bool { return c-surrogateMin <= surrogateMax-surrogateMin }

// IsHighSurrogate reports whether c is in U+D800..U+DBFF.
func (c CodePoint) IsHighSurrogate() bool { return c-surrogateMin <= highSurrogateMax-surrogateMin }

// IsLowSurrogate reports whether c is in U+DC00..U+DFFF.
func (c CodePoint) IsLowSurrogate() bool { return c-lowSurrogateMin <= surrogateMax-lowSurrogateMin }

// IsScalar reports whether c is a Unicode scalar value: a code point that is
// not a surrogate.
func (c CodePoint) IsScalar() bool {
	return c < surrogateMin || (c > surrogateMax && c <= MaxCodePoint)
}

// IsNoncharacter reports whether c is one of the 66 noncharacters: U+FDD0
// through U+FDEF and the last two code points of every plane.
func (c CodePoint) IsNoncharacter() bool {
	if c > MaxCodePoint {
		return false
	}
	return c&0xFFFE == 0xFFFE || (c >= 0xFDD0 && c <= 0xFDEF)
}

// IsCharacter reports whether c is a scalar value and not a noncharacter.
func (c CodePoint) IsCharacter() bool { return c.IsScalar() && !c.IsNoncharacter() }

// IsControl reports whether c is a C0 or C1 control code.
func (c CodePoint) IsControl() bool {
	return c <= 0x1F || (c >= 0x7F && c <= 0x9F)
}

// combineSurrogates returns the scalar value of a surrogate pair.  hi and lo
// must be a high and a low surrogate.
func combineSurrogates(hi, lo CodePoint) CodePoint {
	return (hi-surrogateMin)<<10 + (lo - lowSurrogateMin) + surrogateOffset
}

// CombineSurrogates returns the scalar value encoded by the UTF-16 surrogate
// pair hi, lo, or ReplacementChar if they are not a high and a low surrogate.
func CombineSurrogates(hi, lo CodePoint) CodePoint {
	if !hi.IsHighSurrogate() || !lo.IsLowSurrogate() {
		return ReplacementChar
	}
	return combineSurrogates(hi, lo)
}

// splitSurrogates returns the UTF-16 surrogate pair for a supplementary
// code point.
func splitSurrogates(c CodePoint) (hi, lo CodePoint) {
	c -= surrogateOffset
	return surrogateMin + (c>>10)&0x3FF, lowSurrogateMin + c&0x3FF
}

// EncodedLen returns the number of code units needed to encode c in form f,
// or 0 if c is not a scalar value.
func EncodedLen(c CodePoint, f Form) int {
	if !c.IsScalar() {
		return 0
	}
	return EncodedLenUnsafe(c, f)
}

// EncodedLenUnsafe is like EncodedLen but counts surrogates like any other
// BMP code point.  It returns 0 for UTF-8 and UTF-16 values beyond U+10FFFF.
func EncodedLenUnsafe(c CodePoint, f Form) int {
	switch f {
	case FormUTF8:
		switch {
		case c <= 0x7F:
			return 1
		case c <= 0x7FF:
			return 2
		case c <= 0xFFFF:
			return 3
		case c <= MaxCodePoint:
			return 4
		}
	case FormUTF16:
		switch {
		case c <= 0xFFFF:
			return 1
		case c <= MaxCodePoint:
			return 2
		}
	case FormUTF32:
		return 1
	}
	return 0
}
