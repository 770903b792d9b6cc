package utf

import "encoding/binary"

func getUnit16(src []byte, big bool) CodePoint {
	if big {
		return CodePoint(binary.BigEndian.Uint16(src))
	}
	return CodePoint(binary.LittleEndian.Uint16(src))
}

func putUnit16(dst []byte, v CodePoint, big bool) {
	if big {
		binary.BigEndian.PutUint16(dst, uint16(v))
		return
	}
	binary.LittleEndian.PutUint16(dst, uint16(v))
}

// decodeUTF16 consumes one unit for a BMP value or an unpaired surrogate and
// two units for a surrogate pair.  A dangling odd byte counts as truncation.
func decodeUTF16(src []byte, big bool) (CodePoint, int, error) {
	if len(src) < 2 {
		return 0, len(src), ErrUnexpectedEnd
	}
	u := getUnit16(src, big)
	switch {
	case !u.IsSurrogate():
		return u, 2, nil
	case u.IsLowSurrogate():
		return 0, 2, ErrUnpairedLowSurrogate
	}
	if len(src) < 4 {
		return 0, len(src), ErrUnexpectedEnd
	}
	u2 := getUnit16(src[2:], big)
	if !u2.IsLowSurrogate() {
		return 0, 2, ErrUnpairedHighSurrogate
	}
	return combineSurrogates(u, u2), 4, nil
}

// encodeUTF16 writes c without validation and returns the number of code
// units written.  A surrogate is written as a single unit; values beyond
// U+10FFFF are not written.
func encodeUTF16(dst []byte, c CodePoint, big bool) int {
	switch {
	case c <= 0xFFFF:
		putUnit16(dst, c, big)
		return 1
	case c <= MaxCodePoint:
		hi, lo := splitSurrogates(c)
		putUnit16(dst, hi, big)
		putUnit16(dst[2:], lo, big)
		return 2
	}
	return 0
}
