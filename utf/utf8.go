package utf

func isTrail(b byte) bool { return b&0xC0 == 0x80 }

// decodeUTF8 follows the well-formed byte sequence table of Unicode 6.0,
// Table 3-7.  On error it consumes the maximal subpart of the ill-formed
// sequence: a bad lead byte or a bad first trail byte consumes just the lead
// byte, a bad later trail byte consumes the valid prefix.
func decodeUTF8(src []byte) (CodePoint, int, error) {
	if len(src) == 0 {
		return 0, 0, ErrUnexpectedEnd
	}
	b0 := src[0]
	if b0 < 0x80 {
		return CodePoint(b0), 1, nil
	}

	var n int
	lo, hi := byte(0x80), byte(0xBF)
	switch {
	case b0 < 0xC2:
		// trail bytes and overlong 2-byte leads C0, C1
		return 0, 1, ErrInvalidStartByte
	case b0 < 0xE0:
		n = 2
	case b0 < 0xF0:
		n = 3
		switch b0 {
		case 0xE0:
			lo = 0xA0 // overlong
		case 0xED:
			hi = 0x9F // surrogates
		}
	case b0 < 0xF5:
		n = 4
		switch b0 {
		case 0xF0:
			lo = 0x90 // overlong
		case 0xF4:
			hi = 0x8F // beyond U+10FFFF
		}
	default:
		return 0, 1, ErrInvalidStartByte
	}

	if len(src) < 2 {
		return 0, len(src), ErrUnexpectedEnd
	}
	b1 := src[1]
	if b1 < lo || b1 > hi {
		if isTrail(b1) {
			return 0, 1, ErrInvalidFirstTrailByte
		}
		return 0, 1, ErrTrailByteExpected
	}

	cp := CodePoint(b0&(0x7F>>n))<<6 | CodePoint(b1&0x3F)
	for i := 2; i < n; i++ {
		if i >= len(src) {
			return 0, len(src), ErrUnexpectedEnd
		}
		b := src[i]
		if !isTrail(b) {
			return 0, i, ErrTrailByteExpected
		}
		cp = cp<<6 | CodePoint(b&0x3F)
	}
	return cp, n, nil
}

// encodeUTF8 writes c without validation.  Surrogates get the generic 3-byte
// form; values beyond U+10FFFF are not written.
func encodeUTF8(dst []byte, c CodePoint) int {
	switch {
	case c <= 0x7F:
		dst[0] = byte(c)
		return 1
	case c <= 0x7FF:
		_ = dst[1]
		dst[0] = 0xC0 | byte(c>>6)
		dst[1] = 0x80 | byte(c)&0x3F
		return 2
	case c <= 0xFFFF:
		_ = dst[2]
		dst[0] = 0xE0 | byte(c>>12)
		dst[1] = 0x80 | byte(c>>6)&0x3F
		dst[2] = 0x80 | byte(c)&0x3F
		return 3
	case c <= MaxCodePoint:
		_ = dst[3]
		dst[0] = 0xF0 | byte(c>>18)
		dst[1] = 0x80 | byte(c>>12)&0x3F
		dst[2] = 0x80 | byte(c>>6)&0x3F
		dst[3] = 0x80 | byte(c)&0x3F
		return 4
	}
	return 0
}
