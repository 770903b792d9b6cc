package utf

import "encoding/binary"

func getUnit32(src []byte, big bool) CodePoint {
	if big {
		return CodePoint(binary.BigEndian.Uint32(src))
	}
	return CodePoint(binary.LittleEndian.Uint32(src))
}

func putUnit32(dst []byte, v CodePoint, big bool) {
	if big {
		binary.BigEndian.PutUint32(dst, uint32(v))
		return
	}
	binary.LittleEndian.PutUint32(dst, uint32(v))
}

func decodeUTF32(src []byte, big bool) (CodePoint, int, error) {
	if len(src) < 4 {
		return 0, len(src), ErrUnexpectedEnd
	}
	u := getUnit32(src, big)
	if !u.IsScalar() {
		return 0, 4, ErrInvalidCodePoint
	}
	return u, 4, nil
}
