package utf

// NarrowInPlace treats buf as a sequence of host-order UTF-32 code units and
// re-encodes it in place as enc.  It returns the length in bytes of the
// result, which starts at buf[0].  A trailing partial unit is ignored.
//
// Every code point needs at most four bytes in any encoding, so the write
// position never passes the start of the next unread unit.  The units are
// not validated; see EncodeUnsafe.
func NarrowInPlace(buf []byte, enc Encoding) int {
	units := len(buf) / 4
	w := 0
	var tmp [MaxEncodedBytes]byte
	switch enc.Form() {
	case FormUTF8:
		for i := 0; i < units; i++ {
			c := getUnit32(buf[i*4:], hostBigEndian)
			if c < 0x80 {
				buf[w] = byte(c)
				w++
				continue
			}
			n := encodeUTF8(tmp[:], c)
			w += copy(buf[w:], tmp[:n])
		}
	case FormUTF16:
		big := isBig(enc)
		for i := 0; i < units; i++ {
			c := getUnit32(buf[i*4:], hostBigEndian)
			n := encodeUTF16(tmp[:], c, big)
			w += copy(buf[w:], tmp[:n*2])
		}
	case FormUTF32:
		big := isBig(enc)
		if big == hostBigEndian {
			return units * 4
		}
		for i := 0; i < units; i++ {
			p := buf[i*4:]
			putUnit32(p, getUnit32(p, hostBigEndian), big)
		}
		w = units * 4
	}
	return w
}
