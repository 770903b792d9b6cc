package utf

import "bytes"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
)

// BOM returns a new slice holding the byte order mark of enc.
func BOM(enc Encoding) []byte {
	var b []byte
	switch enc.Resolve() {
	case UTF8:
		b = bomUTF8
	case UTF16BE:
		b = bomUTF16BE
	case UTF16LE:
		b = bomUTF16LE
	case UTF32BE:
		b = bomUTF32BE
	case UTF32LE:
		b = bomUTF32LE
	default:
		return nil
	}
	return append([]byte(nil), b...)
}

// DetectBOM looks for a byte order mark at the start of b.  It returns the
// announced encoding and the length of the mark, or 0 and 0 if there is none.
//
// FF FE 00 00 is taken as UTF-32LE even though it could also be UTF-16LE
// text starting with U+0000.  With fewer than four bytes available, FF FE is
// reported as UTF-16LE.
func DetectBOM(b []byte) (Encoding, int) {
	switch {
	case bytes.HasPrefix(b, bomUTF32BE):
		return UTF32BE, 4
	case bytes.HasPrefix(b, bomUTF32LE):
		return UTF32LE, 4
	case bytes.HasPrefix(b, bomUTF8):
		return UTF8, 3
	case bytes.HasPrefix(b, bomUTF16BE):
		return UTF16BE, 2
	case bytes.HasPrefix(b, bomUTF16LE):
		return UTF16LE, 2
	}
	return 0, 0
}
