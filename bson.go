package jstream

import (
	"bytes"
	"strconv"

	"github.com/xdg-go/jstream/utf"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// topContainer marks the outermost document, which has no type byte.
const topContainer = -1

const (
	nullByte  byte = 0x00
	emptyType byte = 0x00
)

// numberPeekWidth bounds the length of a number literal.
const numberPeekWidth = 256

// arrayKey caches the keys of the first array elements.
var arrayKey = func() [][]byte {
	keys := make([][]byte, 1000)
	for i := range keys {
		keys[i] = []byte(strconv.Itoa(i))
	}
	return keys
}()

func overwriteTypeByte(out []byte, pos int, t bsontype.Type) {
	// Top-level containers don't have a type byte preceding them
	if pos == topContainer {
		return
	}
	out[pos] = byte(t)
}

// bsonSink is the strbuf.Consumer behind the decoder's string buffer.  It
// appends each chunk of a decoded string to the BSON output being built.
type bsonSink struct {
	out []byte
	key bool
}

func (s *bsonSink) Encoding() utf.Encoding { return utf.UTF8 }

func (s *bsonSink) WriteChunk(p []byte, hasMore bool) error {
	if s.key && bytes.IndexByte(p, nullByte) >= 0 {
		return newParseError(nil, "null character not allowed in keys")
	}
	s.out = append(s.out, p...)
	return nil
}

// convertString writes a BSON string: int32 length, UTF-8 bytes and a null
// terminator.
func (d *Decoder) convertString(out []byte) ([]byte, error) {
	lengthPos, out := bsoncore.ReserveLength(out)

	out, err := d.convertStringContent(out, false)
	if err != nil {
		return nil, err
	}
	out = append(out, nullByte)

	return bsoncore.UpdateLength(out, lengthPos, int32(len(out))-lengthPos-4), nil
}
