package jstream

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

func (d *Decoder) convertValue(out []byte, typeBytePos int) ([]byte, error) {
	ch, err := d.readAfterWS()
	if err != nil {
		return nil, newReadError(err)
	}

	switch ch {
	case '{':
		overwriteTypeByte(out, typeBytePos, bsontype.EmbeddedDocument)
		out, err = d.convertObject(out)
		if err != nil {
			return nil, err
		}
	case '[':
		overwriteTypeByte(out, typeBytePos, bsontype.Array)
		out, err = d.convertArray(out)
		if err != nil {
			return nil, err
		}
	case 't':
		overwriteTypeByte(out, typeBytePos, bsontype.Boolean)
		out, err = d.convertTrue(out)
		if err != nil {
			return nil, err
		}
	case 'f':
		overwriteTypeByte(out, typeBytePos, bsontype.Boolean)
		out, err = d.convertFalse(out)
		if err != nil {
			return nil, err
		}
	case 'n':
		overwriteTypeByte(out, typeBytePos, bsontype.Null)
		out, err = d.convertNull(out)
		if err != nil {
			return nil, err
		}
	case '"':
		overwriteTypeByte(out, typeBytePos, bsontype.String)
		out, err = d.convertString(out)
		if err != nil {
			return nil, err
		}
	default:
		// Either a number or an error.  We can't write the type byte
		// until the number type is determined, so pass it down.
		err = d.json.UnreadByte()
		if err != nil {
			return nil, err
		}
		out, err = d.convertNumber(out, typeBytePos)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (d *Decoder) enter() error {
	d.curDepth++
	if d.curDepth > d.maxDepth {
		return errors.New("maximum depth exceeded")
	}
	return nil
}

func (d *Decoder) convertObject(out []byte) ([]byte, error) {
	var ch byte
	var err error
	var typeBytePos int

	// Depth check
	err = d.enter()
	defer func() { d.curDepth-- }()
	if err != nil {
		return nil, err
	}

	lengthPos, out := bsoncore.AppendDocumentStart(out)

	// Check for empty object or start of key
	ch, err = d.readAfterWS()
	if err != nil {
		return nil, newReadError(err)
	}
	switch ch {
	case '}':
		return bsoncore.AppendDocumentEnd(out, lengthPos)
	case '"':
		// Record position for the placeholder type byte that we write
		typeBytePos = len(out)
		out = append(out, emptyType)

		// Convert key as Cstring
		out, err = d.convertCString(out)
		if err != nil {
			return nil, err
		}
	default:
		return nil, d.parseError(ch, "expecting key or end of object")
	}

	// Next non-WS char must be ':' for separator
	err = d.readNameSeparator()
	if err != nil {
		return nil, err
	}

	// Convert first value of object
	out, err = d.convertValue(out, typeBytePos)
	if err != nil {
		return nil, err
	}

LOOP:
	for {
		ch, err = d.readAfterWS()
		if err != nil {
			return nil, newReadError(err)
		}
		switch ch {
		case ',':
			// Next non-WS character must be quote to start key
			ch, err = d.readAfterWS()
			if err != nil {
				return nil, newReadError(err)
			}
			if ch != '"' {
				return nil, d.parseError(ch, "expecting key")
			}

			// Record position for the placeholder type byte that we write
			typeBytePos = len(out)
			out = append(out, emptyType)

			// Convert key as Cstring
			out, err = d.convertCString(out)
			if err != nil {
				return nil, err
			}

			// Next non-WS char must be ':' for separator
			err = d.readNameSeparator()
			if err != nil {
				return nil, err
			}

			// Convert next value
			out, err = d.convertValue(out, typeBytePos)
			if err != nil {
				return nil, err
			}
		case '}':
			break LOOP
		default:
			return nil, d.parseError(ch, "expecting value-separator or end of object")
		}
	}

	// Write null terminator and calculate/update length
	return bsoncore.AppendDocumentEnd(out, lengthPos)
}

func (d *Decoder) convertArray(out []byte) ([]byte, error) {
	var ch byte
	var err error

	// Depth check
	err = d.enter()
	defer func() { d.curDepth-- }()
	if err != nil {
		return nil, err
	}

	lengthPos, out := bsoncore.AppendArrayStart(out)

	ch, err = d.readAfterWS()
	if err != nil {
		return nil, newReadError(err)
	}

	// Case: empty array
	if ch == ']' {
		return bsoncore.AppendArrayEnd(out, lengthPos)
	}

	// Not empty: unread the byte for convertValue to check
	err = d.json.UnreadByte()
	if err != nil {
		return nil, err
	}

	// Start counting array entries for keys
	index := 0

	for {
		// Record position for the placeholder type byte that we write
		typeBytePos := len(out)
		out = append(out, emptyType)

		// Append key
		if index < len(arrayKey) {
			out = append(out, arrayKey[index]...)
		} else {
			out = strconv.AppendInt(out, int64(index), 10)
		}
		out = append(out, nullByte)

		// Convert value
		out, err = d.convertValue(out, typeBytePos)
		if err != nil {
			return nil, err
		}

		ch, err = d.readAfterWS()
		if err != nil {
			return nil, newReadError(err)
		}

		switch ch {
		case ',':
			index++
		case ']':
			// Write null terminator and calculate/update length
			return bsoncore.AppendArrayEnd(out, lengthPos)
		default:
			return nil, d.parseError(ch, "expecting value-separator or end of array")
		}
	}
}

func (d *Decoder) convertTrue(out []byte) ([]byte, error) {
	rest, err := d.json.Peek(3)
	if err != nil {
		return nil, newReadError(err)
	}
	// already saw 't', looking for "rue"
	if rest[0] != 'r' || rest[1] != 'u' || rest[2] != 'e' {
		return nil, d.parseError('t', "expecting true")
	}

	out = bsoncore.AppendBoolean(out, true)

	_, err = d.json.Discard(3)
	if err != nil {
		return nil, fmt.Errorf("unexpected error discarding buffered reader: %v", err)
	}
	return out, nil
}

func (d *Decoder) convertFalse(out []byte) ([]byte, error) {
	rest, err := d.json.Peek(4)
	if err != nil {
		return nil, newReadError(err)
	}
	// Already saw 'f', looking for "alse"
	if rest[0] != 'a' || rest[1] != 'l' || rest[2] != 's' || rest[3] != 'e' {
		return nil, d.parseError('f', "expecting false")
	}

	out = bsoncore.AppendBoolean(out, false)

	_, err = d.json.Discard(4)
	if err != nil {
		return nil, fmt.Errorf("unexpected error discarding buffered reader: %v", err)
	}
	return out, nil
}

func (d *Decoder) convertNull(out []byte) ([]byte, error) {
	rest, err := d.json.Peek(3)
	if err != nil {
		return nil, newReadError(err)
	}
	// Already saw 'n', looking for "ull"
	if rest[0] != 'u' || rest[1] != 'l' || rest[2] != 'l' {
		return nil, d.parseError('n', "expecting null")
	}

	// Nothing to write

	_, err = d.json.Discard(3)
	if err != nil {
		return nil, fmt.Errorf("unexpected error discarding buffered reader: %v", err)
	}
	return out, nil
}

func (d *Decoder) convertNumber(out []byte, typeBytePos int) ([]byte, error) {
	var err error
	var isFloat bool
	var terminated bool

	buf, err := d.json.Peek(numberPeekWidth)
	if err != nil {
		// here, io.EOF is OK, since we're peeking and may hit end of
		// object
		if err != io.EOF {
			return nil, err
		}
	}

	// Find where the number appears to ends and if it's a float.
	var i int
LOOP:
	for i = 0; i < len(buf); i++ {
		switch buf[i] {
		case 'e', 'E', '.':
			isFloat = true
		case ' ', '\t', '\n', '\r', ',', ']', '}':
			terminated = true
			break LOOP
		}
	}

	if !terminated {
		if len(buf) < numberPeekWidth {
			return nil, newReadError(io.ErrUnexpectedEOF)
		}
		return nil, d.parseError(buf[i-1], "number too long")
	}

	if i == 0 {
		return nil, d.parseError(buf[0], "expecting value")
	}

	if isFloat {
		overwriteTypeByte(out, typeBytePos, bsontype.Double)
		out, err = d.convertFloat(out, buf[0:i])
		if err != nil {
			return nil, err
		}
	} else {
		// Still don't know the type, so delegate.
		out, err = d.convertInt(out, typeBytePos, buf[0:i])
		if err != nil {
			return nil, err
		}
	}

	// i is at terminator or whitespace, so discard just before that.
	_, err = d.json.Discard(i)
	if err != nil {
		return nil, fmt.Errorf("unexpected error discarding buffered reader: %v", err)
	}
	return out, nil
}

func (d *Decoder) convertFloat(out []byte, buf []byte) ([]byte, error) {
	if !validNumber(buf) {
		return nil, fmt.Errorf("parser error: float conversion: invalid syntax %q", buf)
	}
	n, err := strconv.ParseFloat(string(buf), 64)
	if err != nil {
		return nil, fmt.Errorf("parser error: float conversion: %v", err)
	}

	return bsoncore.AppendDouble(out, n), nil
}

func (d *Decoder) convertInt(out []byte, typeBytePos int, buf []byte) ([]byte, error) {
	if !validNumber(buf) {
		return nil, fmt.Errorf("parser error: int conversion: invalid syntax %q", buf)
	}
	n, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parser error: int conversion: %v", err)
	}

	if n < math.MinInt32 || n > math.MaxInt32 {
		overwriteTypeByte(out, typeBytePos, bsontype.Int64)
		return bsoncore.AppendInt64(out, n), nil
	}

	overwriteTypeByte(out, typeBytePos, bsontype.Int32)
	return bsoncore.AppendInt32(out, int32(n)), nil
}

// validNumber checks the JSON number grammar, which is stricter than
// strconv: no leading '+', no leading zeros, no bare '.', no hex, no
// underscores.
func validNumber(b []byte) bool {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}
	switch {
	case i < len(b) && b[i] == '0':
		i++
	case i < len(b) && b[i] >= '1' && b[i] <= '9':
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
		}
	default:
		return false
	}
	if i < len(b) && b[i] == '.' {
		i++
		start := i
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		start := i
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(b)
}
