// Copyright 2020 by David A. Golden. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jstream

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/xdg-go/jstream/strbuf"
	"github.com/xdg-go/jstream/utf"
	"golang.org/x/text/transform"
)

const defaultMaxDepth = 200

// Decoder reads and decodes JSON objects to BSON from a buffered input stream.
// Objects may be separated by optional white space or may be in a well-formed
// JSON array.
type Decoder struct {
	arrayFinished bool
	arrayStarted  bool
	curDepth      int
	json          *bufio.Reader
	maxDepth      int
	inputEnc      utf.Encoding
	transcoder    *utf.Transcoder
	str           *stringScanner
	sink          *bsonSink
	logger        *slog.Logger
}

// NewDecoder returns a new decoder.  If a UTF-8 byte-order-mark (BOM) exists,
// it will be stripped.  Input starting with a UTF-16 or UTF-32 BOM is
// transcoded to UTF-8 as it is read.  This function consumes leading white
// space and checks if the first character is '['.  If so, the input format is
// expected to be a single JSON array of objects and the stream will consist of
// the objects in the array.  Any read error (including io.EOF) will be
// returned.
//
// If the the bufio.Reader's size is less than 8192, it will be rebuffered.
// This is necessary to account for lookahead for long decimals to minimize
// copying.
func NewDecoder(json *bufio.Reader) (*Decoder, error) {
	if json.Size() < 8192 {
		json = bufio.NewReaderSize(json, 8192)
	}

	d := &Decoder{
		maxDepth: defaultMaxDepth,
		sink:     &bsonSink{},
		logger:   slog.Default().With("component", "jstream-decoder"),
	}
	d.json = d.handleBOM(json)
	d.ChunkSize(strbuf.DefaultCapacity)

	ch, err := d.readAfterWS()
	if err != nil {
		// Before an object is read, EOF is valid.
		if err == io.EOF {
			return nil, err
		}
		return nil, newReadError(err)
	}

	switch ch {
	case '[':
		d.arrayStarted = true
	default:
		err = d.json.UnreadByte()
		if err != nil {
			return nil, err
		}
	}

	return d, err
}

// InputEncoding reports the encoding of the input, as determined by its byte
// order mark.  Input without one is UTF-8.
func (d *Decoder) InputEncoding() utf.Encoding {
	return d.inputEnc
}

// MaxDepth sets the maximum allowed depth of a JSON object.  The default is
// 200.
func (d *Decoder) MaxDepth(n int) {
	d.maxDepth = n
}

// ChunkSize sets the capacity, in bytes, of the buffer that decoded strings
// pass through on their way to the output.  Longer strings are copied out in
// several chunks.  The default is 1024.
func (d *Decoder) ChunkSize(n int) {
	if n <= 0 {
		n = strbuf.DefaultCapacity
	}
	storage, err := strbuf.NewStorage(utf.UTF8, d.sink, n)
	if err != nil {
		// UTF-8 into a UTF-8 consumer with a positive capacity cannot fail.
		panic(err)
	}

	old := d.str
	d.str = newStringScanner(strbuf.NewBuffer(storage))
	d.str.onSubst = d.logSubstitution
	if d.transcoder != nil {
		d.str.markCause = d.transcoder.NextMark
	}
	if old != nil {
		d.str.lenient = old.lenient
		d.str.filter = old.filter
		d.str.repl = old.repl
	}
}

// Lenient toggles whether ill-formed Unicode in strings is replaced with
// U+FFFD instead of failing the decode.  This covers ill-formed UTF-8,
// unpaired surrogate escapes and, for transcoded input, ill-formed UTF-16 or
// UTF-32.  Ill-formed input outside of strings is always an error.
func (d *Decoder) Lenient(b bool) {
	d.str.lenient = b
}

// Filter rejects code points in strings for which f returns true.  If repl
// is non-zero, a rejected code point is replaced by repl; otherwise it fails
// the decode.  A nil f removes the filter.
//
// There is no filter by default: noncharacters and NUL in string values are
// kept, as BSON strings can hold them.  Use utf.NoncharacterOrNUL with a zero
// repl to reject them.
func (d *Decoder) Filter(f utf.Filter, repl utf.CodePoint) {
	d.str.filter = f
	d.str.repl = repl
}

// SetLogger sets the logger used for diagnostics.  Substitutions made under
// Lenient or Filter are logged at debug level.
func (d *Decoder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger.With("component", "jstream-decoder")
	} else {
		d.logger = slog.Default().With("component", "jstream-decoder")
	}
}

func (d *Decoder) logSubstitution(c utf.CodePoint, cause error) {
	d.logger.Debug("substituted code point in string",
		slog.String("replacement", fmt.Sprintf("U+%04X", uint32(c))),
		slog.String("cause", cause.Error()),
	)
}

// Decode converts a single JSON object from the input stream into BSON object.
// The function takes an output buffer as an argument.  If the buffer is not
// large enough, a new buffer will be allocated on demand.  The final buffer is
// returned, just like with `append`.  The function returns io.EOF if no
// objects remain in the stream.
func (d *Decoder) Decode(buf []byte) ([]byte, error) {
	if d.arrayFinished {
		return nil, io.EOF
	}

	ch, err := d.readAfterWS()
	if err != nil {
		// Before reading a new object, EOF is valid.
		if err == io.EOF {
			return nil, err
		}
		return nil, newReadError(err)
	}

	switch ch {
	case '{':
		err = d.json.UnreadByte()
		if err != nil {
			return nil, err
		}
	case ']':
		if d.arrayStarted {
			d.arrayFinished = true
			return nil, io.EOF
		}
		return nil, d.parseError(ch, "Decode only supports object decoding")
	default:
		return nil, d.parseError(ch, "Decode only supports object decoding")
	}

	buf, err = d.convertValue(buf, topContainer)
	if err != nil {
		return nil, err
	}

	// In array mode, consume the comma or the closing ']'.
	if d.arrayStarted {
		ch, err := d.readAfterWS()
		if err != nil {
			return nil, newReadError(err)
		}

		switch ch {
		case ',':
			// nothing
		case ']':
			d.arrayFinished = true
		default:
			return nil, d.parseError(ch, "expecting value-separator or end of array")
		}
	}

	return buf, nil
}

func (d *Decoder) readAfterWS() (byte, error) {
	var ch byte
	var err error
	for {
		ch, err = d.json.ReadByte()
		if err != nil {
			return 0, err
		}
		switch ch {
		case ' ', '\t', '\n', '\r':
		default:
			return ch, nil
		}
	}
}

func (d *Decoder) readCharAfterWS(b byte) error {
	ch, err := d.readAfterWS()
	if err != nil {
		return newReadError(err)
	}
	if ch != b {
		return d.parseError(ch, fmt.Sprintf("expecting '%c'", b))
	}
	return nil
}

func (d *Decoder) readNameSeparator() error {
	return d.readCharAfterWS(':')
}

func (d *Decoder) parseError(ch byte, msg string) error {
	return d.parseErrorCause(ch, msg, nil)
}

func (d *Decoder) parseErrorCause(ch byte, msg string, cause error) error {
	after, _ := d.json.Peek(20)
	if d.transcoder != nil {
		// Marks stand in for ill-formed input and are not text.
		after = bytes.ReplaceAll(after, []byte{utf.IllFormedMark}, []byte("\uFFFD"))
		if ch == utf.IllFormedMark {
			if cause == nil {
				cause = d.transcoder.NextMark()
				msg = fmt.Sprintf("%s: %v", msg, cause)
			}
			return newParseError(cause, "parse error: %s on ill-formed %s input, followed by '%s...'", msg, d.inputEnc, after)
		}
	}
	return newParseError(cause, "parse error: %s on char '%s', followed by '%s...'", msg, string(ch), after)
}

// Unmarshal converts a single JSON object to a BSON document.  The function
// takes an output buffer as an argument.  If the buffer is not large enough, a
// new buffer will be allocated on demand.  The final buffer is returned, just
// like with `append`.  The function returns io.EOF if the input is empty.
func Unmarshal(in []byte, out []byte) ([]byte, error) {
	jsonReader := bufio.NewReader(bytes.NewReader(in))
	dec, err := NewDecoder(jsonReader)
	if err != nil {
		return nil, err
	}
	return dec.Decode(out)
}

// handleBOM strips a UTF-8 BOM.  For a UTF-16 or UTF-32 BOM, it strips the
// BOM and returns a reader that transcodes the rest of the input to UTF-8.
// Inability to peek is a NOP and will be handled by the normal parser.
func (d *Decoder) handleBOM(r *bufio.Reader) *bufio.Reader {
	preamble, _ := r.Peek(4)
	enc, n := utf.DetectBOM(preamble)
	switch enc {
	case 0:
		d.inputEnc = utf.UTF8
		return r
	case utf.UTF8:
		_, _ = r.Discard(n)
		d.inputEnc = utf.UTF8
		return r
	}

	_, _ = r.Discard(n)
	d.inputEnc = enc
	d.logger.Debug("transcoding input", slog.String("encoding", enc.String()))
	// Ill-formed sequences are marked, not rejected, so that Lenient decides
	// what happens to them inside strings.
	d.transcoder = utf.NewTranscoder(enc, utf.UTF8, utf.MarkIllFormed)
	return bufio.NewReaderSize(transform.NewReader(r, d.transcoder), 8192)
}
