package jstream

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xdg-go/jstream/utf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

const JstreamTestSuite = "testdata/jstreamtests"

func TestJstreamTestSuite_Passing(t *testing.T) {
	t.Helper()
	t.Parallel()
	files := getTestFiles(t, JstreamTestSuite, "y", ".json")
	for _, f := range files {
		f := f
		t.Run(f, func(t *testing.T) {
			t.Parallel()
			testPassingConversion(t, filepath.Join(JstreamTestSuite, f))
		})
	}
}

// referenceDecoder returns an x/text decoder that strips the BOM for enc.
func referenceDecoder(enc utf.Encoding) *encoding.Decoder {
	switch enc {
	case utf.UTF8:
		return unicode.UTF8BOM.NewDecoder()
	case utf.UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case utf.UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case utf.UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder()
	case utf.UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder()
	}
	return nil
}

func testPassingConversion(t *testing.T, f string) {
	t.Helper()
	text, err := os.ReadFile(f)
	if err != nil {
		t.Fatalf("error reading %s: %v", f, err)
	}

	// The driver only reads UTF-8 without a BOM.
	plain := text
	enc, _ := utf.DetectBOM(text)
	if dec := referenceDecoder(enc); dec != nil {
		plain, err = dec.Bytes(text)
		if err != nil {
			t.Fatalf("reference transcoding failed: %v", err)
		}
	} else {
		text = objectify(text)
		plain = text
	}

	got, err := convertWithDecoder(text)
	if err != nil {
		t.Fatalf("jstream error: %v\ntext: %s", err, string(plain))
	}
	driverGot, err := convertWithGoDriver(plain)
	if err != nil {
		// If Go driver can't parse, we can't compare against it.
		t.Logf("skipping, mongo go driver error: %v\ntext: %s", err, string(plain))
		return
	}
	if !bytes.Equal(got, driverGot) {
		t.Fatalf("jstream doesn't match Go driver:\njstream: %v\nDriver:  %v", hex.EncodeToString(got), hex.EncodeToString(driverGot))
	}

	// Small chunks must not change the output.
	for _, size := range []int{4, 5, 7, 16} {
		small, err := decodeWith(text, func(d *Decoder) { d.ChunkSize(size) })
		if err != nil {
			t.Fatalf("chunk size %d: %v", size, err)
		}
		if !bytes.Equal(small, got) {
			t.Fatalf("chunk size %d changed output:\ngot:    %v\nexpect: %v", size, hex.EncodeToString(small), hex.EncodeToString(got))
		}
	}
}

func TestJstreamTestSuite_Failing(t *testing.T) {
	t.Parallel()

	files := getTestFiles(t, JstreamTestSuite, "n", ".json")
	for _, f := range files {
		f := f
		t.Run(f, func(t *testing.T) {
			t.Parallel()
			var err error
			var got []byte
			text, err := os.ReadFile(filepath.Join(JstreamTestSuite, f))
			if err != nil {
				t.Fatalf("error reading %s: %v", f, err)
			}
			jsonReader := bufio.NewReader(bytes.NewReader(text))
			dec, err := NewDecoder(jsonReader)
			for err == nil {
				got, err = dec.Decode(make([]byte, 0, 256))
			}
			if err == nil || err == io.EOF {
				t.Fatalf("expected error but got %v for '%s' ('%s')", err, string(text), hex.EncodeToString(got))
			}
		})
	}
}

func TestStreaming(t *testing.T) {
	t.Parallel()

	type testCase struct {
		label  string
		input  string
		count  int
		errStr string
	}

	cases := []testCase{
		// Document streams
		{
			label:  "no docs",
			input:  "",
			count:  0,
			errStr: io.EOF.Error(),
		},
		{
			label:  "1 doc",
			input:  "{}",
			count:  1,
			errStr: io.EOF.Error(),
		},
		{
			label:  "1 doc, leading WS",
			input:  " {}",
			count:  1,
			errStr: io.EOF.Error(),
		},
		{
			label:  "2 docs, no WS",
			input:  "{}{}",
			count:  2,
			errStr: io.EOF.Error(),
		},
		{
			label:  "2 docs, space separated",
			input:  "{} {}",
			count:  2,
			errStr: io.EOF.Error(),
		},
		{
			label:  "2 docs, LF separated",
			input:  "{}\n{}",
			count:  2,
			errStr: io.EOF.Error(),
		},
		{
			label:  "2 docs, CRLF separated",
			input:  "{}\r\n{}",
			count:  2,
			errStr: io.EOF.Error(),
		},
		{
			label:  "3 docs, LF separated",
			input:  "{}\n{}\n{}",
			count:  3,
			errStr: io.EOF.Error(),
		},

		// Array of documents
		{
			label:  "array: no docs",
			input:  "[]",
			count:  0,
			errStr: io.EOF.Error(),
		},
		{
			label:  "array: one doc w/ WS",
			input:  "[ {} ]",
			count:  1,
			errStr: io.EOF.Error(),
		},
		{
			label:  "array: 2 docs, no WS",
			input:  "[{},{}]",
			count:  2,
			errStr: io.EOF.Error(),
		},
		{
			label:  "array: 2 docs, space separated",
			input:  "[{}, {}]",
			count:  2,
			errStr: io.EOF.Error(),
		},
		{
			label:  "array: 2 docs, LF separated",
			input:  "[{},\n{}]",
			count:  2,
			errStr: io.EOF.Error(),
		},
		{
			label:  "array: 2 docs, CRLF separated",
			input:  "[{},\r\n{}]",
			count:  2,
			errStr: io.EOF.Error(),
		},
		{
			label:  "array: 3 docs",
			input:  "[{},{},{}]",
			count:  3,
			errStr: io.EOF.Error(),
		},
		{
			label:  "array: 2 arrays",
			input:  "[{},{},{}]\n[{}]",
			count:  3,
			errStr: io.EOF.Error(),
		},
		{
			label:  "array: no comma",
			input:  "[{} {}]",
			count:  0,
			errStr: "expecting value-separator or end of array",
		},
		{
			label:  "array: not terminated",
			input:  "[{},{}",
			count:  1,
			errStr: "unexpected EOF",
		},

		// Non documents in stream
		{
			label:  "non-document",
			input:  `42`,
			count:  0,
			errStr: "Decode only supports object decoding",
		},
		{
			label:  "non-document after document",
			input:  `{} 42`,
			count:  1,
			errStr: "Decode only supports object decoding",
		},
		{
			label:  "non-document in array",
			input:  `[42]`,
			count:  0,
			errStr: "Decode only supports object decoding",
		},
		{
			label:  "start with array terminator",
			input:  `]{"a":"b"}`,
			count:  0,
			errStr: "Decode only supports object decoding",
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.label, func(t *testing.T) {
			t.Parallel()
			var err error
			jsonReader := bufio.NewReader(bytes.NewReader([]byte(c.input)))
			dec, err := NewDecoder(jsonReader)
			if err != nil && err != io.EOF {
				t.Fatalf("unexpected error: %v", err)
			}

			buf := make([]byte, 0, 256)
			var n int
			for err == nil {
				buf = buf[0:0]
				buf, err = dec.Decode(buf)
				if err != nil {
					break
				}
				n++
			}
			if n != c.count {
				t.Errorf("expected %d docs, but got %d", c.count, n)
			}
			if !strings.Contains(err.Error(), c.errStr) {
				t.Errorf("expected error with '%s', but got %v", c.errStr, err)
			}

		})
	}
}

func TestDepthLimit(t *testing.T) {
	t.Parallel()

	input := `{"1":{"2":{"3":[{"5":"a"}]}}}`
	out := make([]byte, 0)

	dec, err := NewDecoder(bufio.NewReader(bytes.NewReader([]byte(input))))
	if err != nil {
		t.Fatal(err)
	}
	dec.MaxDepth(4)
	out, err = dec.Decode(out)
	if err == nil {
		t.Fatalf("expected error and got nil")
	}

	dec, err = NewDecoder(bufio.NewReader(bytes.NewReader([]byte(input))))
	if err != nil {
		t.Fatal(err)
	}
	dec.MaxDepth(5)
	_, err = dec.Decode(out)
	if err != nil {
		t.Fatalf("expected no error and got: %v", err)
	}
}
