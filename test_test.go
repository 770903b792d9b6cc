package jstream

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"os"
	"strings"
	"testing"

	"github.com/xdg-go/jstream/utf"
	"go.mongodb.org/mongo-driver/bson"
)

type unmarshalTestCase struct {
	label  string
	input  string
	output string
	errStr string
}

func testWithUnmarshal(t *testing.T, cases []unmarshalTestCase) {
	t.Helper()

	for _, c := range cases {
		c := c
		t.Run(c.label, func(t *testing.T) {
			t.Parallel()

			buf := make([]byte, 0, 256)
			buf, err := Unmarshal([]byte(c.input), buf)
			if c.errStr != "" {
				var got string
				if err != nil {
					got = err.Error()
				}
				if !strings.Contains(got, c.errStr) {
					t.Errorf("expected error with '%s', but got %v", c.errStr, got)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				} else {
					c.output = strings.ToLower(c.output)
					expect, err := hex.DecodeString(c.output)
					if err != nil {
						t.Fatalf("error decoding test output: %v", err)
					}
					if !bytes.Equal(expect, buf) {
						t.Fatalf("Unmarshal doesn't match expected:\nGot:    %v\nExpect: %v", hex.EncodeToString(buf), c.output)
					}

				}
			}
		})
	}
}

// decodeWith runs a fresh decoder over input after applying opts and returns
// the first document.
func decodeWith(input []byte, opts ...func(*Decoder)) ([]byte, error) {
	jsonReader := bufio.NewReader(bytes.NewReader(input))
	dec, err := NewDecoder(jsonReader)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(dec)
	}
	return dec.Decode(make([]byte, 0, 256))
}

func getTestFiles(t *testing.T, dir, prefix, suffix string) []string {
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	keep := make([]string, 0)
	for _, file := range files {
		name := file.Name()
		if prefix != "" {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
		}
		if suffix != "" {
			if !strings.HasSuffix(name, suffix) {
				continue
			}
		}
		keep = append(keep, name)
	}

	return keep
}

func convertWithDecoder(input []byte) ([]byte, error) {
	return decodeWith(input)
}

func convertWithGoDriver(input []byte) ([]byte, error) {
	var got bson.Raw
	err := bson.UnmarshalExtJSON(input, false, &got)
	return got, err
}

func objectify(input []byte) []byte {
	// Skip over BOM and leading spaces
	_, i := utf.DetectBOM(input)
	for i < len(input) {
		if input[i] != ' ' {
			break
		}
		i++
	}
	if i == len(input) || input[i] != '{' {
		object := make([]byte, 0)
		object = append(object, input[0:i]...)
		object = append(object, []byte(`{"a":`)...)
		object = append(object, input[i:]...)
		object = append(object, '}')
		return object
	}
	return input
}
