package jstream_test

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/xdg-go/jstream"
	"github.com/xdg-go/jstream/utf"
)

func ExampleUnmarshal() {
	json := `{"a": 1, "b": "foo"}`
	bson := make([]byte, 0, 256)

	bson, err := jstream.Unmarshal([]byte(json), bson)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(bson))
	// Output: 23
}

func ExampleDecoder_Decode() {
	json := `{"a": 1, "b": "foo"}`
	bson := make([]byte, 0, 256)

	jsonReader := bufio.NewReader(bytes.NewReader([]byte(json)))
	dec, err := jstream.NewDecoder(jsonReader)
	if err != nil {
		log.Fatal(err)
	}

	bson, err = dec.Decode(bson)
	if err != nil {
		log.Fatal(err)
	}
}

func ExampleDecoder_Lenient() {
	json := `{"a": "bad \udc00 surrogate"}`

	dec, err := jstream.NewDecoder(bufio.NewReader(bytes.NewReader([]byte(json))))
	if err != nil {
		log.Fatal(err)
	}
	dec.Lenient(true)
	dec.Filter(utf.NoncharacterOrNUL, utf.ReplacementChar)

	_, err = dec.Decode(nil)
	fmt.Println(err)
	// Output: <nil>
}

func ExampleUnquoter() {
	u, err := jstream.NewUnquoter(utf.UTF16BE)
	if err != nil {
		log.Fatal(err)
	}
	b, err := u.UnquoteBytes([]byte(`"é😀"`))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("% x\n", b)
	// Output: 00 e9 d8 3d de 00
}

func ExampleUnquoteAll() {
	lits := [][]byte{[]byte(`"a\tb"`), []byte(`"café"`)}
	strs, err := jstream.UnquoteAll(context.Background(), lits, 2)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%q\n", strs)
	// Output: ["a\tb" "café"]
}
