package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xdg-go/jstream"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func main() {
	chunk := flag.Int("chunk", 0, "string buffer capacity in bytes (0 for default)")
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: jstreamperf [-chunk n] <json file>")
	}
	inputFile := flag.Arg(0)
	jsonData, err := os.ReadFile(inputFile)
	if err != nil {
		log.Fatal(err)
	}
	benchJstream(jsonData, *chunk)
	benchMongoDriverRW(jsonData)
	benchNaive(jsonData)
	benchUnquoteAll(jsonData)
}

func benchJstream(input []byte, chunk int) {
	bson := make([]byte, 0, 256)

	jsonReader := bufio.NewReader(bytes.NewReader(input))
	dec, err := jstream.NewDecoder(jsonReader)
	if err != nil {
		log.Fatal(err)
	}
	if chunk > 0 {
		dec.ChunkSize(chunk)
	}

	start := time.Now()
	for {
		bson = bson[0:0]
		bson, err = dec.Decode(bson)
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Fatal(err)
		}
	}
	elapsed := time.Since(start)
	reportResult("jstream", len(input), elapsed)
}

func benchMongoDriverRW(input []byte) {
	var err error
	jsonReader := (bytes.NewReader(input))

	vr, err := bsonrw.NewExtJSONValueReader(jsonReader, false)
	if err != nil {
		log.Fatal(err)
	}

	// Either documents separated by white space or a top-level array.
	var ar bsonrw.ArrayReader
	switch vr.Type() {
	case bsontype.EmbeddedDocument:
	case bsontype.Array:
		ar, err = vr.ReadArray()
		if err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("JSON format unsupported by Go driver")
	}

	copier := bsonrw.NewCopier()
	start := time.Now()
	for {
		if ar != nil {
			evr, err := ar.ReadValue()
			if err != nil {
				if err == bsonrw.ErrEOA {
					break
				}
				log.Fatal(err)
			}

			if evr.Type() != bsontype.EmbeddedDocument {
				log.Fatal("JSON format unsupported by Go driver")
			}

			doc, err := copier.CopyDocumentToBytes(evr)
			if err != nil {
				log.Fatal(err)
			}
			_ = doc
		} else {
			doc, err := copier.CopyDocumentToBytes(vr)
			if err != nil {
				if err == io.EOF {
					break
				}
				log.Fatal(err)
			}
			_ = doc
		}
	}
	elapsed := time.Since(start)
	reportResult("driver bsonrw", len(input), elapsed)
}

func benchNaive(input []byte) {
	jsonReader := (bytes.NewReader(input))
	dec := json.NewDecoder(jsonReader)

	start := time.Now()
	for dec.More() {
		var m map[string]interface{}
		err := dec.Decode(&m)
		if err != nil {
			log.Fatal(err)
		}
		buf, err := bson.Marshal(m)
		if err != nil {
			log.Fatal(err)
		}
		_ = buf
	}
	elapsed := time.Since(start)
	reportResult("naive json->bson", len(input), elapsed)
}

// benchUnquoteAll collects every raw string literal in the input with gjson
// and decodes them in parallel.
func benchUnquoteAll(input []byte) {
	var lits [][]byte
	var walk func(v gjson.Result)
	walk = func(v gjson.Result) {
		switch {
		case v.Type == gjson.String:
			lits = append(lits, []byte(v.Raw))
		case v.IsObject() || v.IsArray():
			v.ForEach(func(k, e gjson.Result) bool {
				if k.Type == gjson.String && k.Raw != "" {
					lits = append(lits, []byte(k.Raw))
				}
				walk(e)
				return true
			})
		}
	}
	if gjson.ValidBytes(input) {
		walk(gjson.ParseBytes(input))
	} else {
		gjson.ForEachLine(string(input), func(line gjson.Result) bool {
			walk(line)
			return true
		})
	}

	size := 0
	for _, l := range lits {
		size += len(l)
	}

	start := time.Now()
	_, err := jstream.UnquoteAll(context.Background(), lits, 0)
	if err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)
	reportResult("unquote all", size, elapsed)
}

func reportResult(label string, size int, elapsed time.Duration) {
	throughput := float64(size) / float64(elapsed.Microseconds())
	fmt.Printf("%15s %.2f MB/s\n", label, throughput)
}
