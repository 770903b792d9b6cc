package strbuf

import "github.com/xdg-go/jstream/utf"

// Consumer receives string content from a Storage.
//
// For each string, WriteChunk is called zero or more times with hasMore set
// and then exactly once with hasMore cleared.  p holds code units in the
// consumer's Encoding and is only valid for the duration of the call; it is
// overwritten by later appends.  An error returned from WriteChunk is
// returned from the append or flush that triggered it.
type Consumer interface {
	Encoding() utf.Encoding
	WriteChunk(p []byte, hasMore bool) error
}

type funcConsumer struct {
	enc utf.Encoding
	fn  func(p []byte, hasMore bool) error
}

func (f funcConsumer) Encoding() utf.Encoding { return f.enc }

func (f funcConsumer) WriteChunk(p []byte, hasMore bool) error { return f.fn(p, hasMore) }

// ConsumerFunc returns a Consumer that wants enc and passes every chunk to
// fn.
func ConsumerFunc(enc utf.Encoding, fn func(p []byte, hasMore bool) error) Consumer {
	return funcConsumer{enc: enc, fn: fn}
}
