package strbuf

import (
	"github.com/xdg-go/jstream/utf"
	"golang.org/x/text/unicode/norm"
)

// Collector is a Consumer that keeps every completed string.  Chunks of a
// string are accumulated until the final chunk arrives.
type Collector struct {
	enc       utf.Encoding
	form      norm.Form
	normalize bool
	start     bool
	pending   []byte
	values    [][]byte
	chunks    int
}

// NewCollector returns a Collector wanting enc.
func NewCollector(enc utf.Encoding) *Collector {
	return &Collector{enc: enc, start: true}
}

// Normalize makes the Collector apply Unicode normalization form f to each
// completed string.  It only has an effect for UTF-8 collectors.
func (c *Collector) Normalize(f norm.Form) *Collector {
	c.form = f
	c.normalize = true
	return c
}

// Encoding implements Consumer.
func (c *Collector) Encoding() utf.Encoding { return c.enc }

// WriteChunk implements Consumer.
func (c *Collector) WriteChunk(p []byte, hasMore bool) error {
	c.chunks++
	if c.start {
		c.pending = c.pending[:0]
		c.start = false
	}
	c.pending = append(c.pending, p...)
	if hasMore {
		return nil
	}

	v := make([]byte, len(c.pending))
	copy(v, c.pending)
	if c.normalize && c.enc == utf.UTF8 {
		v = c.form.Bytes(v)
	}
	c.values = append(c.values, v)
	c.start = true
	return nil
}

// Discard drops the chunks received for an unfinished string.
func (c *Collector) Discard() {
	c.start = true
	c.pending = c.pending[:0]
}

// Pending returns the content received so far for an unfinished string.
func (c *Collector) Pending() []byte {
	if c.start {
		return nil
	}
	return c.pending
}

// Values returns the completed strings in the collector's encoding.
func (c *Collector) Values() [][]byte { return c.values }

// Len returns the number of completed strings.
func (c *Collector) Len() int { return len(c.values) }

// Text returns the i'th completed string converted to a Go string.
func (c *Collector) Text(i int) (string, error) {
	if c.enc == utf.UTF8 {
		return string(c.values[i]), nil
	}
	out, _, err := utf.Convert(nil, c.values[i], c.enc, utf.UTF8, utf.Strict)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Chunks returns the number of WriteChunk calls received.
func (c *Collector) Chunks() int { return c.chunks }

// Reset forgets everything collected.
func (c *Collector) Reset() {
	c.Discard()
	c.values = nil
	c.chunks = 0
}
