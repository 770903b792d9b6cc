package strbuf

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/xdg-go/jstream/utf"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Interner is a UTF-8 Consumer that deduplicates completed strings.  Repeated
// keys in a document then share one Go string.
type Interner struct {
	k0, k1  uint64
	table   map[uint64][]string
	pending []byte
	last    string
	hits    int
	misses  int
}

// randRead fills hash keys.
var randRead = rand.Read

// NewInterner returns an empty Interner with a randomly keyed hash.  It
// panics if the system random source fails, since a predictable key would
// let crafted input collide in the table.
func NewInterner() *Interner {
	var key [16]byte
	_, err := randRead(key[:])
	if err != nil {
		panic("strbuf: reading interner hash key: " + err.Error())
	}
	return NewInternerWithKey(binary.LittleEndian.Uint64(key[:8]), binary.LittleEndian.Uint64(key[8:]))
}

// NewInternerWithKey returns an empty Interner using the given SipHash key.
func NewInternerWithKey(k0, k1 uint64) *Interner {
	return &Interner{k0: k0, k1: k1, table: make(map[uint64][]string)}
}

// Encoding implements Consumer.
func (in *Interner) Encoding() utf.Encoding { return utf.UTF8 }

// WriteChunk implements Consumer.
func (in *Interner) WriteChunk(p []byte, hasMore bool) error {
	in.pending = append(in.pending, p...)
	if hasMore {
		return nil
	}
	in.last = in.Intern(in.pending)
	in.pending = in.pending[:0]
	return nil
}

// Intern returns the canonical string equal to b, adding it if needed.
func (in *Interner) Intern(b []byte) string {
	h := siphash.Hash(in.k0, in.k1, b)
	bucket := in.table[h]
	for _, s := range bucket {
		if s == string(b) {
			in.hits++
			return s
		}
	}
	s := string(b)
	in.table[h] = append(bucket, s)
	in.misses++
	return s
}

// Discard drops the chunks received for an unfinished string.
func (in *Interner) Discard() { in.pending = in.pending[:0] }

// Last returns the most recently completed string.
func (in *Interner) Last() string { return in.last }

// Hits returns how many completed strings were already interned.
func (in *Interner) Hits() int { return in.hits }

// Misses returns how many completed strings were new.
func (in *Interner) Misses() int { return in.misses }

// Len returns the number of distinct strings.
func (in *Interner) Len() int { return in.misses }

// Strings returns the distinct strings in sorted order.
func (in *Interner) Strings() []string {
	var out []string
	for _, bucket := range maps.Values(in.table) {
		out = append(out, bucket...)
	}
	slices.Sort(out)
	return out
}

// Contains reports whether b has been interned.
func (in *Interner) Contains(b []byte) bool {
	for _, s := range in.table[siphash.Hash(in.k0, in.k1, b)] {
		if s == string(b) {
			return true
		}
	}
	return false
}

// Clear empties the table and the counters.
func (in *Interner) Clear() {
	maps.Clear(in.table)
	in.pending = in.pending[:0]
	in.last = ""
	in.hits = 0
	in.misses = 0
}
