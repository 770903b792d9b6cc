// Copyright 2020 by David A. Golden. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package strbuf

import (
	"encoding/binary"

	"github.com/xdg-go/jstream/utf"
)

// DefaultCapacity is the storage capacity, in code units, used when
// NewStorage is given zero.
const DefaultCapacity = 1024

type writePolicy uint8

const (
	// The storage already holds the consumer's encoding.
	policyDirect writePolicy = iota
	// The storage holds host UTF-32 and is narrowed in place before each
	// write.
	policyNarrow
)

// Storage is a fixed-capacity buffer of code units that delivers its content
// to a Consumer when it fills up or is flushed.  Its capacity never changes
// after construction.
type Storage struct {
	buf      []byte
	end      int
	enc      utf.Encoding
	order    binary.ByteOrder
	unit     int
	target   utf.Encoding
	policy   writePolicy
	consumer Consumer
}

// NewStorage returns a Storage holding up to capacity code units of enc
// that writes to c.  A capacity of zero means DefaultCapacity.
//
// If enc and the consumer's encoding resolve to the same encoding, chunks are
// passed to the consumer as stored.  If enc is host UTF-32 and the consumer
// wants UTF-8 or UTF-16, each chunk is narrowed in place before it is
// passed on.  Any other pairing fails with ErrIncompatibleEncoding.
func NewStorage(enc utf.Encoding, c Consumer, capacity int) (*Storage, error) {
	if !enc.Valid() || c == nil || !c.Encoding().Valid() {
		return nil, utf.ErrInvalidEncoding
	}
	if capacity < 0 {
		return nil, ErrBufferTooLarge
	}
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	enc = enc.Resolve()
	target := c.Encoding().Resolve()
	var policy writePolicy
	switch {
	case enc == target:
		policy = policyDirect
	case enc == utf.HostUTF32 && (target.Form() == utf.FormUTF8 || target.Form() == utf.FormUTF16):
		policy = policyNarrow
	default:
		return nil, ErrIncompatibleEncoding
	}

	return &Storage{
		buf:      make([]byte, capacity*enc.CodeUnitSize()),
		enc:      enc,
		order:    enc.ByteOrder(),
		unit:     enc.CodeUnitSize(),
		target:   target,
		policy:   policy,
		consumer: c,
	}, nil
}

// Encoding returns the resolved encoding of the stored code units.
func (s *Storage) Encoding() utf.Encoding { return s.enc }

// Target returns the resolved encoding delivered to the consumer.
func (s *Storage) Target() utf.Encoding { return s.target }

// Len returns the number of stored code units.
func (s *Storage) Len() int { return s.end / s.unit }

// Cap returns the capacity in code units.
func (s *Storage) Cap() int { return len(s.buf) / s.unit }

// Available returns the number of code units that fit before the storage
// must be synced.
func (s *Storage) Available() int { return (len(s.buf) - s.end) / s.unit }

// Bytes returns the stored code units in the storage encoding.  The slice is
// only valid until the next mutation.
func (s *Storage) Bytes() []byte { return s.buf[:s.end] }

// Reset discards the stored content without notifying the consumer.
func (s *Storage) Reset() { s.end = 0 }

// Append copies the code units in units to the storage.  If they do not fit,
// the current content is first synced to the consumer.
func (s *Storage) Append(units []byte) error {
	if len(units)%s.unit != 0 {
		return ErrPartialCodeUnit
	}
	err := s.reserve(len(units))
	if err != nil {
		return err
	}
	s.end += copy(s.buf[s.end:], units)
	return nil
}

// AppendUnit appends a single code unit.  The storage is synced first if it
// is full.
func (s *Storage) AppendUnit(u uint32) error {
	if s.end == len(s.buf) {
		err := s.sync()
		if err != nil {
			return err
		}
	}
	switch s.unit {
	case 1:
		s.buf[s.end] = byte(u)
	case 2:
		s.order.PutUint16(s.buf[s.end:], uint16(u))
	default:
		s.order.PutUint32(s.buf[s.end:], u)
	}
	s.end += s.unit
	return nil
}

// Extend makes room for n more code units, syncing the current content if
// needed.  The room is available through Tail and is claimed with Advance.
func (s *Storage) Extend(n int) error {
	return s.reserve(n * s.unit)
}

// Tail returns the unused part of the storage.
func (s *Storage) Tail() []byte { return s.buf[s.end:] }

// Advance claims n code units written into Tail.
func (s *Storage) Advance(n int) {
	end := s.end + n*s.unit
	if n < 0 || end > len(s.buf) {
		panic("strbuf: advance out of range")
	}
	s.end = end
}

// Flush delivers the stored content to the consumer as the final chunk of the
// current string and resets the storage.  The consumer is called even when
// the storage is empty.
func (s *Storage) Flush() error {
	return s.write(false)
}

func (s *Storage) reserve(size int) error {
	if size <= len(s.buf)-s.end {
		return nil
	}
	if s.end > 0 {
		err := s.sync()
		if err != nil {
			return err
		}
	}
	if size > len(s.buf) {
		return ErrBufferTooLarge
	}
	return nil
}

func (s *Storage) sync() error {
	return s.write(true)
}

// write resets the storage even if the consumer fails; the chunk has been
// handed over either way.
func (s *Storage) write(hasMore bool) error {
	p := s.buf[:s.end]
	if s.policy == policyNarrow {
		p = p[:utf.NarrowInPlace(p, s.target)]
	}
	err := s.consumer.WriteChunk(p, hasMore)
	s.end = 0
	return err
}
