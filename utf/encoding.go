// Copyright 2020 by David A. Golden. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package utf converts single code points and buffers between the Unicode
// encoding forms UTF-8, UTF-16 and UTF-32 in either byte order.
//
// Encoded text is always handled as raw bytes.  A UTF-16 or UTF-32 buffer
// holds its code units in the byte order of its Encoding, so a buffer
// declared UTF16LE never contains big-endian units.  The plain UTF16 and
// UTF32 encodings mean "host byte order" and resolve to an explicit variant
// whenever bytes are produced or consumed.
//
// Each conversion comes in a validating form (Encode, Decode, Convert) and an
// unsafe form (EncodeUnsafe, AppendCodePointsUnsafe, NarrowInPlace) which
// trusts the caller to supply Unicode scalar values.  Errors are returned as
// values; nothing in this package panics on malformed input.
package utf

import "encoding/binary"

// Encoding identifies a Unicode encoding scheme.
type Encoding uint8

// Supported encodings.  UTF16 and UTF32 use host byte order.
const (
	UTF8 Encoding = iota + 1
	UTF16
	UTF16BE
	UTF16LE
	UTF32
	UTF32BE
	UTF32LE
)

// Form is a Unicode encoding form, i.e. an encoding without byte order.
type Form uint8

// Encoding forms.
const (
	FormUTF8 Form = iota + 1
	FormUTF16
	FormUTF32
)

var hostBigEndian = binary.NativeEndian.Uint16([]byte{0x12, 0x34}) == 0x1234

// HostUTF16 and HostUTF32 are the explicit encodings that match the host
// byte order.
var (
	HostUTF16 = UTF16LE
	HostUTF32 = UTF32LE
)

func init() {
	if hostBigEndian {
		HostUTF16 = UTF16BE
		HostUTF32 = UTF32BE
	}
}

var encodingNames = [...]string{
	UTF8:    "UTF-8",
	UTF16:   "UTF-16",
	UTF16BE: "UTF-16BE",
	UTF16LE: "UTF-16LE",
	UTF32:   "UTF-32",
	UTF32BE: "UTF-32BE",
	UTF32LE: "UTF-32LE",
}

func (e Encoding) String() string {
	if !e.Valid() {
		return "invalid encoding"
	}
	return encodingNames[e]
}

// Valid reports whether e is one of the supported encodings.
func (e Encoding) Valid() bool {
	return e >= UTF8 && e <= UTF32LE
}

// Form returns the encoding form of e, or 0 if e is invalid.
func (e Encoding) Form() Form {
	switch e {
	case UTF8:
		return FormUTF8
	case UTF16, UTF16BE, UTF16LE:
		return FormUTF16
	case UTF32, UTF32BE, UTF32LE:
		return FormUTF32
	}
	return 0
}

// CodeUnitSize returns the size of one code unit in bytes.
func (e Encoding) CodeUnitSize() int {
	switch e.Form() {
	case FormUTF8:
		return 1
	case FormUTF16:
		return 2
	case FormUTF32:
		return 4
	}
	return 0
}

// Resolve maps the host-order encodings UTF16 and UTF32 to their explicit
// variants.  Other encodings are returned unchanged.
func (e Encoding) Resolve() Encoding {
	switch e {
	case UTF16:
		return HostUTF16
	case UTF32:
		return HostUTF32
	}
	return e
}

// ByteOrder returns the byte order of the code units of e.  It returns nil
// for UTF-8, whose code units are single bytes.
func (e Encoding) ByteOrder() binary.ByteOrder {
	switch e.Resolve() {
	case UTF16BE, UTF32BE:
		return binary.BigEndian
	case UTF16LE, UTF32LE:
		return binary.LittleEndian
	}
	return nil
}

// IsHost reports whether the code units of e are in host byte order.  UTF-8
// is trivially in host order.
func (e Encoding) IsHost() bool {
	switch e.Resolve() {
	case UTF8, HostUTF16, HostUTF32:
		return true
	}
	return false
}
