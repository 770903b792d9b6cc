// Copyright 2020 by David A. Golden. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package utf

// ConvertOption selects how bulk conversions treat ill-formed input.
type ConvertOption int

const (
	// Strict stops at the first ill-formed sequence.
	Strict ConvertOption = iota
	// ReplaceIllFormed substitutes U+FFFD for each maximal subpart of an
	// ill-formed sequence and continues.
	ReplaceIllFormed
	// MarkIllFormed writes IllFormedMark for each maximal subpart when the
	// target is UTF-8, leaving the decision to whoever reads the output.
	// Other targets get U+FFFD as with ReplaceIllFormed.
	MarkIllFormed
)

// IllFormedMark is a byte that never occurs in well-formed UTF-8.
const IllFormedMark byte = 0xFF

func isBig(e Encoding) bool {
	switch e.Resolve() {
	case UTF16BE, UTF32BE:
		return true
	}
	return false
}

// EncodeUnsafe writes the encoded form of c to dst and returns the number of
// code units written.  dst must have room for MaxEncodedBytes.
//
// c is not validated.  Surrogates are encoded mechanically (a 3-byte UTF-8
// sequence, a single UTF-16 unit, a raw UTF-32 unit), which yields output
// that validating decoders reject.  Values beyond U+10FFFF are written only
// for UTF-32; for UTF-8 and UTF-16 nothing is written and 0 is returned.
func EncodeUnsafe(dst []byte, c CodePoint, enc Encoding) int {
	switch enc.Form() {
	case FormUTF8:
		return encodeUTF8(dst, c)
	case FormUTF16:
		return encodeUTF16(dst, c, isBig(enc))
	case FormUTF32:
		putUnit32(dst, c, isBig(enc))
		return 1
	}
	return 0
}

// Encode is like EncodeUnsafe but fails with ErrInvalidCodePoint if c is not
// a scalar value and with ErrPredicateFailed if filter rejects c.  Nothing is
// written on failure.
func Encode(dst []byte, c CodePoint, enc Encoding, filter Filter) (int, error) {
	if !enc.Valid() {
		return 0, ErrInvalidEncoding
	}
	if !c.IsScalar() {
		return 0, ErrInvalidCodePoint
	}
	if filter.Match(c) {
		return 0, ErrPredicateFailed
	}
	return EncodeUnsafe(dst, c, enc), nil
}

// AppendUnsafe appends the encoded form of c to dst without validation.
func AppendUnsafe(dst []byte, c CodePoint, enc Encoding) []byte {
	var tmp [MaxEncodedBytes]byte
	n := EncodeUnsafe(tmp[:], c, enc)
	return append(dst, tmp[:n*enc.CodeUnitSize()]...)
}

// Append appends the encoded form of the scalar value c to dst.
func Append(dst []byte, c CodePoint, enc Encoding) ([]byte, error) {
	var tmp [MaxEncodedBytes]byte
	n, err := Encode(tmp[:], c, enc, nil)
	if err != nil {
		return dst, err
	}
	return append(dst, tmp[:n*enc.CodeUnitSize()]...), nil
}

// Decode decodes the first scalar value of src, which holds code units of
// enc.  It returns the value and the number of bytes consumed.
//
// On error, n is the length of the maximal subpart of the ill-formed
// sequence.  n is at least 1 unless src is empty, so callers that skip n
// bytes after an error always make progress.
func Decode(src []byte, enc Encoding) (c CodePoint, n int, err error) {
	switch enc.Form() {
	case FormUTF8:
		return decodeUTF8(src)
	case FormUTF16:
		return decodeUTF16(src, isBig(enc))
	case FormUTF32:
		return decodeUTF32(src, isBig(enc))
	}
	if len(src) == 0 {
		return 0, 0, ErrInvalidEncoding
	}
	return 0, len(src), ErrInvalidEncoding
}

// Convert decodes src from one encoding and appends it to dst in another.
// It returns the extended buffer and the number of bytes of src consumed.
//
// With Strict, conversion stops at the first ill-formed sequence, returning
// the output produced so far and the decode error; the consumed count then
// points at the start of the offending sequence.  With ReplaceIllFormed each
// maximal subpart is replaced by U+FFFD and the error is nil; MarkIllFormed
// is the same except for UTF-8 targets, which get IllFormedMark instead.
func Convert(dst, src []byte, from, to Encoding, opt ConvertOption) ([]byte, int, error) {
	if !from.Valid() || !to.Valid() {
		return dst, 0, ErrInvalidEncoding
	}
	var tmp [MaxEncodedBytes]byte
	size := to.CodeUnitSize()
	i := 0
	for i < len(src) {
		c, n, err := Decode(src[i:], from)
		if err != nil {
			switch {
			case opt == MarkIllFormed && to.Form() == FormUTF8:
				dst = append(dst, IllFormedMark)
				i += n
				continue
			case opt == Strict:
				return dst, i, err
			}
			c = ReplacementChar
		}
		i += n
		k := EncodeUnsafe(tmp[:], c, to)
		dst = append(dst, tmp[:k*size]...)
	}
	return dst, i, nil
}

// AppendCodePointsUnsafe encodes each element of cps without validation and
// appends the result to dst.
func AppendCodePointsUnsafe(dst []byte, cps []CodePoint, enc Encoding) []byte {
	var tmp [MaxEncodedBytes]byte
	size := enc.CodeUnitSize()
	for _, c := range cps {
		k := EncodeUnsafe(tmp[:], c, enc)
		dst = append(dst, tmp[:k*size]...)
	}
	return dst
}

// Valid reports whether src is a well-formed sequence in enc.
func Valid(src []byte, enc Encoding) bool {
	for len(src) > 0 {
		_, n, err := Decode(src, enc)
		if err != nil {
			return false
		}
		src = src[n:]
	}
	return enc.Valid()
}

// Count returns the number of scalar values in src.  Each maximal subpart of
// an ill-formed sequence counts as one.
func Count(src []byte, enc Encoding) int {
	count := 0
	for len(src) > 0 {
		_, n, _ := Decode(src, enc)
		if n == 0 {
			break
		}
		src = src[n:]
		count++
	}
	return count
}
