// Copyright 2020 by David A. Golden. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package jstream is a streaming JSON-to-BSON decoder built around a
// Unicode-aware string buffer.  It decodes successive JSON objects into BSON
// documents from a buffered input byte stream while minimizing memory copies.
//
// String values pass through a fixed-capacity buffer from the strbuf
// package, which hands completed chunks to the output without ever splitting a
// code point.  Input may be UTF-8, or UTF-16 or UTF-32 with a byte order mark,
// in which case it is transcoded as it is read.
//
// Unicode handling
//
// By default, ill-formed UTF-8 and unpaired surrogate escapes are errors.  The
// Lenient option replaces them with U+FFFD, and the Filter option rejects or
// replaces code points chosen by a predicate from the utf package.
//
// The Unquoter type and UnquoteAll function decode standalone JSON string
// literals into Go strings using the same machinery.
//
// Testing
//
// JSON-to-BSON output is compared against reference output from the MongoDB
// Go driver, and decoded strings are compared against gjson.
package jstream
