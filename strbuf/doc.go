// Copyright 2020 by David A. Golden. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package strbuf accumulates decoded string content in fixed-capacity chunk
// storage and hands it to a Consumer in the consumer's encoding.
//
// A parser feeds a Buffer one ASCII byte or one code point at a time and
// calls Flush once per completed string.  Whenever the storage fills, its
// content is delivered to the Consumer with hasMore set, so a string of any
// length passes through a fixed amount of memory.  The code units of a single
// code point are never split across two chunks.
//
// Storage, Buffer and Fixed are not safe for concurrent use.  Each goroutine
// that accumulates strings needs its own Storage.
package strbuf
