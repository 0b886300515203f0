// SPDX-FileCopyrightText:  Copyright 2024 The gapbuffer Authors
// SPDX-License-Identifier: MIT
//
// Project:  gapbuffer
// File:     doc.go
// Date:     07.Feb.2024
//
// =============================================================================

// Package gapbuffer implements a mutable UTF-8 text buffer for interactive
// editing.
//
// It combines two cooperating data structures: a gap buffer that holds the
// raw text bytes with a movable unused region at the cursor, and a metric
// index, a small balanced tree of (byte, char) sums over the logical
// (gap-removed) text that translates between character positions and byte
// positions in O(log n).
//
// Together they give amortized O(1) point-local insert/delete at a moving
// cursor and O(log n) random access from a character offset to the
// corresponding byte offset, even with multi-byte runes in the text.
//
// The zero value is not usable; construct a [Buffer] with [New] or [From].
package gapbuffer
