// SPDX-FileCopyrightText:  Copyright 2024 The gapbuffer Authors
// SPDX-License-Identifier: MIT
//
// Project:  gapbuffer
// File:     metric.go
// Date:     07.Feb.2024
//
// =============================================================================

package gapbuffer

import "fmt"

// Metric is an additive (bytes, chars) pair. It is used both as an absolute
// position (logical byte/char offset from the start of the text) and as a
// delta (the size of a fragment of text).
//
// [Metric.Add] is commutative: combining the metrics of two adjacent text
// fragments, in either order, yields the metric of the fragments joined
// together. [Metric.Sub] undoes an Add.
type Metric struct {
	Bytes int
	Chars int
}

// Add returns the component-wise sum of m and o.
func (m Metric) Add(o Metric) Metric {
	return Metric{Bytes: m.Bytes + o.Bytes, Chars: m.Chars + o.Chars}
}

// Sub returns the component-wise difference m - o.
func (m Metric) Sub(o Metric) Metric {
	return Metric{Bytes: m.Bytes - o.Bytes, Chars: m.Chars - o.Chars}
}

// IsZero reports whether m is the additive identity (0, 0).
func (m Metric) IsZero() bool {
	return m.Bytes == 0 && m.Chars == 0
}

// String renders m for debugging, as "bytes:chars".
func (m Metric) String() string {
	return fmt.Sprintf("%d:%d", m.Bytes, m.Chars)
}

// metricOfText returns the Metric of a valid UTF-8 byte slice: its length in
// bytes and its rune count.
func metricOfText(b []byte) Metric {
	return Metric{Bytes: len(b), Chars: runeCount(b)}
}

// runeCount returns the number of UTF-8 characters (lead bytes) in b. It does
// not validate the encoding; it trusts the invariant, upheld everywhere else
// in this package, that b only ever holds valid UTF-8.
func runeCount(b []byte) int {
	n := 0
	for _, c := range b {
		if isCharBoundary(c) {
			n++
		}
	}
	return n
}

// isCharBoundary reports whether byte c is the lead byte of a UTF-8
// character, i.e. it is not a continuation byte of the form 10xxxxxx.
func isCharBoundary(c byte) bool {
	return int8(c) >= -0x40
}
