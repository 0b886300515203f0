// SPDX-FileCopyrightText:  Copyright 2024 The gapbuffer Authors
// SPDX-License-Identifier: MIT
//
// Project:  gapbuffer
// File:     index.go
// Date:     07.Feb.2024
//
// =============================================================================

package gapbuffer

// This file implements the metric index: a small-fanout B-tree of leaves,
// each holding a chunk of the logical (gap-removed) text plus the cached
// Metric (byte count, char count) of that chunk. Interior nodes cache the
// aggregate Metric of their subtree. The tree operates exclusively in
// absolute logical coordinates -- the gap never appears here -- and the
// Buffer translates to and from gapped physical coordinates at the
// boundary (see toAbs / toGapped in buffer.go).
//
// Unlike a plain rope, leaves are not shared with the gap buffer's own
// byte array: the index keeps its own copy of the text. That redundancy is
// what lets insert/delete split a leaf at an arbitrary character offset
// without any help from the buffer (the buffer tells the index which
// absolute range changed and supplies the new bytes; the index does the
// rest).

const (
	// leafSize is the target maximum size, in bytes, of a metric index
	// leaf. A leaf is never allowed to exceed this and never splits a
	// UTF-8 character.
	leafSize = 64

	// leafLowWater is the threshold below which two adjacent leaves are
	// considered for merging after a delete.
	leafLowWater = leafSize / 4

	// maxChildren is the fanout of an interior node.
	maxChildren = 8
)

// metricNode is either a leaf, holding a contiguous slice of logical text,
// or an interior node, holding up to maxChildren children. Both kinds cache
// their subtree's aggregate Metric.
type metricNode struct {
	leaf     bool
	metric   Metric
	text     []byte // valid only when leaf
	children []*metricNode
}

func newLeaf(text []byte) *metricNode {
	return &metricNode{leaf: true, text: text, metric: metricOfText(text)}
}

func newInterior(children []*metricNode) *metricNode {
	n := &metricNode{children: children}
	n.recalc()
	return n
}

func (n *metricNode) recalc() {
	var m Metric
	for _, c := range n.children {
		m = m.Add(c.metric)
	}
	n.metric = m
}

// MetricIndex maps logical character offsets to cumulative (byte, char)
// sums over the logical text, independent of any gap. See package doc and
// spec §4.1.
type MetricIndex struct {
	root *metricNode
}

// NewMetricIndex returns an empty index.
func NewMetricIndex() *MetricIndex {
	return &MetricIndex{root: newLeaf(nil)}
}

// BuildMetricIndex constructs an index from a sequence of leaf chunks, each
// a valid UTF-8 byte slice no larger than leafSize. Chunks are copied; the
// caller's slices may be reused afterwards.
func BuildMetricIndex(chunks [][]byte) *MetricIndex {
	leaves := make([]*metricNode, 0, len(chunks))
	for _, c := range chunks {
		if len(c) == 0 {
			continue
		}
		leaves = append(leaves, newLeaf(append([]byte(nil), c...)))
	}
	return &MetricIndex{root: buildRoot(leaves)}
}

// Chunk splits data into char-safe pieces no larger than leafSize bytes,
// suitable for BuildMetricIndex. Insert takes raw bytes and applies the
// same chunking itself.
func Chunk(data []byte) [][]byte {
	return chunkBytes(data, leafSize)
}

func chunkBytes(data []byte, size int) [][]byte {
	if len(data) == 0 {
		return nil
	}
	var out [][]byte
	start := 0
	for start < len(data) {
		end := start + size
		switch {
		case end >= len(data):
			end = len(data)
		default:
			for end > start && !isCharBoundary(data[end]) {
				end--
			}
			if end == start {
				// size is smaller than a single character; take the
				// whole character anyway rather than splitting it.
				end = start + 1
				for end < len(data) && !isCharBoundary(data[end]) {
					end++
				}
			}
		}
		out = append(out, data[start:end])
		start = end
	}
	return out
}

// Len returns the total (bytes, chars) indexed.
func (idx *MetricIndex) Len() Metric {
	return idx.root.metric
}

// SearchChar returns the cumulative Metric of all leaves strictly
// preceding the leaf containing pos, and the residual character offset
// into that leaf. Precondition: 0 <= pos <= idx.Len().Chars.
func (idx *MetricIndex) SearchChar(pos int) (base Metric, offset int) {
	total := idx.root.metric
	switch {
	case pos <= 0:
		return Metric{}, 0
	case pos >= total.Chars:
		return total, 0
	default:
		return searchChar(idx.root, pos)
	}
}

func searchChar(node *metricNode, pos int) (Metric, int) {
	if node.leaf {
		return Metric{}, pos
	}
	var acc Metric
	for i, c := range node.children {
		last := i == len(node.children)-1
		if pos < c.metric.Chars || last {
			base, offset := searchChar(c, pos)
			return acc.Add(base), offset
		}
		acc = acc.Add(c.metric)
		pos -= c.metric.Chars
	}
	return acc, pos
}

// Insert splices new leaves, chunked from data, at absolute logical
// position at (given in chars; at.Bytes is ignored).
func (idx *MetricIndex) Insert(at Metric, data []byte) {
	chunks := chunkBytes(data, leafSize)
	if len(chunks) == 0 {
		return
	}
	leaves := make([]*metricNode, len(chunks))
	for i, c := range chunks {
		leaves[i] = newLeaf(append([]byte(nil), c...))
	}
	if idx.root.leaf && len(idx.root.text) == 0 {
		idx.root = buildRoot(leaves)
		return
	}
	idx.root = buildRoot(insertInto(idx.root, at.Chars, leaves))
}

func insertInto(node *metricNode, pos int, newLeaves []*metricNode) []*metricNode {
	if node.leaf {
		switch {
		case pos <= 0:
			out := make([]*metricNode, 0, len(newLeaves)+1)
			out = append(out, newLeaves...)
			return append(out, node)
		case pos >= node.metric.Chars:
			out := make([]*metricNode, 0, len(newLeaves)+1)
			out = append(out, node)
			return append(out, newLeaves...)
		default:
			byteOff := charToByteOffsetInLeaf(node.text, pos)
			left := newLeaf(append([]byte(nil), node.text[:byteOff]...))
			right := newLeaf(append([]byte(nil), node.text[byteOff:]...))
			out := make([]*metricNode, 0, len(newLeaves)+2)
			out = append(out, left)
			out = append(out, newLeaves...)
			return append(out, right)
		}
	}

	remaining := pos
	for i, c := range node.children {
		last := i == len(node.children)-1
		if remaining < c.metric.Chars || last {
			replacement := insertInto(c, remaining, newLeaves)
			spliced := make([]*metricNode, 0, len(node.children)-1+len(replacement))
			spliced = append(spliced, node.children[:i]...)
			spliced = append(spliced, replacement...)
			spliced = append(spliced, node.children[i+1:]...)
			return groupOnce(spliced)
		}
		remaining -= c.metric.Chars
	}
	// node had no children; treat as an append.
	spliced := append(append([]*metricNode(nil), node.children...), newLeaves...)
	return groupOnce(spliced)
}

// Delete removes the absolute logical char range [begin, end).
func (idx *MetricIndex) Delete(begin, end Metric) {
	if begin.Chars >= end.Chars {
		return
	}
	idx.root = buildRoot(deleteFrom(idx.root, begin.Chars, end.Chars))
}

func deleteFrom(node *metricNode, begin, end int) []*metricNode {
	if node.leaf {
		switch {
		case begin <= 0 && end >= node.metric.Chars:
			return nil
		case begin >= end:
			return []*metricNode{node}
		default:
			b := charToByteOffsetInLeaf(node.text, begin)
			e := charToByteOffsetInLeaf(node.text, end)
			remaining := make([]byte, 0, len(node.text)-(e-b))
			remaining = append(remaining, node.text[:b]...)
			remaining = append(remaining, node.text[e:]...)
			if len(remaining) == 0 {
				return nil
			}
			return []*metricNode{newLeaf(remaining)}
		}
	}

	out := make([]*metricNode, 0, len(node.children))
	offset := 0
	changed := false
	for _, c := range node.children {
		childChars := c.metric.Chars
		childBegin := begin - offset
		childEnd := end - offset
		if childEnd <= 0 || childBegin >= childChars {
			out = append(out, c)
		} else {
			changed = true
			if childBegin < 0 {
				childBegin = 0
			}
			if childEnd > childChars {
				childEnd = childChars
			}
			out = append(out, deleteFrom(c, childBegin, childEnd)...)
		}
		offset += childChars
	}
	if !changed {
		return []*metricNode{node}
	}
	return groupOnce(mergeSmallLeaves(out))
}

// mergeSmallLeaves coalesces adjacent leaves when at least one is below
// the low-water mark and the combination still fits within leafSize.
func mergeSmallLeaves(nodes []*metricNode) []*metricNode {
	out := make([]*metricNode, 0, len(nodes))
	for _, n := range nodes {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if prev.leaf && n.leaf &&
				(prev.metric.Bytes < leafLowWater || n.metric.Bytes < leafLowWater) &&
				prev.metric.Bytes+n.metric.Bytes <= leafSize {
				merged := make([]byte, 0, prev.metric.Bytes+n.metric.Bytes)
				merged = append(merged, prev.text...)
				merged = append(merged, n.text...)
				out[len(out)-1] = newLeaf(merged)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// groupOnce groups nodes into interior nodes of at most maxChildren
// children each, in a single pass. Every returned node sits exactly one
// level above the nodes passed in, so the list insertInto or deleteFrom
// hands back in place of a node has that node's depth, and all leaves
// stay at the same depth. An empty input yields an empty result.
func groupOnce(nodes []*metricNode) []*metricNode {
	out := make([]*metricNode, 0, (len(nodes)+maxChildren-1)/maxChildren)
	for i := 0; i < len(nodes); i += maxChildren {
		end := i + maxChildren
		if end > len(nodes) {
			end = len(nodes)
		}
		out = append(out, newInterior(append([]*metricNode(nil), nodes[i:end]...)))
	}
	return out
}

// buildRoot collapses an arbitrary list of nodes down to a single root,
// repeatedly grouping until at most maxChildren remain and then wrapping
// them (unless exactly one is left already).
func buildRoot(nodes []*metricNode) *metricNode {
	if len(nodes) == 0 {
		return newLeaf(nil)
	}
	for len(nodes) > maxChildren {
		nodes = groupOnce(nodes)
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInterior(append([]*metricNode(nil), nodes...))
}

// charToByteOffsetInLeaf returns the byte offset of the charOffset-th
// character within text (0-indexed), or len(text) if charOffset is at or
// past the end.
func charToByteOffsetInLeaf(text []byte, charOffset int) int {
	if charOffset <= 0 {
		return 0
	}
	count := 0
	for i := 0; i < len(text); i++ {
		if isCharBoundary(text[i]) {
			if count == charOffset {
				return i
			}
			count++
		}
	}
	return len(text)
}
