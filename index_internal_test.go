// SPDX-FileCopyrightText:  Copyright 2024 The gapbuffer Authors
// SPDX-License-Identifier: MIT
//
// Project:  gapbuffer
// File:     index_internal_test.go
// Date:     07.Feb.2024
//
// =============================================================================

package gapbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// checkNodeInvariants recursively asserts that every node's cached Metric
// matches the sum of its children (or its own text, for leaves), that no
// leaf exceeds leafSize bytes, and that no interior node exceeds
// maxChildren children.
func checkNodeInvariants(t *testing.T, n *metricNode) Metric {
	t.Helper()
	if n.leaf {
		assert.LessOrEqual(t, len(n.text), leafSize)
		assert.Equal(t, metricOfText(n.text), n.metric)
		return n.metric
	}
	assert.LessOrEqual(t, len(n.children), maxChildren)
	var sum Metric
	for _, c := range n.children {
		sum = sum.Add(checkNodeInvariants(t, c))
	}
	assert.Equal(t, sum, n.metric)
	return n.metric
}

func TestMetricIndexEmpty(t *testing.T) {
	t.Parallel()
	idx := NewMetricIndex()
	assert.Equal(t, Metric{}, idx.Len())
	checkNodeInvariants(t, idx.root)
}

func TestMetricIndexBuildAndSearch(t *testing.T) {
	t.Parallel()
	text := []byte("the quick brown fox jumps over the lazy dog")
	idx := BuildMetricIndex(Chunk(text))
	checkNodeInvariants(t, idx.root)
	assert.Equal(t, metricOfText(text), idx.Len())

	for pos := 0; pos <= len(text); pos++ {
		base, offset := idx.SearchChar(pos)
		assert.Equal(t, pos, base.Chars+offset)
	}
}

func TestMetricIndexInsertSplitsLeaf(t *testing.T) {
	t.Parallel()
	idx := BuildMetricIndex(Chunk([]byte("hello world")))
	idx.Insert(Metric{Bytes: 5, Chars: 5}, []byte(" there"))
	checkNodeInvariants(t, idx.root)
	assert.Equal(t, Metric{Bytes: 17, Chars: 17}, idx.Len())
}

func TestMetricIndexInsertAtEnds(t *testing.T) {
	t.Parallel()
	idx := BuildMetricIndex(Chunk([]byte("middle")))
	idx.Insert(Metric{Chars: 0}, []byte("start-"))
	idx.Insert(Metric{Chars: idx.Len().Chars}, []byte("-end"))
	checkNodeInvariants(t, idx.root)
	assert.Equal(t, "start-middle-end", renderIndex(idx))
}

func TestMetricIndexDelete(t *testing.T) {
	t.Parallel()
	idx := BuildMetricIndex(Chunk([]byte("hello cruel world")))
	idx.Delete(Metric{Bytes: 5, Chars: 5}, Metric{Bytes: 11, Chars: 11})
	checkNodeInvariants(t, idx.root)
	assert.Equal(t, "hello world", renderIndex(idx))
}

func TestMetricIndexDeleteEverything(t *testing.T) {
	t.Parallel()
	idx := BuildMetricIndex(Chunk([]byte("gone")))
	idx.Delete(Metric{}, idx.Len())
	checkNodeInvariants(t, idx.root)
	assert.Equal(t, Metric{}, idx.Len())
	assert.Equal(t, "", renderIndex(idx))
}

func TestMetricIndexManySmallEditsStayBalanced(t *testing.T) {
	t.Parallel()
	idx := NewMetricIndex()
	for i := 0; i < 300; i++ {
		idx.Insert(Metric{Chars: idx.Len().Chars}, []byte{byte('a' + i%26)})
	}
	checkNodeInvariants(t, idx.root)
	assert.Equal(t, 300, idx.Len().Chars)
	depths := map[int]bool{}
	leafDepths(idx.root, 0, depths)
	assert.Len(t, depths, 1, "all leaves must sit at the same depth")

	for idx.Len().Chars > 0 {
		idx.Delete(Metric{}, Metric{Bytes: 1, Chars: 1})
	}
	checkNodeInvariants(t, idx.root)
	assert.Equal(t, Metric{}, idx.Len())
}

func TestChunkBytesNeverSplitsARune(t *testing.T) {
	t.Parallel()
	text := []byte("a日b本c語d")
	chunks := chunkBytes(text, 2)
	var reassembled []byte
	for _, c := range chunks {
		assert.True(t, isCharBoundary(c[0]), "chunk starts mid-rune: %q", c)
		reassembled = append(reassembled, c...)
	}
	assert.Equal(t, text, reassembled)
}

func TestCharToByteOffsetInLeaf(t *testing.T) {
	t.Parallel()
	text := []byte("abc")
	assert.Equal(t, 0, charToByteOffsetInLeaf(text, 0))
	assert.Equal(t, 1, charToByteOffsetInLeaf(text, 1))
	assert.Equal(t, 2, charToByteOffsetInLeaf(text, 2))
	assert.Equal(t, 3, charToByteOffsetInLeaf(text, 3))
	assert.Equal(t, 3, charToByteOffsetInLeaf(text, 100))
}

// leafDepths records in out every depth below n at which a leaf occurs.
func leafDepths(n *metricNode, depth int, out map[int]bool) {
	if n.leaf {
		out[depth] = true
		return
	}
	for _, c := range n.children {
		leafDepths(c, depth+1, out)
	}
}

// renderIndex walks every leaf in order and concatenates their text, for
// tests that want to check the index's content directly.
func renderIndex(idx *MetricIndex) string {
	var out []byte
	var walk func(n *metricNode)
	walk = func(n *metricNode) {
		if n.leaf {
			out = append(out, n.text...)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(idx.root)
	return string(out)
}
