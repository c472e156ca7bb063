// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"bytes"
	"testing"
)

func TestDCFIndexRoundTrip(t *testing.T) {
	t.Parallel()

	outdegrees := []int{3, 0, 2, 1, 0, 5}

	idx, err := BuildDCFIndex(outdegrees)
	if err != nil {
		t.Fatalf("BuildDCFIndex: %v", err)
	}

	want := CumulativeOutdegrees(outdegrees)
	for i, w := range want {
		if got := idx.At(int64(i)); got != w {
			t.Errorf("At(%d) = %d, want %d", i, got, w)
		}
	}

	totalArcs := want[len(want)-1]
	for v := 0; v < len(outdegrees); v++ {
		for arc := want[v]; arc < want[v+1]; arc++ {
			if got := idx.NodeForArc(arc); got != int64(v) {
				t.Errorf("NodeForArc(%d) = %d, want %d", arc, got, v)
			}
		}
	}
	if totalArcs > 0 {
		if got := idx.NodeForArc(totalArcs - 1); got != int64(len(outdegrees)-1) {
			t.Errorf("NodeForArc(%d) = %d, want %d", totalArcs-1, got, len(outdegrees)-1)
		}
	}
}

func TestDCFFileRoundTrip(t *testing.T) {
	t.Parallel()

	outdegrees := []int{4, 4, 1, 0, 9}
	idx, err := BuildDCFIndex(outdegrees)
	if err != nil {
		t.Fatalf("BuildDCFIndex: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteDCFFile(&buf, idx); err != nil {
		t.Fatalf("WriteDCFFile: %v", err)
	}

	got, err := ReadDCFFile(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadDCFFile: %v", err)
	}

	want := CumulativeOutdegrees(outdegrees)
	for i, w := range want {
		if g := got.At(int64(i)); g != w {
			t.Errorf("At(%d) = %d, want %d", i, g, w)
		}
	}
}

func TestOffsetsIndexFileRoundTrip(t *testing.T) {
	t.Parallel()

	offsets := []uint64{0, 5, 5, 12, 40}
	idx, err := BuildOffsetsIndex(offsets)
	if err != nil {
		t.Fatalf("BuildOffsetsIndex: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteOffsetsIndexFile(&buf, idx); err != nil {
		t.Fatalf("WriteOffsetsIndexFile: %v", err)
	}

	got, err := ReadOffsetsIndexFile(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadOffsetsIndexFile: %v", err)
	}
	for i, want := range offsets {
		if g := got.Offset(int64(i)); g != want {
			t.Errorf("Offset(%d) = %d, want %d", i, g, want)
		}
	}
}
