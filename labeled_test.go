// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"slices"
	"testing"
)

type stringLabelCodec struct{ table []string }

func (c stringLabelCodec) EncodeLabel(l string) uint64 {
	for i, s := range c.table {
		if s == l {
			return uint64(i)
		}
	}
	return 0
}

func (c stringLabelCodec) DecodeLabel(x uint64) string {
	return c.table[x]
}

type labeledSliceSource struct {
	graph  [][]int64
	labels [][]string
	next   int64
}

func (s *labeledSliceSource) Next() (int64, []int64, []string, bool) {
	if int(s.next) >= len(s.graph) {
		return 0, nil, nil, false
	}
	v := s.next
	s.next++
	return v, s.graph[v], s.labels[v], true
}

func TestLabeledWriterAndRandomAccessReader(t *testing.T) {
	t.Parallel()

	graph := [][]int64{
		0: {1, 2},
		1: {2},
		2: {},
	}
	labels := [][]string{
		0: {"friend", "follows"},
		1: {"follows"},
		2: {},
	}
	codec := stringLabelCodec{table: []string{"friend", "follows"}}

	lw := NewLabeledWriter[string](codec)
	if err := lw.Write(&labeledSliceSource{graph: graph, labels: labels}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	idx, err := BuildOffsetsIndex(lw.Offsets())
	if err != nil {
		t.Fatalf("BuildOffsetsIndex: %v", err)
	}
	labelIdx, err := BuildOffsetsIndex(lw.LabelOffsets())
	if err != nil {
		t.Fatalf("BuildOffsetsIndex(labels): %v", err)
	}

	r := NewLabeledRandomAccessReader[string](
		lw.Bytes(), lw.Properties().Codes, idx, int64(len(graph)),
		lw.LabelBytes(), labelIdx, codec,
	)

	for v := range graph {
		succ, err := r.Successors(int64(v))
		if err != nil {
			t.Fatalf("Successors(%d): %v", v, err)
		}
		if !slices.Equal(succ, graph[v]) {
			t.Errorf("node %d successors: got %v, want %v", v, succ, graph[v])
		}

		got, err := r.Labels(int64(v))
		if err != nil {
			t.Fatalf("Labels(%d): %v", v, err)
		}
		if !slices.Equal(got, labels[v]) {
			t.Errorf("node %d labels: got %v, want %v", v, got, labels[v])
		}
	}
}
