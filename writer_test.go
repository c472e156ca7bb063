// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"slices"
	"testing"
)

type sliceSource struct {
	graph [][]int64
	next  int64
}

func (s *sliceSource) Next() (int64, []int64, bool) {
	if int(s.next) >= len(s.graph) {
		return 0, nil, false
	}
	v := s.next
	s.next++
	return v, s.graph[v], true
}

func TestWriterSequentialReaderRoundTrip(t *testing.T) {
	t.Parallel()

	graph := [][]int64{
		0: {1, 2, 3},
		1: {2, 3},
		2: {3},
		3: {},
		4: {0, 1, 2, 3},
	}

	w := NewWriter()
	if err := w.Write(&sliceSource{graph: graph}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := NewSequentialReader(w.Bytes(), w.Properties().Codes, int64(len(graph)))
	for v := range graph {
		node, succ, ok := r.Next()
		if !ok {
			t.Fatalf("Next() ran out at node %d: %v", v, r.Err())
		}
		if node != int64(v) {
			t.Fatalf("got node %d, want %d", node, v)
		}
		if !slices.Equal(succ, graph[v]) {
			t.Errorf("node %d: got %v, want %v", v, succ, graph[v])
		}
	}
	if _, _, ok := r.Next(); ok {
		t.Error("expected reader to be exhausted")
	}
}

func TestRandomAccessReaderMatchesSequential(t *testing.T) {
	t.Parallel()

	graph := [][]int64{
		0: {1, 2, 3},
		1: {2, 3},
		2: {3},
		3: {},
		4: {0, 1, 2, 3},
	}

	w := NewWriter()
	if err := w.Write(&sliceSource{graph: graph}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	idx, err := BuildOffsetsIndex(w.Offsets())
	if err != nil {
		t.Fatalf("BuildOffsetsIndex: %v", err)
	}

	ra := NewRandomAccessReader(w.Bytes(), w.Properties().Codes, idx, int64(len(graph)))
	for v := range graph {
		succ, err := ra.Successors(int64(v))
		if err != nil {
			t.Fatalf("Successors(%d): %v", v, err)
		}
		if !slices.Equal(succ, graph[v]) {
			t.Errorf("node %d: got %v, want %v", v, succ, graph[v])
		}

		od, err := ra.Outdegree(int64(v))
		if err != nil {
			t.Fatalf("Outdegree(%d): %v", v, err)
		}
		if od != len(graph[v]) {
			t.Errorf("Outdegree(%d) = %d, want %d", v, od, len(graph[v]))
		}
	}
}

func TestSplitSequentialReadersCoverEveryNode(t *testing.T) {
	t.Parallel()

	graph := [][]int64{
		0: {1, 2},
		1: {2, 3},
		2: {3, 4},
		3: {4, 5},
		4: {5},
		5: {},
	}

	w := NewWriter(WithConfig(func() Config {
		c := DefaultConfig()
		c.Window = 2
		return c
	}()))
	if err := w.Write(&sliceSource{graph: graph}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	idx, err := BuildOffsetsIndex(w.Offsets())
	if err != nil {
		t.Fatalf("BuildOffsetsIndex: %v", err)
	}

	shards := SplitSequentialReaders(w.Bytes(), w.Properties().Codes, idx, int64(len(graph)), 3)

	seen := make(map[int64][]int64)
	for _, sh := range shards {
		for {
			v, succ, ok := sh.Next()
			if !ok {
				if err := sh.Err(); err != nil {
					t.Fatalf("shard error: %v", err)
				}
				break
			}
			seen[v] = succ
		}
	}

	if len(seen) != len(graph) {
		t.Fatalf("got %d nodes, want %d", len(seen), len(graph))
	}
	for v := range graph {
		if !slices.Equal(seen[int64(v)], graph[v]) {
			t.Errorf("node %d: got %v, want %v", v, seen[int64(v)], graph[v])
		}
	}
}

func TestParallelWriterMatchesSequentialWriter(t *testing.T) {
	t.Parallel()

	graph := [][]int64{
		0: {1, 2},
		1: {2, 3},
		2: {3, 4},
		3: {4, 5},
		4: {5},
		5: {},
	}
	n := int64(len(graph))
	cfg := DefaultConfig()
	cfg.Window = 2

	pw := NewParallelWriter(cfg)
	data, offsets, outdegrees, props, err := pw.Write(n, 3, func(shard int, start, end int64) ShardSource {
		return &sliceSource{graph: graph, next: start}
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if props.Nodes != n {
		t.Fatalf("Nodes = %d, want %d", props.Nodes, n)
	}

	idx, err := BuildOffsetsIndex(offsets)
	if err != nil {
		t.Fatalf("BuildOffsetsIndex: %v", err)
	}
	ra := NewRandomAccessReader(data, cfg, idx, n)

	for v := range graph {
		succ, err := ra.Successors(int64(v))
		if err != nil {
			t.Fatalf("Successors(%d): %v", v, err)
		}
		if !slices.Equal(succ, graph[v]) {
			t.Errorf("node %d: got %v, want %v", v, succ, graph[v])
		}
	}

	dcf, err := BuildDCFIndex(outdegrees)
	if err != nil {
		t.Fatalf("BuildDCFIndex: %v", err)
	}
	var want uint64
	for v := range graph {
		if got := dcf.At(int64(v)); got != want {
			t.Errorf("DCF.At(%d) = %d, want %d", v, got, want)
		}
		for range graph[v] {
			if n := dcf.NodeForArc(want); n != int64(v) {
				t.Errorf("NodeForArc(%d) = %d, want %d", want, n, v)
			}
			want++
		}
	}
	if got := dcf.At(n); got != want {
		t.Errorf("DCF.At(%d) = %d, want %d", n, got, want)
	}
}

func TestDefaultHasArc(t *testing.T) {
	t.Parallel()

	graph := [][]int64{
		0: {1, 2, 3},
		1: {2, 3},
		2: {3},
		3: {},
	}

	w := NewWriter()
	if err := w.Write(&sliceSource{graph: graph}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	idx, err := BuildOffsetsIndex(w.Offsets())
	if err != nil {
		t.Fatalf("BuildOffsetsIndex: %v", err)
	}
	ra := NewRandomAccessReader(w.Bytes(), w.Properties().Codes, idx, int64(len(graph)))

	ok, err := DefaultHasArc(ra, 0, 2)
	if err != nil {
		t.Fatalf("DefaultHasArc: %v", err)
	}
	if !ok {
		t.Error("expected arc (0, 2) to exist")
	}

	ok, err = DefaultHasArc(ra, 2, 1)
	if err != nil {
		t.Fatalf("DefaultHasArc: %v", err)
	}
	if ok {
		t.Error("expected arc (2, 1) to not exist")
	}
}
