// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestOpenMappedRoundTrip(t *testing.T) {
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

	dir := t.TempDir()
	basename := filepath.Join(dir, "g")

	if err := os.WriteFile(basename+".graph", w.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	propsFile, err := os.Create(basename + ".properties")
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteProperties(propsFile, w.Properties()); err != nil {
		t.Fatal(err)
	}
	propsFile.Close()
	offsetsFile, err := os.Create(basename + ".offsets")
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteOffsetsFile(offsetsFile, w.Offsets()); err != nil {
		t.Fatal(err)
	}
	offsetsFile.Close()

	mf, err := OpenMapped(basename)
	if err != nil {
		t.Fatalf("OpenMapped: %v", err)
	}
	defer mf.Close()

	if mf.Properties().Nodes != int64(len(graph)) {
		t.Fatalf("Properties().Nodes = %d, want %d", mf.Properties().Nodes, len(graph))
	}

	r := mf.NewSequentialReader()
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

	ra, err := mf.NewRandomAccessReader()
	if err != nil {
		t.Fatalf("NewRandomAccessReader: %v", err)
	}
	for v := range graph {
		succ, err := ra.Successors(int64(v))
		if err != nil {
			t.Fatalf("Successors(%d): %v", v, err)
		}
		if !slices.Equal(succ, graph[v]) {
			t.Errorf("node %d: got %v, want %v", v, succ, graph[v])
		}
	}

	shards, err := mf.SplitSequentialReaders(2)
	if err != nil {
		t.Fatalf("SplitSequentialReaders: %v", err)
	}
	var gotAll [][]int64 = make([][]int64, len(graph))
	for _, sh := range shards {
		for {
			v, succ, ok := sh.Next()
			if !ok {
				break
			}
			gotAll[v] = succ
		}
		if err := sh.Err(); err != nil {
			t.Fatalf("shard Err: %v", err)
		}
	}
	for v := range graph {
		if !slices.Equal(gotAll[v], graph[v]) {
			t.Errorf("shard node %d: got %v, want %v", v, gotAll[v], graph[v])
		}
	}
}

func TestOpenMappedWithoutOffsetsRejectsRandomAccess(t *testing.T) {
	t.Parallel()

	graph := [][]int64{0: {1}, 1: {}}
	w := NewWriter()
	if err := w.Write(&sliceSource{graph: graph}); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	basename := filepath.Join(dir, "g")
	if err := os.WriteFile(basename+".graph", w.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	propsFile, err := os.Create(basename + ".properties")
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteProperties(propsFile, w.Properties()); err != nil {
		t.Fatal(err)
	}
	propsFile.Close()

	mf, err := OpenMapped(basename)
	if err != nil {
		t.Fatalf("OpenMapped: %v", err)
	}
	defer mf.Close()

	if _, err := mf.NewRandomAccessReader(); err == nil {
		t.Fatal("expected an error without a .offsets sidecar")
	}
}
