// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sorter

import (
	"io"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/gaissmai/bvgraph/internal/golden"
)

// TestSortsRandomGraphArcs pushes a golden.RandomGraph's arcs through in
// shuffled order (golden.RandomArcs), forcing several spilled runs via a
// small batch size, and checks the merged output matches a plain sort.
func TestSortsRandomGraphArcs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(5, 6))
	graph := golden.RandomGraph(rng, 40, 0.15)
	arcs := golden.RandomArcs(rng, graph)

	dir := t.TempDir()
	s := New(dir, 16)

	var want []Arc
	for _, a := range arcs {
		arc := Arc{Src: a[0], Dst: a[1]}
		want = append(want, arc)
		if err := s.Push(arc); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	slices.SortStableFunc(want, less)

	it, err := s.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	defer it.Close()

	var got []Arc
	for {
		a, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, Arc{Src: a.Src, Dst: a.Dst})
	}

	if len(got) != len(want) {
		t.Fatalf("got %d arcs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arc %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

// FuzzRunIndexTieBreak seeds a PCG from the fuzzer's inputs, builds a
// handful of tiny batches that all share one duplicate (src, dst) pair
// pushed in a known order, and checks the merged iterator preserves that
// push order for the duplicate's label (spec §8 property #10, scenario S6).
func FuzzRunIndexTieBreak(f *testing.F) {
	f.Add(uint64(1), uint64(2), 3)
	f.Add(uint64(9), uint64(4), 5)

	f.Fuzz(func(t *testing.T, seed1, seed2 uint64, numRuns int) {
		if numRuns < 2 || numRuns > 8 {
			t.Skip("run count out of range")
		}

		rng := rand.New(rand.NewPCG(seed1, seed2))
		dir := t.TempDir()
		s := New(dir, 1) // batch size 1: every Push spills its own run

		for i := 0; i < numRuns; i++ {
			if err := s.Push(Arc{Src: 1, Dst: 2, Label: int64(i), Labeled: true}); err != nil {
				t.Fatalf("Push: %v", err)
			}
			if rng.IntN(2) == 0 {
				if err := s.Push(Arc{Src: 0, Dst: 9, Label: int64(i), Labeled: true}); err != nil {
					t.Fatalf("Push: %v", err)
				}
			}
		}

		it, err := s.Close()
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
		defer it.Close()

		var gotLabels []int64
		for {
			a, err := it.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if a.Src == 1 && a.Dst == 2 {
				gotLabels = append(gotLabels, a.Label)
			}
		}

		if !slices.IsSorted(gotLabels) {
			t.Fatalf("duplicate (1,2) arcs out of push order: %v", gotLabels)
		}
	})
}
