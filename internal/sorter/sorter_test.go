// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sorter

import (
	"io"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestSortsAcrossMultipleRuns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir, 8) // tiny batch size forces several spilled runs

	rng := rand.New(rand.NewPCG(3, 4))
	var want []Arc
	for i := 0; i < 100; i++ {
		a := Arc{Src: int64(rng.IntN(20)), Dst: int64(rng.IntN(20))}
		want = append(want, a)
		if err := s.Push(a); err != nil {
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
		if got[i].Src != want[i].Src || got[i].Dst != want[i].Dst {
			t.Fatalf("arc %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLabeledArcsRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir, 1000)

	arcs := []Arc{
		{Src: 1, Dst: 2, Label: 7, Labeled: true},
		{Src: 0, Dst: 5, Label: 3, Labeled: true},
		{Src: 1, Dst: 3, Label: 9, Labeled: true},
	}
	for _, a := range arcs {
		if err := s.Push(a); err != nil {
			t.Fatal(err)
		}
	}

	it, err := s.Close()
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	want := slices.Clone(arcs)
	slices.SortStableFunc(want, less)

	for _, w := range want {
		got, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got.Src != w.Src || got.Dst != w.Dst || got.Label != w.Label {
			t.Fatalf("got %+v, want %+v", got, w)
		}
	}
}

func TestEmptySorterProducesEmptyIterator(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir, 100)
	it, err := s.Close()
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF on empty sorter, got %v", err)
	}
}
