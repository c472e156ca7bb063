// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package transform

import (
	"github.com/gaissmai/bvgraph/internal/sorter"
)

// Source is the minimal sequential-graph shape transforms read from: the
// same shape Lender exposes, kept as a separate name since a transform's
// input is logically "a graph to transform" rather than "a graph about to
// be written".
type Source interface {
	Next() (node int64, succ []int64, ok bool)
}

// Options controls the temp-file and batch-size policy transforms hand to
// their internal sorter, per spec §4.8's "configurable by a memory-usage
// parameter".
type Options struct {
	TempDir   string
	BatchSize int
}

func (o Options) sorter() *sorter.Sorter {
	return sorter.New(o.TempDir, o.BatchSize)
}

// Transpose reverses every arc (u, v) -> (v, u) and returns the resulting
// graph over the same n nodes (spec §4.10). Labels are not carried: Source
// yields unlabeled successor lists, and the result has no labels either.
func Transpose(src Source, n int64, opts Options) (Lender, error) {
	s := opts.sorter()

	for {
		u, succ, ok := src.Next()
		if !ok {
			break
		}
		for _, v := range succ {
			if err := s.Push(sorter.Arc{Src: v, Dst: u}); err != nil {
				return nil, err
			}
		}
	}

	it, err := s.Close()
	if err != nil {
		return nil, err
	}
	return FromSortedArcs(it, n), nil
}

// Simplify drops self-loops and parallel/anti-parallel edges, making the
// graph undirected-equivalent: for every arc (u, v) with u != v it pushes
// both (u, v) and (v, u), then deduplicates consecutive equal pairs on the
// read path (spec §4.10).
func Simplify(src Source, n int64, opts Options) (Lender, error) {
	s := opts.sorter()

	for {
		u, succ, ok := src.Next()
		if !ok {
			break
		}
		for _, v := range succ {
			if u == v {
				continue
			}
			if err := s.Push(sorter.Arc{Src: u, Dst: v}); err != nil {
				return nil, err
			}
			if err := s.Push(sorter.Arc{Src: v, Dst: u}); err != nil {
				return nil, err
			}
		}
	}

	it, err := s.Close()
	if err != nil {
		return nil, err
	}
	return dedupLender{inner: FromSortedArcs(it, n).(*arcAdapter)}, nil
}

// SimplifySorted is the spec §4.10 "simplify_sorted" fast path: pushing
// only the u < v half of arcs and emitting both directions at read time
// halves the sorter's work. Arcs with u > v are never read, so the result
// matches Simplify only when every such arc's reverse (v, u) is also in
// the input.
func SimplifySorted(src Source, n int64, opts Options) (Lender, error) {
	s := opts.sorter()

	for {
		u, succ, ok := src.Next()
		if !ok {
			break
		}
		for _, v := range succ {
			if u < v {
				if err := s.Push(sorter.Arc{Src: u, Dst: v}); err != nil {
					return nil, err
				}
			}
		}
	}

	it, err := s.Close()
	if err != nil {
		return nil, err
	}
	return &symmetricLender{it: it, n: n}, nil
}

// Permute applies a node permutation π to every arc: (u, v) -> (π(u),
// π(v)) (spec §4.10).
func Permute(src Source, n int64, perm []int64, opts Options) (Lender, error) {
	s := opts.sorter()

	for {
		u, succ, ok := src.Next()
		if !ok {
			break
		}
		pu := perm[u]
		for _, v := range succ {
			if err := s.Push(sorter.Arc{Src: pu, Dst: perm[v]}); err != nil {
				return nil, err
			}
		}
	}

	it, err := s.Close()
	if err != nil {
		return nil, err
	}
	return FromSortedArcs(it, n), nil
}

// dedupLender wraps an arcAdapter and drops duplicate successors produced
// by Simplify pushing both (u,v) and (v,u) for arcs that already had a
// counterpart.
type dedupLender struct {
	inner *arcAdapter
}

func (d dedupLender) Next() (int64, []int64, bool) {
	v, succ, ok := d.inner.Next()
	if !ok {
		return 0, nil, false
	}
	return v, dedupSortedInt64(succ), true
}

// Err returns the first read error the underlying arcAdapter encountered,
// if any.
func (d dedupLender) Err() error {
	return d.inner.Err()
}

func dedupSortedInt64(s []int64) []int64 {
	if len(s) < 2 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
