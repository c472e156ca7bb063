// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package transform implements the arc-list-to-graph adapter and the
// transpose/simplify/permute transformations of spec §4.9/§4.10: each
// feeds arcs into an internal/sorter.Sorter and reads the sorted result
// back as a sequential graph.
package transform

import (
	"io"

	"github.com/gaissmai/bvgraph/internal/sorter"
)

// Lender is the minimal sequential-graph shape the writer (spec §4.6)
// consumes: Next advances to the next node in increasing id order and
// returns its successors, or false once every node in [0, n) is exhausted.
type Lender interface {
	Next() (node int64, succ []int64, ok bool)
}

// arcAdapter wraps a sorted sorter.Iterator, grouping consecutive arcs
// with the same Src into one adjacency list and emitting an empty
// adjacency for every intervening node with no arcs at all, per spec
// §4.9's "emits adjacencies for all nodes in [0, n) even those with
// outdegree zero".
type arcAdapter struct {
	it   *sorter.Iterator
	n    int64
	next int64

	pending   *sorter.Arc // an arc already read but not yet consumed
	exhausted bool
	err       error
}

// FromSortedArcs builds a Lender over n nodes from an arc iterator already
// sorted by (Src, Dst). The returned Lender takes ownership of it: its
// Close method (not part of the Lender interface) closes it and removes its
// run files. Exhausting the Lender does not close it.
func FromSortedArcs(it *sorter.Iterator, n int64) Lender {
	return fromSortedArcsRange(it, 0, n)
}

// fromSortedArcsRange is FromSortedArcs restricted to [start, end): it's
// arcAdapter's Next logic is range-agnostic already (it only ever compares
// the current node id against pending arcs' absolute Src), so starting
// next at start rather than 0 is enough to serve one shard's range out of
// PermuteParallel's k-way split.
func fromSortedArcsRange(it *sorter.Iterator, start, end int64) *arcAdapter {
	return &arcAdapter{it: it, n: end, next: start}
}

func (a *arcAdapter) Next() (int64, []int64, bool) {
	if a.err != nil || a.next >= a.n {
		return 0, nil, false
	}
	v := a.next
	a.next++

	if a.pending == nil && !a.exhausted {
		arc, err := a.it.Next()
		switch {
		case err == io.EOF:
			a.exhausted = true
		case err != nil:
			a.err = err
			return 0, nil, false
		default:
			a.pending = &arc
		}
	}

	var succ []int64
	for a.pending != nil && a.pending.Src == v {
		succ = append(succ, a.pending.Dst)
		arc, err := a.it.Next()
		switch {
		case err == io.EOF:
			a.exhausted = true
			a.pending = nil
		case err != nil:
			a.err = err
			a.pending = nil
			return 0, nil, false
		default:
			a.pending = &arc
		}
	}

	return v, succ, true
}

// Err returns the first non-EOF read error the underlying sorter iterator
// encountered, if any (spec §7: "iteration propagates read errors").
func (a *arcAdapter) Err() error {
	return a.err
}

// Close releases the underlying sorter iterator's temp files.
func (a *arcAdapter) Close() error {
	return a.it.Close()
}
