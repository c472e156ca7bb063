// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package transform

import (
	"io"
	"slices"

	"github.com/gaissmai/bvgraph/internal/sorter"
)

// symmetricLender serves the graph SimplifySorted produces: it consumes an
// iterator over only the u < v half of the simplified arc set and, for
// each node, emits both the successors it was pushed as src for and the
// predecessors it appears as dst of. Building the full per-node adjacency
// this way still means buffering the half-arc set once in RAM (it is at
// most half the size a non-sorted Simplify would have pushed through the
// sorter); a streaming read-time merge would need the half-arcs indexed
// two ways at once, which the single k-way merge iterator doesn't give us
// for free, so this trades that extra memory for the simpler code path.
type symmetricLender struct {
	it   *sorter.Iterator
	n    int64
	next int64

	bySrc [][]int64
	byDst [][]int64
	built bool
}

func (s *symmetricLender) build() error {
	s.bySrc = make([][]int64, s.n)
	s.byDst = make([][]int64, s.n)
	for {
		a, err := s.it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		s.bySrc[a.Src] = append(s.bySrc[a.Src], a.Dst)
		s.byDst[a.Dst] = append(s.byDst[a.Dst], a.Src)
	}
	s.built = true
	return s.it.Close()
}

func (s *symmetricLender) Next() (int64, []int64, bool) {
	if !s.built {
		if err := s.build(); err != nil {
			return 0, nil, false
		}
	}
	if s.next >= s.n {
		return 0, nil, false
	}
	v := s.next
	s.next++

	succ := append(append([]int64{}, s.bySrc[v]...), s.byDst[v]...)
	slices.Sort(succ)
	return v, succ, true
}
