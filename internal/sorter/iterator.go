// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sorter

import (
	"container/heap"
	"io"
	"os"

	"github.com/gaissmai/bvgraph/internal/bitio"
)

// runReader decodes one gap-coded run file arc by arc.
type runReader struct {
	f       *os.File
	r       *bitio.Reader
	labeled bool

	remaining int // arcs left in the current same-src group
	prevSrc   int64
	prevDst   int64
	first     bool
	nextSrc   int64
}

func newRunReader(path string) (*runReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if len(data) == 0 {
		f.Close()
		return nil, io.ErrUnexpectedEOF
	}

	return &runReader{
		f:       f,
		r:       bitio.NewReader(data[1:]),
		labeled: data[0] == 1,
		first:   true,
	}, nil
}

// next returns the next arc in the run, or io.EOF when exhausted.
func (rr *runReader) next() (Arc, error) {
	for rr.remaining == 0 {
		if rr.r.BitPosition() >= rr.r.Len() {
			return Arc{}, io.EOF
		}

		start := rr.r.BitPosition()
		gap, err := rr.r.ReadCode(bitio.Code{Family: bitio.Gamma})
		if err != nil {
			if err == bitio.ErrShortRead && rr.r.Len()-start < 8 {
				// only the zero padding of the run's final byte was left
				return Arc{}, io.EOF
			}
			return Arc{}, err
		}
		count, err := rr.r.ReadCode(bitio.Code{Family: bitio.Gamma})
		if err != nil {
			return Arc{}, err
		}

		if rr.first {
			rr.nextSrc = int64(gap)
			rr.first = false
		} else {
			rr.nextSrc = rr.prevSrc + int64(gap)
		}
		rr.prevSrc = rr.nextSrc
		rr.remaining = int(count)
		rr.prevDst = 0
	}

	dgap, err := rr.r.ReadCode(bitio.Code{Family: bitio.Delta})
	if err != nil {
		return Arc{}, err
	}
	dst := rr.prevDst + int64(dgap)
	rr.prevDst = dst

	a := Arc{Src: rr.prevSrc, Dst: dst}
	if rr.labeled {
		l, err := rr.r.ReadCode(bitio.Code{Family: bitio.Gamma})
		if err != nil {
			return Arc{}, err
		}
		a.Label = int64(l)
		a.Labeled = true
	}

	rr.remaining--
	return a, nil
}

func (rr *runReader) close() error {
	return rr.f.Close()
}

// heapItem pairs a run's current head arc with its source run index, for
// the k-way merge min-heap.
type heapItem struct {
	arc Arc
	run int
}

type arcHeap []heapItem

func (h arcHeap) Len() int { return len(h) }

// Less breaks (Src, Dst) ties by ascending run index, so that a duplicate
// arc spilled by an earlier run always pops before the same arc from a
// later run, preserving insertion order for labeled duplicates (spec §8
// property #10 and scenario S6).
func (h arcHeap) Less(i, j int) bool {
	if c := less(h[i].arc, h[j].arc); c != 0 {
		return c < 0
	}
	return h[i].run < h[j].run
}
func (h arcHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *arcHeap) Push(x any)         { *h = append(*h, x.(heapItem)) }
func (h *arcHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Iterator yields arcs across every run in lexicographic (Src, Dst) order,
// per spec §4.8's "iterator construction ... feed them into a min-heap /
// loser tree that performs a k-way merge".
type Iterator struct {
	runs  []*runReader
	paths []string
	h     arcHeap
}

func newIterator(paths []string) (*Iterator, error) {
	it := &Iterator{paths: paths}
	for _, p := range paths {
		rr, err := newRunReader(p)
		if err != nil {
			it.Close()
			return nil, err
		}
		it.runs = append(it.runs, rr)
	}

	for i, rr := range it.runs {
		a, err := rr.next()
		if err == io.EOF {
			continue
		}
		if err != nil {
			it.Close()
			return nil, err
		}
		it.h = append(it.h, heapItem{arc: a, run: i})
	}
	heap.Init(&it.h)

	return it, nil
}

// Next returns the next arc in merged order, or io.EOF once every run is
// exhausted.
func (it *Iterator) Next() (Arc, error) {
	if len(it.h) == 0 {
		return Arc{}, io.EOF
	}

	top := heap.Pop(&it.h).(heapItem)

	next, err := it.runs[top.run].next()
	if err == nil {
		heap.Push(&it.h, heapItem{arc: next, run: top.run})
	} else if err != io.EOF {
		return Arc{}, err
	}

	return top.arc, nil
}

// Close releases and removes every underlying run file (spec §4.8's
// "temporary files ... are removed on iterator drop or explicit close").
func (it *Iterator) Close() error {
	var firstErr error
	for _, rr := range it.runs {
		if err := rr.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, p := range it.paths {
		if err := os.Remove(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
