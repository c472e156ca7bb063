// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package sorter implements the external arc sorter of spec §4.8: arc
// triples (src, dst, label) arrive in arbitrary order and unknown volume;
// once a configured batch size of arcs has been buffered, the batch is
// sorted in place and spilled to a temp file using gap coding, and
// iteration performs a k-way merge across every spilled run.
package sorter

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gaissmai/bvgraph/internal/bitio"
)

// maxConcurrentFlushes bounds how many batches may be sorted and spilled to
// disk at once; Push keeps buffering into a fresh batch while earlier ones
// flush in the background, per spec §5.2's fork/join sorter pipeline.
const maxConcurrentFlushes = 4

// Arc is one (src, dst) pair with an optional label. Label is ignored when
// Labeled is false, matching spec §6's "label L may be absent".
type Arc struct {
	Src, Dst int64
	Label    int64
	Labeled  bool
}

// run pairs a spilled run's path with the seqNo it was assigned at flush
// time, so runs can be handed to the iterator in insertion order even though
// background flushes may finish out of that order.
type run struct {
	seqNo int
	path  string
}

// less orders arcs lexicographically by (Src, Dst), per spec §4.8.
func less(a, b Arc) int {
	if a.Src != b.Src {
		if a.Src < b.Src {
			return -1
		}
		return 1
	}
	if a.Dst != b.Dst {
		if a.Dst < b.Dst {
			return -1
		}
		return 1
	}
	return 0
}

// Sorter buffers arcs in RAM up to BatchSize, then spills sorted, gap-coded
// runs to TempDir; Iterator performs the k-way merge across every run.
//
// Flushing a full batch happens on a background goroutine so Push can keep
// accepting arcs into a fresh buffer while the previous batch sorts and
// writes to disk; a semaphore bounds how many flushes run concurrently so an
// unbounded arc stream doesn't unbounded-fork goroutines or file handles.
type Sorter struct {
	tempDir   string
	batchSize int

	buf   []Arc
	seqNo int

	mu   sync.Mutex
	runs []run

	sem   *semaphore.Weighted
	group *errgroup.Group
	ctx   context.Context
}

// New returns a Sorter that spills to tempDir once batchSize arcs have
// accumulated in RAM.
func New(tempDir string, batchSize int) *Sorter {
	if batchSize <= 0 {
		batchSize = 1 << 20
	}
	ctx := context.Background()
	group, ctx := errgroup.WithContext(ctx)
	return &Sorter{
		tempDir:   tempDir,
		batchSize: batchSize,
		buf:       make([]Arc, 0, batchSize),
		sem:       semaphore.NewWeighted(maxConcurrentFlushes),
		group:     group,
		ctx:       ctx,
	}
}

// Push appends one arc, transparently flushing a full batch to disk.
func (s *Sorter) Push(a Arc) error {
	s.buf = append(s.buf, a)
	if len(s.buf) >= s.batchSize {
		return s.flush()
	}
	return nil
}

// flush hands the current batch off to a background goroutine that sorts it
// in place (spec names radix sort on the packed (src,dst) key; a stable
// comparison sort over the same key order produces an identical result and
// is what this package actually runs) and serializes it to a new run file,
// then clears the buffer for the caller to keep filling. A prior flush's
// error surfaces from Push/Close once the errgroup observes it; an in-flight
// context cancellation (set the first time any flush fails) is checked
// before acquiring the semaphore so a broken Sorter stops spawning new work.
func (s *Sorter) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		return err
	}

	batch := s.buf
	s.buf = make([]Arc, 0, s.batchSize)

	seqNo := s.seqNo
	path := filepath.Join(s.tempDir, runFileName(seqNo))
	s.seqNo++

	s.group.Go(func() error {
		defer s.sem.Release(1)

		slices.SortStableFunc(batch, less)
		if err := writeRun(path, batch); err != nil {
			return err
		}

		s.mu.Lock()
		s.runs = append(s.runs, run{seqNo: seqNo, path: path})
		s.mu.Unlock()
		return nil
	})
	return nil
}

func runFileName(seq int) string {
	return "bvgraph-sorter-run-" + itoa(seq) + ".tmp"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

// writeRun gap-codes a sorted batch to path: a header byte (1 if labeled),
// then for each group of same-Src arcs the γ-coded gap from the previous
// group's Src (the first group's Src as is; the Src gap is not
// zigzag-coded, since sorting makes it non-negative), the γ-coded group
// size, and per arc its δ-coded Dst gap (the group's first Dst as is)
// followed by its γ-coded label if labeled.
func writeRun(path string, arcs []Arc) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	labeled := len(arcs) > 0 && arcs[0].Labeled
	header := byte(0)
	if labeled {
		header = 1
	}
	if _, err := f.Write([]byte{header}); err != nil {
		return err
	}

	w := bitio.NewWriter(len(arcs) * 8)

	i := 0
	prevSrc := int64(0)
	first := true
	for i < len(arcs) {
		j := i
		for j < len(arcs) && arcs[j].Src == arcs[i].Src {
			j++
		}

		srcGap := arcs[i].Src - prevSrc
		if first {
			srcGap = arcs[i].Src
			first = false
		}
		if err := w.WriteCode(bitio.Code{Family: bitio.Gamma}, uint64(srcGap)); err != nil {
			return err
		}
		if err := w.WriteCode(bitio.Code{Family: bitio.Gamma}, uint64(j-i)); err != nil {
			return err
		}

		prevDst := int64(0)
		for k := i; k < j; k++ {
			gap := arcs[k].Dst - prevDst
			if k == i {
				gap = arcs[k].Dst
			}
			if err := w.WriteCode(bitio.Code{Family: bitio.Delta}, uint64(gap)); err != nil {
				return err
			}
			prevDst = arcs[k].Dst
			if labeled {
				if err := w.WriteCode(bitio.Code{Family: bitio.Gamma}, uint64(arcs[k].Label)); err != nil {
					return err
				}
			}
		}

		prevSrc = arcs[i].Src
		i = j
	}

	bw := bufio.NewWriter(f)
	if _, err := bw.Write(w.Bytes()); err != nil {
		return err
	}
	return bw.Flush()
}

// Close flushes any buffered arcs, waits for every background flush to
// finish, and returns an Iterator that performs the k-way merge across every
// spilled run. The Sorter must not be reused after Close.
//
// Runs are handed to the iterator ordered by seqNo (the order batches were
// handed off to flush), not by goroutine completion order, so the iterator's
// run indices — and thus its tie-break order for equal (Src, Dst) keys —
// reflect Push insertion order (spec §8 property #10, scenario S6).
func (s *Sorter) Close() (*Iterator, error) {
	if err := s.flush(); err != nil {
		return nil, err
	}
	if err := s.group.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(s.runs, func(a, b run) int { return a.seqNo - b.seqNo })
	paths := make([]string, len(s.runs))
	for i, r := range s.runs {
		paths[i] = r.path
	}
	return newIterator(paths)
}
