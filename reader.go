// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"github.com/gaissmai/bvgraph/internal/bitio"
	"github.com/gaissmai/bvgraph/internal/codec"
	"github.com/gaissmai/bvgraph/internal/ring"
)

// SequentialReader implements spec §4.4: it decodes records from position
// 0 forward, maintaining a back-reference ring of length cfg.Window + 1.
// It satisfies SequentialGraph.
type SequentialReader struct {
	cfg Config
	r   *bitio.Reader
	buf *ring.Buffer

	depths   map[int64]int
	next     int64
	numNodes int64
	err      error
}

// NewSequentialReader returns a reader over data, decoding numNodes
// records under cfg.
func NewSequentialReader(data []byte, cfg Config, numNodes int64) *SequentialReader {
	return &SequentialReader{
		cfg:      cfg,
		r:        bitio.NewReader(data),
		buf:      ring.NewBuffer(cfg.Window),
		depths:   make(map[int64]int),
		numNodes: numNodes,
	}
}

// Next decodes and returns the next node's successors, borrowed from the
// reader's ring buffer until the following call to Next.
func (r *SequentialReader) Next() (int64, []int64, bool) {
	if r.err != nil || r.next >= r.numNodes {
		return 0, nil, false
	}

	v := r.next
	depth := func(u int64) int { return r.depths[u] }

	succ, d, err := codec.Decode(r.r, r.cfg, r.buf, v, depth, nil)
	if err != nil {
		r.err = err
		return 0, nil, false
	}
	r.depths[v] = d

	s := r.buf.Take()
	s = append(s, succ...)
	r.buf.Push(v, s)

	r.next++
	return v, succ, true
}

// Err returns the first error Next encountered, if any.
func (r *SequentialReader) Err() error {
	return r.err
}

// ShardReader is one of the k lenders SplitSequentialReaders returns: it
// covers a contiguous node range [start, end) in increasing id order,
// decoding its first cfg.Window nodes via random access (since their
// references may point before start, outside this shard's own ring) and
// falling back to an ordinary sequential ring-backed decode once the ring
// has filled with shard-local history.
type ShardReader struct {
	random     *RandomAccessReader
	sequential *SequentialReader
	start, end int64
	next       int64
	err        error
}

func (s *ShardReader) Next() (int64, []int64, bool) {
	if s.err != nil || s.next >= s.end {
		return 0, nil, false
	}
	v := s.next
	s.next++

	if v-s.start < int64(s.sequential.cfg.Window) {
		succ, err := s.random.Successors(v)
		if err != nil {
			s.err = err
			return 0, nil, false
		}
		b := s.sequential.buf.Take()
		b = append(b, succ...)
		s.sequential.buf.Push(v, b)
		s.sequential.next = v + 1
		return v, succ, true
	}

	nv, succ, ok := s.sequential.Next()
	if !ok {
		s.err = s.sequential.Err()
	}
	return nv, succ, ok
}

// Err returns the first error encountered, if any.
func (s *ShardReader) Err() error { return s.err }

// SplitSequentialReaders returns k lenders, each covering a contiguous,
// non-overlapping node range, collectively yielding every node in
// [0, numNodes) exactly once in increasing id order (spec §4.4's split
// support), using offsets to seek each shard directly to its start node.
func SplitSequentialReaders(data []byte, cfg Config, offsets *OffsetsIndex, numNodes int64, k int) []*ShardReader {
	if k <= 0 {
		k = 1
	}
	if int64(k) > numNodes {
		k = int(numNodes)
	}
	if k == 0 {
		return nil
	}

	shardSize := numNodes / int64(k)
	readers := make([]*ShardReader, 0, k)

	for i := 0; i < k; i++ {
		start := int64(i) * shardSize
		end := start + shardSize
		if i == k-1 {
			end = numNodes
		}

		// the sequential half of the shard begins once the ring has filled
		// with shard-local history, cfg.Window nodes in; seek straight to
		// that node's record rather than start's, since the nodes before it
		// are served by random access below and never advance seq.r.
		seqStart := start + int64(cfg.Window)
		if seqStart > end {
			seqStart = end
		}
		seq := NewSequentialReader(data, cfg, numNodes)
		seq.r.SeekBit(offsets.Offset(seqStart))
		seq.next = seqStart

		readers = append(readers, &ShardReader{
			random:     NewRandomAccessReader(data, cfg, offsets, numNodes),
			sequential: seq,
			start:      start,
			end:        end,
			next:       start,
		})
	}

	return readers
}
