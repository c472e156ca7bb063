// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"github.com/gaissmai/bvgraph/internal/bitio"
	"github.com/gaissmai/bvgraph/internal/codec"
	"github.com/gaissmai/bvgraph/internal/eliasfano"
	"github.com/gaissmai/bvgraph/internal/ring"
)

// OffsetsIndex answers O[i], the bit position of node i's record, via the
// quasi-succinct structure of spec §4.3. Each lookup is one
// eliasfano.Index.Select, whose cost grows with i; it is not constant-time.
type OffsetsIndex struct {
	ef *eliasfano.Index
}

// BuildOffsetsIndex folds a sequence of monotone record start positions
// (as produced by Writer.Offsets, one per node plus a final sentinel)
// into a compact OffsetsIndex.
func BuildOffsetsIndex(offsets []uint64) (*OffsetsIndex, error) {
	u := uint64(0)
	if len(offsets) > 0 {
		u = offsets[len(offsets)-1]
	}
	ef := eliasfano.New(len(offsets), u)
	for _, o := range offsets {
		if err := ef.Push(o); err != nil {
			return nil, err
		}
	}
	return &OffsetsIndex{ef: ef}, nil
}

// Offset returns O[v].
func (idx *OffsetsIndex) Offset(v int64) uint64 {
	return idx.ef.Select(int(v))
}

// RandomAccessReader implements spec §4.5: given a node v, it consults the
// offsets index for O[v], seeks the bit stream, and decodes the record,
// recursively resolving any reference outside the local ring up to
// cfg.MaxRefCount ancestors deep.
type RandomAccessReader struct {
	cfg      Config
	data     []byte
	offsets  *OffsetsIndex
	numNodes int64
}

// NewRandomAccessReader returns a reader over data indexed by offsets.
func NewRandomAccessReader(data []byte, cfg Config, offsets *OffsetsIndex, numNodes int64) *RandomAccessReader {
	return &RandomAccessReader{cfg: cfg, data: data, offsets: offsets, numNodes: numNodes}
}

// NumNodes returns the node count the reader was constructed with.
func (r *RandomAccessReader) NumNodes() int64 { return r.numNodes }

// Successors decodes and returns node v's successor list.
func (r *RandomAccessReader) Successors(v int64) ([]int64, error) {
	succ, _, err := r.decode(v, 0)
	return succ, err
}

// Outdegree reads only the outdegree code from v's record start position,
// bypassing full decoding (spec §4.5's "outdegree-only queries bypass full
// decoding").
func (r *RandomAccessReader) Outdegree(v int64) (int, error) {
	reader := bitio.NewReader(r.data)
	reader.SeekBit(r.offsets.Offset(v))
	n, err := reader.ReadCode(r.cfg.Outdegree)
	return int(n), err
}

// decode resolves node v's record, recursively decoding its reference
// ancestor (if any) up to cfg.MaxRefCount hops, per spec §4.5.
func (r *RandomAccessReader) decode(v int64, hops int) ([]int64, int, error) {
	reader := bitio.NewReader(r.data)
	reader.SeekBit(r.offsets.Offset(v))

	buf := ring.NewBuffer(r.cfg.Window)
	depth := func(int64) int { return 0 }

	resolve := func(u int64) ([]int64, error) {
		if hops+1 > r.cfg.MaxRefCount {
			return nil, codec.ErrReferenceOutOfRange
		}
		succ, _, err := r.decode(u, hops+1)
		return succ, err
	}

	return codec.Decode(reader, r.cfg, buf, v, depth, resolve)
}
