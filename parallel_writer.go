// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"golang.org/x/sync/errgroup"

	"github.com/gaissmai/bvgraph/internal/bitio"
	"github.com/gaissmai/bvgraph/internal/codec"
	"github.com/gaissmai/bvgraph/internal/ring"
)

// ShardSource supplies one contiguous node range's adjacency lists to a
// ParallelWriter shard, in increasing id order.
type ShardSource interface {
	Next() (node int64, succ []int64, ok bool)
}

// ShardSourceFactory builds the ShardSource for shard i, covering
// [start, end). Implementations typically wrap a random-access graph or a
// pre-split on-disk arc stream.
type ShardSourceFactory func(shard int, start, end int64) ShardSource

// ParallelWriter implements spec §4.7: it shards the node range into k
// approximately equal pieces, compresses each shard independently and
// concurrently (the first cfg.Window nodes of every shard but the first
// are forbidden from referencing earlier shards, since those references
// cannot be resolved across the shard boundary without coupling), then
// concatenates the resulting fragments with bit-level splicing.
type ParallelWriter struct {
	cfg Config
}

// NewParallelWriter returns a ParallelWriter using cfg.
func NewParallelWriter(cfg Config) *ParallelWriter {
	return &ParallelWriter{cfg: cfg}
}

type shardResult struct {
	data       []byte
	bitLen     uint64
	offsets    []uint64 // local to the shard
	outdegrees []int
	arcs       int64
}

// Write splits [0, numNodes) into k shards (k capped at numNodes, the last
// shard absorbing any remainder), compresses them concurrently with one
// goroutine per shard in a golang.org/x/sync/errgroup.Group it creates
// itself (no caller-supplied pool and no concurrency limit), and splices the fragments
// into one stream. It returns the concatenated bytes, the shifted global
// offsets (spec §4.7: O[i]_local + Σ_{j<shard(i)} b_j), the per-node
// outdegrees in node order (for BuildDCFIndex) and a Properties value ready
// for WriteProperties.
func (pw *ParallelWriter) Write(numNodes int64, k int, newSource ShardSourceFactory) ([]byte, []uint64, []int, Properties, error) {
	if k <= 0 {
		k = 1
	}
	if int64(k) > numNodes && numNodes > 0 {
		k = int(numNodes)
	}

	bounds := shardBounds(numNodes, k)
	results := make([]shardResult, len(bounds)-1)

	g := new(errgroup.Group)
	for i := 0; i < len(bounds)-1; i++ {
		i := i
		start, end := bounds[i], bounds[i+1]
		g.Go(func() error {
			res, err := pw.writeShard(i, start, end, newSource)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, Properties{}, err
	}

	return pw.splice(results, numNodes)
}

func shardBounds(numNodes int64, k int) []int64 {
	if k == 0 {
		return []int64{0}
	}
	shardSize := numNodes / int64(k)
	bounds := make([]int64, k+1)
	for i := 1; i < k; i++ {
		bounds[i] = int64(i) * shardSize
	}
	bounds[k] = numNodes
	return bounds
}

// writeShard compresses one shard independently with its own back-
// reference ring starting empty, per spec §4.7's "per-shard state: its own
// back-reference ring, starting empty".
func (pw *ParallelWriter) writeShard(shard int, start, end int64, newSource ShardSourceFactory) (shardResult, error) {
	src := newSource(shard, start, end)
	buf := ring.NewBuffer(pw.cfg.Window)
	w := bitio.NewWriter(1 << 16)
	depths := make(map[int64]int)
	depth := func(u int64) int { return depths[u] }

	var res shardResult
	for v := start; v < end; v++ {
		node, succ, ok := src.Next()
		if !ok {
			break
		}

		res.offsets = append(res.offsets, w.BitLen())

		d, err := codec.Encode(w, pw.cfg, buf, node, succ, depth)
		if err != nil {
			return shardResult{}, err
		}
		depths[node] = d

		s := buf.Take()
		s = append(s, succ...)
		buf.Push(node, s)

		res.outdegrees = append(res.outdegrees, len(succ))
		res.arcs += int64(len(succ))
	}
	res.offsets = append(res.offsets, w.BitLen())
	res.data = w.Bytes()
	res.bitLen = w.BitLen()

	return res, nil
}

// splice concatenates every shard's fragment at the bit level — each
// fragment's trailing byte is only partially filled with real bits, so a
// plain byte concatenation would splice in padding mid-stream — and shifts
// local offsets by the cumulative bit length of all preceding shards
// (spec §4.7).
func (pw *ParallelWriter) splice(results []shardResult, numNodes int64) ([]byte, []uint64, []int, Properties, error) {
	combined := bitio.NewWriter(0)
	var offsets []uint64
	var outdegrees []int
	var totalArcs int64
	var shift uint64

	for i, res := range results {
		spliceFragment(combined, res.data, res.bitLen)
		for j, o := range res.offsets {
			// the final, sentinel offset of every shard but the last
			// duplicates the first offset of the next shard; keep only one.
			if j == len(res.offsets)-1 && i != len(results)-1 {
				continue
			}
			offsets = append(offsets, o+shift)
		}
		outdegrees = append(outdegrees, res.outdegrees...)
		shift += res.bitLen
		totalArcs += res.arcs
	}

	props := Properties{
		Nodes:             numNodes,
		Arcs:              totalArcs,
		WindowSize:        pw.cfg.Window,
		MaxRefCount:       pw.cfg.MaxRefCount,
		MinIntervalLength: pw.cfg.MinIntervalLength,
		Codes:             pw.cfg,
		ByteOrder:         LittleEndian,
		Length:            shift,
	}

	return combined.Bytes(), offsets, outdegrees, props, nil
}

// spliceFragment appends the first bitLen bits of data to dst, bit by bit,
// so a fragment's unused trailing padding bits are never copied into the
// combined stream.
func spliceFragment(dst *bitio.Writer, data []byte, bitLen uint64) {
	r := bitio.NewReader(data)
	for i := uint64(0); i < bitLen; i++ {
		b, err := r.ReadBit()
		if err != nil {
			return
		}
		dst.WriteBit(b)
	}
}
