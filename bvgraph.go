// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bvgraph stores directed graphs with billions of nodes by
// exploiting locality and similarity between adjacency lists, delivering
// both sequential scans and random access to successor lists at a few
// bits per arc.
//
// The on-disk format is a basename B with up to five sibling files:
// B.graph (the bit stream), B.properties (key=value metadata),
// B.offsets (a gap-coded fallback offsets list), B.ef (the compact
// Elias-Fano offsets index) and B.dcf (the degree-cumulative function,
// same encoding as .ef). Only B.graph and B.properties are required;
// the rest are optional. Nothing in this package rebuilds them from
// B.graph, and random access through OpenMapped needs B.offsets.
package bvgraph

import (
	"github.com/gaissmai/bvgraph/internal/codec"
)

// SequentialGraph iterates adjacency lists in increasing node id order.
// Next's returned slice is borrowed from the graph's internal ring buffer
// (spec §4.4's lender contract) and is only valid until the following
// call to Next.
type SequentialGraph interface {
	Next() (node int64, succ []int64, ok bool)
	Err() error
}

// RandomAccessGraph resolves any single node's successor list directly via
// the offsets index, without a sequential scan.
type RandomAccessGraph interface {
	Successors(v int64) ([]int64, error)
	Outdegree(v int64) (int, error)
	NumNodes() int64
}

// DefaultHasArc answers whether arc (u, v) exists by linearly scanning
// u's successor list. It is the fallback any RandomAccessGraph caller can
// reach for when the graph itself doesn't expose a faster membership test
// (spec §4's original "has_arc" trait default, which Go's lack of default
// interface methods turns into a package-level helper instead).
func DefaultHasArc(g RandomAccessGraph, u, v int64) (bool, error) {
	succ, err := g.Successors(u)
	if err != nil {
		return false, err
	}
	for _, s := range succ {
		if s == v {
			return true, nil
		}
	}
	return false, nil
}

// LabelCodec encodes and decodes an arc label of type L alongside the
// unlabeled BV record, for the Labeled* graph variants spec §4 mentions as
// a pack supplement (original arc triples carry an optional label L).
type LabelCodec[L any] interface {
	EncodeLabel(l L) uint64
	DecodeLabel(x uint64) L
}

// Config is re-exported from internal/codec so callers configure a graph
// without importing an internal package.
type Config = codec.Config

// DefaultConfig returns the field code assignment the rest of this package
// defaults to.
func DefaultConfig() Config {
	return codec.DefaultConfig()
}
