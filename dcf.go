// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"io"

	"github.com/gaissmai/bvgraph/internal/eliasfano"
)

// CumulativeOutdegrees returns D[0..n], the degree-cumulative function of
// spec §3: D[0] = 0, D[i] = the sum of outdegrees[0:i], D[n] = total arcs.
func CumulativeOutdegrees(outdegrees []int) []uint64 {
	cum := make([]uint64, len(outdegrees)+1)
	var sum uint64
	for i, d := range outdegrees {
		cum[i] = sum
		sum += uint64(d)
	}
	cum[len(outdegrees)] = sum
	return cum
}

// DCFIndex answers D[i] with one eliasfano.Index.Select, whose cost grows
// with i, and its inverse — which node emitted a given overall arc index —
// with a binary search over Select. Spec §4.3: "the degree-cumulative
// function is built identically [to the offsets index], from cumulative
// outdegrees rather than cumulative bit offsets"; spec §8 property #5
// requires D to agree with the sum of every preceding node's outdegree.
type DCFIndex struct {
	ef *eliasfano.Index
}

// BuildDCFIndex folds per-node outdegrees, in node order, into a DCFIndex.
func BuildDCFIndex(outdegrees []int) (*DCFIndex, error) {
	cum := CumulativeOutdegrees(outdegrees)

	u := uint64(0)
	if len(cum) > 0 {
		u = cum[len(cum)-1]
	}
	ef := eliasfano.New(len(cum), u)
	for _, c := range cum {
		if err := ef.Push(c); err != nil {
			return nil, err
		}
	}
	return &DCFIndex{ef: ef}, nil
}

// At returns D[i], the number of arcs emitted by nodes [0, i).
func (idx *DCFIndex) At(i int64) uint64 {
	return idx.ef.Select(int(i))
}

// NodeForArc returns the node u such that D[u] <= arcIndex < D[u+1], i.e.
// the node that emitted the arcIndex'th arc overall — the inverse of At,
// via eliasfano.Index.Rank's binary search over the same Select that
// OffsetsIndex.Offset calls directly.
func (idx *DCFIndex) NodeForArc(arcIndex uint64) int64 {
	return int64(idx.ef.Rank(arcIndex+1) - 1)
}

// WriteDCFFile writes the B.dcf file of spec §6 — "the compact degree-
// cumulative function, same encoding as .ef" — by reusing
// eliasfano.Index.MarshalBinary verbatim, the same call WriteOffsetsIndexFile
// makes for B.ef.
func WriteDCFFile(w io.Writer, idx *DCFIndex) error {
	data, err := idx.ef.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadDCFFile reads back a B.dcf file written by WriteDCFFile.
func ReadDCFFile(data []byte) (*DCFIndex, error) {
	ef, err := eliasfano.UnmarshalBinary(data)
	if err != nil {
		return nil, err
	}
	return &DCFIndex{ef: ef}, nil
}
