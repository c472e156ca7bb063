// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"github.com/gaissmai/bvgraph/internal/bitio"
)

// labelCode is the fixed code family labels are serialized with: γ over
// the codec's EncodeLabel result, independent of whatever field codes the
// unlabeled record itself uses.
var labelCode = bitio.Code{Family: bitio.Gamma}

// LabeledSource is a Source that additionally supplies one label per
// successor, in the same order, per original_source's arc-label pairing
// (spec §4's "original arc triples carry an optional label L").
type LabeledSource[L any] interface {
	Next() (node int64, succ []int64, labels []L, ok bool)
}

// LabeledWriter writes the ordinary unlabeled BV stream through an
// embedded Writer and, in lock step, a second "parallel" bit stream
// holding each arc's label — original_source keeps labels as a
// serializer/deserializer pair threaded alongside the main codec rather
// than interleaved into it, so a corrupt or absent label stream never
// affects the graph's decodability.
type LabeledWriter[L any] struct {
	inner        *Writer
	codec        LabelCodec[L]
	labels       *bitio.Writer
	labelOffsets []uint64
}

// NewLabeledWriter returns a LabeledWriter using codec to serialize each
// label to a uint64.
func NewLabeledWriter[L any](codec LabelCodec[L], opts ...Option) *LabeledWriter[L] {
	return &LabeledWriter[L]{
		inner:  NewWriter(opts...),
		codec:  codec,
		labels: bitio.NewWriter(1 << 16),
	}
}

type labeledSourceAdapter[L any] struct {
	src  *LabeledWriter[L]
	src2 LabeledSource[L]
}

func (a labeledSourceAdapter[L]) Next() (int64, []int64, bool) {
	node, succ, labels, ok := a.src2.Next()
	if !ok {
		return 0, nil, false
	}
	a.src.labelOffsets = append(a.src.labelOffsets, a.src.labels.BitLen())
	for _, l := range labels {
		_ = a.src.labels.WriteCode(labelCode, a.src.codec.EncodeLabel(l))
	}
	return node, succ, true
}

// Write consumes src to completion.
func (lw *LabeledWriter[L]) Write(src LabeledSource[L]) error {
	if err := lw.inner.Write(labeledSourceAdapter[L]{src: lw, src2: src}); err != nil {
		return err
	}
	lw.labelOffsets = append(lw.labelOffsets, lw.labels.BitLen())
	return nil
}

// Bytes returns the finished unlabeled bit stream, identical to what a
// plain Writer would have produced over the same nodes and successors.
func (lw *LabeledWriter[L]) Bytes() []byte { return lw.inner.Bytes() }

// LabelBytes returns the finished label stream.
func (lw *LabeledWriter[L]) LabelBytes() []byte { return lw.labels.Bytes() }

// Offsets returns the unlabeled stream's record offsets, for
// BuildOffsetsIndex.
func (lw *LabeledWriter[L]) Offsets() []uint64 { return lw.inner.Offsets() }

// LabelOffsets returns the label stream's per-node start offsets, one per
// node plus a final sentinel, for a second OffsetsIndex over LabelBytes.
func (lw *LabeledWriter[L]) LabelOffsets() []uint64 { return lw.labelOffsets }

// Properties returns the unlabeled stream's metadata.
func (lw *LabeledWriter[L]) Properties() Properties { return lw.inner.Properties() }

// LabeledRandomAccessReader resolves a node's successors and their labels
// together, by consulting an ordinary RandomAccessReader for the
// successor list and a second offsets index into the label stream for
// the matching labels (spec §4's labeled variant, generic over L exactly
// as teacher parameterizes Table[V]).
type LabeledRandomAccessReader[L any] struct {
	graph        *RandomAccessReader
	labelData    []byte
	labelOffsets *OffsetsIndex
	codec        LabelCodec[L]
}

// NewLabeledRandomAccessReader returns a reader over graph data and a
// parallel label stream, both indexed by their own OffsetsIndex.
func NewLabeledRandomAccessReader[L any](
	data []byte, cfg Config, offsets *OffsetsIndex, numNodes int64,
	labelData []byte, labelOffsets *OffsetsIndex, codec LabelCodec[L],
) *LabeledRandomAccessReader[L] {
	return &LabeledRandomAccessReader[L]{
		graph:        NewRandomAccessReader(data, cfg, offsets, numNodes),
		labelData:    labelData,
		labelOffsets: labelOffsets,
		codec:        codec,
	}
}

// NumNodes returns the node count the reader was constructed with.
func (r *LabeledRandomAccessReader[L]) NumNodes() int64 { return r.graph.NumNodes() }

// Successors decodes and returns node v's successor list.
func (r *LabeledRandomAccessReader[L]) Successors(v int64) ([]int64, error) {
	return r.graph.Successors(v)
}

// Outdegree returns node v's outdegree.
func (r *LabeledRandomAccessReader[L]) Outdegree(v int64) (int, error) {
	return r.graph.Outdegree(v)
}

// Labels decodes and returns the labels for node v's successors, in the
// same order Successors(v) returns them in.
func (r *LabeledRandomAccessReader[L]) Labels(v int64) ([]L, error) {
	n, err := r.graph.Outdegree(v)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	reader := bitio.NewReader(r.labelData)
	reader.SeekBit(r.labelOffsets.Offset(v))

	labels := make([]L, n)
	for i := range labels {
		x, err := reader.ReadCode(labelCode)
		if err != nil {
			return nil, err
		}
		labels[i] = r.codec.DecodeLabel(x)
	}
	return labels, nil
}
