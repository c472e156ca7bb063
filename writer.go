// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"github.com/gaissmai/bvgraph/internal/bitio"
	"github.com/gaissmai/bvgraph/internal/codec"
	"github.com/gaissmai/bvgraph/internal/ring"
)

// Source is the sequential input a Writer consumes: adjacency lists in
// increasing node id order (spec §4.6's "lender over adjacency lists").
type Source interface {
	Next() (node int64, succ []int64, ok bool)
}

// Writer implements spec §4.6: it consumes a Source, maintains a
// back-reference ring and a bit-stream writer, and records each record's
// start position for the offsets index.
type Writer struct {
	cfg Config
	buf *ring.Buffer
	w   *bitio.Writer

	offsets    []uint64
	outdegrees []int
	maxDepth   int
	nodes      int64
	arcs       int64
}

// Option configures a Writer at construction.
type Option func(*Writer)

// WithCodes overrides the default field-code configuration wholesale.
func WithCodes(cfg Config) Option {
	return func(w *Writer) { w.cfg = cfg }
}

// WithConfig is an alias for WithCodes, kept for callers that think of
// the per-field code assignment as "the config" rather than "the codes".
func WithConfig(cfg Config) Option {
	return WithCodes(cfg)
}

// WithWindow overrides the back-reference window size W.
func WithWindow(w int) Option {
	return func(wr *Writer) { wr.cfg.Window = w }
}

// WithMaxRefCount overrides the maximum reference chain depth; 0 disables
// references.
func WithMaxRefCount(n int) Option {
	return func(w *Writer) { w.cfg.MaxRefCount = n }
}

// WithMinIntervalLength overrides the minimum run length extracted as an
// interval; <= 0 disables interval extraction entirely.
func WithMinIntervalLength(n int) Option {
	return func(w *Writer) { w.cfg.MinIntervalLength = n }
}

// NewWriter returns a Writer ready to consume a Source.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		cfg: DefaultConfig(),
		w:   bitio.NewWriter(1 << 20),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.buf = ring.NewBuffer(w.cfg.Window)
	return w
}

// Write consumes src to completion, recording an offset per node plus a
// final offset at the end of the stream (spec §4.3's "one gap per node
// plus a final gap to the end of the stream").
func (w *Writer) Write(src Source) error {
	depths := make(map[int64]int)
	depth := func(u int64) int { return depths[u] }

	for {
		v, succ, ok := src.Next()
		if !ok {
			break
		}

		w.offsets = append(w.offsets, w.w.BitLen())

		d, err := codec.Encode(w.w, w.cfg, w.buf, v, succ, depth)
		if err != nil {
			return err
		}
		depths[v] = d
		if d > w.maxDepth {
			w.maxDepth = d
		}

		s := w.buf.Take()
		s = append(s, succ...)
		w.buf.Push(v, s)

		w.outdegrees = append(w.outdegrees, len(succ))
		w.nodes++
		w.arcs += int64(len(succ))
	}
	w.offsets = append(w.offsets, w.w.BitLen())

	return nil
}

// Bytes returns the finished bit stream.
func (w *Writer) Bytes() []byte {
	return w.w.Bytes()
}

// Offsets returns the recorded record start positions, one per node plus a
// final sentinel at the end of the stream.
func (w *Writer) Offsets() []uint64 {
	return w.offsets
}

// Outdegrees returns the recorded per-node outdegrees, in node order, ready
// for BuildDCFIndex (spec §3's degree-cumulative function).
func (w *Writer) Outdegrees() []int {
	return w.outdegrees
}

// Properties returns the metadata describing the stream just written, for
// WriteProperties.
func (w *Writer) Properties() Properties {
	return Properties{
		Nodes:             w.nodes,
		Arcs:              w.arcs,
		WindowSize:        w.cfg.Window,
		MaxRefCount:       w.cfg.MaxRefCount,
		MinIntervalLength: w.cfg.MinIntervalLength,
		Codes:             w.cfg,
		ByteOrder:         LittleEndian,
		Length:            w.w.BitLen(),
	}
}
