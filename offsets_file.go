// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"io"

	"github.com/gaissmai/bvgraph/internal/bitio"
)

// WriteOffsetsFile writes the B.offsets fallback index of spec §6: the
// first offset absolute, every later one gap-coded against its
// predecessor, both via Elias γ since record starts grow roughly
// geometrically with node id for well-compressed graphs.
func WriteOffsetsFile(w io.Writer, offsets []uint64) error {
	bw := bitio.NewWriter(len(offsets) * 4)
	var prev uint64
	for i, o := range offsets {
		gap := o
		if i > 0 {
			gap = o - prev
		}
		if err := bw.WriteCode(bitio.Code{Family: bitio.Gamma}, gap); err != nil {
			return err
		}
		prev = o
	}
	_, err := w.Write(bw.Bytes())
	return err
}

// ReadOffsetsFile reads back a B.offsets file written by WriteOffsetsFile,
// given the number of offsets it holds (numNodes + 1, per spec §4.3's
// "one gap per node plus a final gap to the end of the stream").
func ReadOffsetsFile(data []byte, count int) ([]uint64, error) {
	br := bitio.NewReader(data)
	offsets := make([]uint64, count)
	var prev uint64
	for i := 0; i < count; i++ {
		gap, err := br.ReadCode(bitio.Code{Family: bitio.Gamma})
		if err != nil {
			return nil, err
		}
		offsets[i] = prev + gap
		prev = offsets[i]
	}
	return offsets, nil
}
