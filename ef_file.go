// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"io"

	"github.com/gaissmai/bvgraph/internal/eliasfano"
)

// WriteOffsetsIndexFile writes the B.ef file of spec §6: the compact
// quasi-succinct offsets index, generated from B.offsets (or from B.graph
// directly) rather than read back on every open the way the gap-coded
// B.offsets fallback is.
func WriteOffsetsIndexFile(w io.Writer, idx *OffsetsIndex) error {
	data, err := idx.ef.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadOffsetsIndexFile reads back a B.ef file written by
// WriteOffsetsIndexFile.
func ReadOffsetsIndexFile(data []byte) (*OffsetsIndex, error) {
	ef, err := eliasfano.UnmarshalBinary(data)
	if err != nil {
		return nil, err
	}
	return &OffsetsIndex{ef: ef}, nil
}
