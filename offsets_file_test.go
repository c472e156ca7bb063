// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"bytes"
	"slices"
	"testing"
)

func TestOffsetsFileRoundTrip(t *testing.T) {
	t.Parallel()

	offsets := []uint64{0, 12, 12, 47, 203, 203, 9001}

	var buf bytes.Buffer
	if err := WriteOffsetsFile(&buf, offsets); err != nil {
		t.Fatalf("WriteOffsetsFile: %v", err)
	}

	got, err := ReadOffsetsFile(buf.Bytes(), len(offsets))
	if err != nil {
		t.Fatalf("ReadOffsetsFile: %v", err)
	}
	if !slices.Equal(got, offsets) {
		t.Errorf("got %v, want %v", got, offsets)
	}
}
