// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package codec_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/gaissmai/bvgraph/internal/bitio"
	"github.com/gaissmai/bvgraph/internal/codec"
	"github.com/gaissmai/bvgraph/internal/golden"
	"github.com/gaissmai/bvgraph/internal/ring"
)

// roundTrip encodes and decodes graph under cfg, returning the decoded
// adjacency lists for comparison. Kept external to package codec (rather
// than reusing record_test.go's unexported helpers) since internal/golden
// itself imports internal/codec: a white-box test file in package codec
// that also imported internal/golden would be an import cycle.
func roundTrip(t *testing.T, cfg codec.Config, graph [][]int64) [][]int64 {
	t.Helper()

	buf := ring.NewBuffer(cfg.Window)
	depths := make([]int, len(graph))
	depth := func(u int64) int { return depths[u] }

	w := bitio.NewWriter(1024)
	for v, succ := range graph {
		d, err := codec.Encode(w, cfg, buf, int64(v), succ, depth)
		if err != nil {
			t.Fatalf("Encode(%d): %v", v, err)
		}
		depths[v] = d

		s := buf.Take()
		s = append(s, succ...)
		buf.Push(int64(v), s)
	}

	buf = ring.NewBuffer(cfg.Window)
	depths = make([]int, len(graph))
	r := bitio.NewReader(w.Bytes())
	got := make([][]int64, len(graph))
	for v := range graph {
		succ, d, err := codec.Decode(r, cfg, buf, int64(v), depth, nil)
		if err != nil {
			t.Fatalf("Decode(%d): %v", v, err)
		}
		depths[v] = d
		got[v] = succ

		s := buf.Take()
		s = append(s, succ...)
		buf.Push(int64(v), s)
	}
	return got
}

// TestGoldenRoundTripRandomConfigs exercises the full cross-product of
// random field codes (internal/golden.RandomConfig) against random graphs
// with injected interval runs (internal/golden.RandomGraphWithRuns), rather
// than record_test.go's fixed DefaultConfig trials.
func TestGoldenRoundTripRandomConfigs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(11, 22))
	for trial := 0; trial < 30; trial++ {
		cfg := golden.RandomConfig(rng)
		n := 5 + rng.IntN(30)
		graph := golden.RandomGraphWithRuns(rng, n, 0.2, cfg.MinIntervalLength+1)

		got := roundTrip(t, cfg, graph)
		for v := range graph {
			if len(graph[v]) == 0 && len(got[v]) == 0 {
				continue
			}
			if !slices.Equal(got[v], graph[v]) {
				t.Errorf("trial %d, node %d: got %v, want %v", trial, v, got[v], graph[v])
			}
		}
	}
}

// FuzzRoundTrip seeds a PCG generator from the fuzzer's own inputs so every
// failing case reproduces deterministically from the corpus entry, then
// drives a random config and graph through the same round trip.
func FuzzRoundTrip(f *testing.F) {
	f.Add(uint64(1), uint64(2), 8, 0.2)
	f.Add(uint64(7), uint64(9), 20, 0.35)

	f.Fuzz(func(t *testing.T, seed1, seed2 uint64, n int, p float64) {
		if n < 1 || n > 60 {
			t.Skip("node count out of range")
		}
		if p < 0 || p > 1 {
			t.Skip("probability out of range")
		}

		rng := rand.New(rand.NewPCG(seed1, seed2))
		cfg := golden.RandomConfig(rng)
		graph := golden.RandomGraphWithRuns(rng, n, p, cfg.MinIntervalLength+1)

		got := roundTrip(t, cfg, graph)
		for v := range graph {
			if len(graph[v]) == 0 && len(got[v]) == 0 {
				continue
			}
			if !slices.Equal(got[v], graph[v]) {
				t.Fatalf("node %d: got %v, want %v", v, got[v], graph[v])
			}
		}
	})
}
