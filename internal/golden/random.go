// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package golden generates random graphs, arc streams and code
// configurations for tests, always threading an explicit *rand.Rand rather
// than relying on a package-global source, so test failures reproduce from
// a logged seed.
package golden

import (
	"math/rand/v2"

	"github.com/gaissmai/bvgraph/internal/bitio"
	"github.com/gaissmai/bvgraph/internal/codec"
)

// RandomGraph returns n nodes with a random, loop-free, simple successor
// relation: each ordered pair (u, v), u != v, is included independently
// with probability p. Every successor list is sorted and duplicate-free.
func RandomGraph(prng *rand.Rand, n int, p float64) [][]int64 {
	graph := make([][]int64, n)
	for u := range graph {
		var succ []int64
		for v := 0; v < n; v++ {
			if v == u {
				continue
			}
			if prng.Float64() < p {
				succ = append(succ, int64(v))
			}
		}
		graph[u] = succ
	}
	return graph
}

// RandomGraphWithRuns is like RandomGraph but additionally injects, in a
// fraction of nodes, a run of runLen consecutive successors (minus u
// itself when the run covers u, which splits it in two) — exercising the
// interval-extraction path rather than leaving every test graph to chance.
func RandomGraphWithRuns(prng *rand.Rand, n int, p float64, runLen int) [][]int64 {
	graph := RandomGraph(prng, n, p)
	for u := range graph {
		if prng.IntN(3) != 0 || n <= runLen+1 {
			continue
		}
		start := prng.IntN(n - runLen)
		run := make([]int64, 0, runLen)
		for k := 0; k < runLen; k++ {
			v := start + k
			if v == u {
				continue
			}
			run = append(run, int64(v))
		}
		merged := append(append([]int64{}, graph[u]...), run...)
		graph[u] = dedupSorted(merged)
	}
	return graph
}

func dedupSorted(s []int64) []int64 {
	sortInt64s(s)
	out := s[:0]
	var prev int64 = -1
	first := true
	for _, v := range s {
		if !first && v == prev {
			continue
		}
		out = append(out, v)
		prev = v
		first = false
	}
	return out
}

func sortInt64s(s []int64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// RandomArcs flattens a graph into a shuffled stream of (tail, head) arcs,
// the input shape an external sorter (spec §4.8) or arc-list transform
// (spec §4.9) consumes before the arcs are grouped back by tail.
func RandomArcs(prng *rand.Rand, graph [][]int64) [][2]int64 {
	var arcs [][2]int64
	for u, succ := range graph {
		for _, v := range succ {
			arcs = append(arcs, [2]int64{int64(u), v})
		}
	}
	prng.Shuffle(len(arcs), func(i, j int) {
		arcs[i], arcs[j] = arcs[j], arcs[i]
	})
	return arcs
}

// codeFamilies lists every family RandomCode may draw from.
var codeFamilies = []bitio.Family{bitio.Unary, bitio.Gamma, bitio.Delta, bitio.Zeta, bitio.Golomb}

// RandomCode returns a syntactically valid, randomly chosen Code.
func RandomCode(prng *rand.Rand) bitio.Code {
	family := codeFamilies[prng.IntN(len(codeFamilies))]
	switch family {
	case bitio.Zeta:
		return bitio.Code{Family: bitio.Zeta, Param: uint64(1 + prng.IntN(7))}
	case bitio.Golomb:
		return bitio.Code{Family: bitio.Golomb, Param: uint64(1 + prng.IntN(32))}
	default:
		return bitio.Code{Family: family}
	}
}

// RandomConfig returns a structurally valid codec.Config with every field
// code drawn independently via RandomCode, exercising the "codec must
// accept any of the code families above" requirement of spec §4.2.
func RandomConfig(prng *rand.Rand) codec.Config {
	return codec.Config{
		Outdegree:         RandomCode(prng),
		ReferenceOffset:   RandomCode(prng),
		BlockCount:        RandomCode(prng),
		Block:             RandomCode(prng),
		IntervalCount:     RandomCode(prng),
		IntervalStart:     RandomCode(prng),
		IntervalLength:    RandomCode(prng),
		FirstResidual:     RandomCode(prng),
		Residual:          RandomCode(prng),
		Window:            1 + prng.IntN(8),
		MinIntervalLength: 2 + prng.IntN(4),
		MaxRefCount:       1 + prng.IntN(4),
	}
}
