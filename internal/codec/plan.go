// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package codec

import "github.com/gaissmai/bvgraph/internal/bitio"

// interval is a maximal run of consecutive successors, (start, length),
// extracted when length >= MIL (spec §4.2 step 6).
type interval struct {
	start  int64
	length int64
}

// plan is the fully-decided shape of one encoded record: which reference
// (if any) to use, the alternating copy/skip block lengths of its mask,
// the extracted intervals and the leftover residuals. Building a plan
// never writes bits; emit (record.go) turns a plan into bits, and cost
// (below) estimates from a plan the bit count emit would produce (exact
// except for ζ and Golomb fields, see bitio.CodeLen), so the same plan
// decides both "how much would this cost" and "now write it".
type plan struct {
	ref       int64
	blocks    []int
	intervals []interval
	residuals []int64
}

// buildPlan decides the copy-mask blocks, intervals and residuals for
// encoding succ against referenced list refSucc at distance r (r == 0
// means "no reference").
func buildPlan(cfg Config, succ, refSucc []int64, r int64) plan {
	var remaining []int64
	var blocks []int

	if r == 0 {
		remaining = succ
	} else {
		blocks, remaining = copyBlocksAndRemainder(refSucc, succ)
	}

	intervals, residuals := extractIntervals(remaining, int64(cfg.MinIntervalLength))
	return plan{ref: r, blocks: blocks, intervals: intervals, residuals: residuals}
}

// copyBlocksAndRemainder walks refSucc and succ in lockstep (both strictly
// increasing) to decide, for every element of refSucc, whether it also
// occurs in succ ("kept"), run-length-encodes that boolean sequence into
// alternating copy/skip block lengths (first block is a copy run, possibly
// of length 0), and returns succ \ refSucc as remaining.
func copyBlocksAndRemainder(refSucc, succ []int64) (blocks []int, remaining []int64) {
	kept := make([]bool, len(refSucc))

	i, j := 0, 0
	for i < len(refSucc) && j < len(succ) {
		switch {
		case refSucc[i] == succ[j]:
			kept[i] = true
			i++
			j++
		case refSucc[i] < succ[j]:
			i++
		default:
			remaining = append(remaining, succ[j])
			j++
		}
	}
	remaining = append(remaining, succ[j:]...)

	return runLengthEncode(kept), remaining
}

func runLengthEncode(kept []bool) []int {
	if len(kept) == 0 {
		return nil
	}

	var blocks []int
	cur := kept[0]
	if !cur {
		blocks = append(blocks, 0)
	}

	count := 0
	for _, k := range kept {
		if k == cur {
			count++
			continue
		}
		blocks = append(blocks, count)
		cur = k
		count = 1
	}
	return append(blocks, count)
}

// extractIntervals scans the strictly increasing remaining for maximal
// runs of consecutive integers of length >= mil, extracting them as
// intervals; everything else becomes a residual, in its original
// increasing order. mil <= 0 disables interval extraction (spec §9).
func extractIntervals(remaining []int64, mil int64) (intervals []interval, residuals []int64) {
	if mil <= 0 {
		return nil, remaining
	}

	i := 0
	for i < len(remaining) {
		j := i
		for j+1 < len(remaining) && remaining[j+1] == remaining[j]+1 {
			j++
		}

		runLen := int64(j - i + 1)
		if runLen >= mil {
			intervals = append(intervals, interval{start: remaining[i], length: runLen})
		} else {
			residuals = append(residuals, remaining[i:j+1]...)
		}
		i = j + 1
	}
	return intervals, residuals
}

// applyBlocks replays the alternating copy/skip blocks against refSucc to
// recover the kept successors, in increasing order.
func applyBlocks(refSucc []int64, blocks []int) []int64 {
	var kept []int64

	pos := 0
	copyPhase := true
	for _, bl := range blocks {
		if copyPhase {
			kept = append(kept, refSucc[pos:pos+bl]...)
		}
		pos += bl
		copyPhase = !copyPhase
	}
	return kept
}

// cost returns the number of bits emit(w, cfg, v, p) would write, as
// summed by bitio.CodeLen (which can count a ζ or Golomb field one bit
// short), without writing anything — used to rank reference candidates
// (spec §4.2 step 2).
func (p plan) cost(cfg Config, v int64) int {
	n := bitio.CodeLen(cfg.ReferenceOffset, uint64(p.ref))

	if p.ref > 0 {
		n += bitio.CodeLen(cfg.BlockCount, uint64(len(p.blocks)))
		for i := 0; i < len(p.blocks)-1; i++ {
			n += bitio.CodeLen(cfg.Block, uint64(p.blocks[i]))
		}
	}

	n += bitio.CodeLen(cfg.IntervalCount, uint64(len(p.intervals)))
	var prevStart, prevLen int64
	for i, iv := range p.intervals {
		if i == 0 {
			n += bitio.CodeLen(cfg.IntervalStart, zigzag(iv.start, v))
		} else {
			gap := iv.start - (prevStart + prevLen) - 1
			n += bitio.CodeLen(cfg.IntervalStart, uint64(gap))
		}
		n += bitio.CodeLen(cfg.IntervalLength, uint64(iv.length-int64(cfg.MinIntervalLength)))
		prevStart, prevLen = iv.start, iv.length
	}

	var prevRes int64
	for i, res := range p.residuals {
		if i == 0 {
			n += bitio.CodeLen(cfg.FirstResidual, zigzag(res, v))
		} else {
			gap := res - prevRes - 1
			n += bitio.CodeLen(cfg.Residual, uint64(gap))
		}
		prevRes = res
	}

	return n
}
