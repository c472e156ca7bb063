// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package codec

import (
	"fmt"
	"slices"

	"github.com/gaissmai/bvgraph/internal/bitio"
	"github.com/gaissmai/bvgraph/internal/ring"
)

// RefDepth reports how many times node u's own record is itself encoded by
// reference, so chooseReference can enforce MaxRefCount (spec §4.2 step 3).
type RefDepth func(u int64) int

// Encode writes one adjacency-list record for node v to w: outdegree,
// chosen reference, copy blocks, intervals and residuals, in that order
// (spec §4.2). buf supplies the candidate reference lists within the
// configured window; depth reports each candidate's current chain depth.
// It returns the reference depth of the record just written (0 if it used
// no reference, else 1+depth of the node it referenced).
func Encode(w *bitio.Writer, cfg Config, buf *ring.Buffer, v int64, succ []int64, depth RefDepth) (int, error) {
	if len(succ) == 0 {
		if err := w.WriteCode(cfg.Outdegree, 0); err != nil {
			return 0, err
		}
		return 0, nil
	}

	if err := w.WriteCode(cfg.Outdegree, uint64(len(succ))); err != nil {
		return 0, err
	}

	r, p := chooseReference(cfg, buf, v, succ, depth)
	if err := emit(w, cfg, v, p); err != nil {
		return 0, err
	}

	if r == 0 {
		return 0, nil
	}
	return depth(v-r) + 1, nil
}

// chooseReference ranks r == 0 (no reference) against every candidate
// distance d in 1..cfg.Window whose node is both still resolvable in buf
// and within the chain-depth budget, and returns the strictly cheapest
// plan. Ties favor the smaller r because the loop only replaces the
// incumbent on strict improvement.
func chooseReference(cfg Config, buf *ring.Buffer, v int64, succ []int64, depth RefDepth) (int64, plan) {
	best := buildPlan(cfg, succ, nil, 0)
	bestCost := best.cost(cfg, v)
	bestR := int64(0)

	maxD := int64(cfg.Window)
	if v < maxD {
		maxD = v
	}

	for d := int64(1); d <= maxD; d++ {
		u := v - d
		if depth(u) > cfg.MaxRefCount-1 {
			continue
		}
		refSucc, ok := buf.Get(u)
		if !ok {
			continue
		}

		p := buildPlan(cfg, succ, refSucc, d)
		if c := p.cost(cfg, v); c < bestCost {
			bestCost = c
			bestR = d
			best = p
		}
	}

	return bestR, best
}

// emit writes the bit representation of an already-decided plan: the
// reference offset, block count and block lengths (only when referencing),
// interval count/starts/lengths, and residual gaps. It mirrors plan.cost
// field for field.
func emit(w *bitio.Writer, cfg Config, v int64, p plan) error {
	if err := w.WriteCode(cfg.ReferenceOffset, uint64(p.ref)); err != nil {
		return err
	}

	if p.ref > 0 {
		if err := w.WriteCode(cfg.BlockCount, uint64(len(p.blocks))); err != nil {
			return err
		}
		for i := 0; i < len(p.blocks)-1; i++ {
			if err := w.WriteCode(cfg.Block, uint64(p.blocks[i])); err != nil {
				return err
			}
		}
	}

	if err := w.WriteCode(cfg.IntervalCount, uint64(len(p.intervals))); err != nil {
		return err
	}
	var prevStart, prevLen int64
	for i, iv := range p.intervals {
		var err error
		if i == 0 {
			err = w.WriteCode(cfg.IntervalStart, zigzag(iv.start, v))
		} else {
			gap := iv.start - (prevStart + prevLen) - 1
			err = w.WriteCode(cfg.IntervalStart, uint64(gap))
		}
		if err != nil {
			return err
		}
		if err := w.WriteCode(cfg.IntervalLength, uint64(iv.length-int64(cfg.MinIntervalLength))); err != nil {
			return err
		}
		prevStart, prevLen = iv.start, iv.length
	}

	var prevRes int64
	for i, res := range p.residuals {
		var err error
		if i == 0 {
			err = w.WriteCode(cfg.FirstResidual, zigzag(res, v))
		} else {
			gap := res - prevRes - 1
			err = w.WriteCode(cfg.Residual, uint64(gap))
		}
		if err != nil {
			return err
		}
		prevRes = res
	}

	return nil
}

// Decode reads one adjacency-list record for node v from r: outdegree,
// reference, blocks, intervals and residuals, merging them back into the
// sorted successor list. resolve is consulted when the chosen reference
// falls outside the ring's window (spec §4.4's out-of-window indirection,
// used by the random-access reader). It returns the reference depth of
// the record just decoded, same meaning as Encode's.
func Decode(r *bitio.Reader, cfg Config, buf *ring.Buffer, v int64, depth RefDepth, resolve func(u int64) ([]int64, error)) ([]int64, int, error) {
	outdegree, err := r.ReadCode(cfg.Outdegree)
	if err != nil {
		return nil, 0, err
	}
	if outdegree == 0 {
		return nil, 0, nil
	}

	ref, err := r.ReadCode(cfg.ReferenceOffset)
	if err != nil {
		return nil, 0, err
	}
	if int64(ref) > int64(cfg.Window) || int64(ref) > v {
		return nil, 0, fmt.Errorf("%w: node %d distance %d", ErrReferenceOutOfRange, v, ref)
	}

	var kept []int64
	var refDepth int
	if ref > 0 {
		u := v - int64(ref)
		refSucc, ok := buf.Get(u)
		if !ok {
			if resolve == nil {
				return nil, 0, fmt.Errorf("%w: node %d", ErrReferenceUnresolved, u)
			}
			refSucc, err = resolve(u)
			if err != nil {
				return nil, 0, err
			}
		}

		blocks, err := decodeBlocks(r, cfg, len(refSucc))
		if err != nil {
			return nil, 0, err
		}
		kept = applyBlocks(refSucc, blocks)
		refDepth = depth(u) + 1
	}

	intervalCount, err := r.ReadCode(cfg.IntervalCount)
	if err != nil {
		return nil, 0, err
	}

	var expanded []int64
	var prevStart, prevLen int64
	for i := uint64(0); i < intervalCount; i++ {
		var start int64
		if i == 0 {
			z, err := r.ReadCode(cfg.IntervalStart)
			if err != nil {
				return nil, 0, err
			}
			start = unzigzag(z, v)
		} else {
			gap, err := r.ReadCode(cfg.IntervalStart)
			if err != nil {
				return nil, 0, err
			}
			start = prevStart + prevLen + 1 + int64(gap)
		}

		lraw, err := r.ReadCode(cfg.IntervalLength)
		if err != nil {
			return nil, 0, err
		}
		length := int64(lraw) + int64(cfg.MinIntervalLength)
		if length <= 0 {
			return nil, 0, fmt.Errorf("%w: interval length", ErrGapUnderflow)
		}

		for k := int64(0); k < length; k++ {
			expanded = append(expanded, start+k)
		}
		prevStart, prevLen = start, length
	}

	residualCount := int64(outdegree) - int64(len(kept)) - int64(len(expanded))
	if residualCount < 0 {
		return nil, 0, fmt.Errorf("%w: residual count", ErrGapUnderflow)
	}

	var residuals []int64
	var prevRes int64
	for i := int64(0); i < residualCount; i++ {
		var res int64
		if i == 0 {
			z, err := r.ReadCode(cfg.FirstResidual)
			if err != nil {
				return nil, 0, err
			}
			res = unzigzag(z, v)
		} else {
			gap, err := r.ReadCode(cfg.Residual)
			if err != nil {
				return nil, 0, err
			}
			res = prevRes + int64(gap) + 1
		}
		residuals = append(residuals, res)
		prevRes = res
	}

	succ := make([]int64, 0, outdegree)
	succ = append(succ, kept...)
	succ = append(succ, expanded...)
	succ = append(succ, residuals...)
	slices.Sort(succ)

	if uint64(len(succ)) != outdegree {
		return nil, 0, fmt.Errorf("%w: node %d got %d want %d", ErrOutdegreeMismatch, v, len(succ), outdegree)
	}

	return succ, refDepth, nil
}

// decodeBlocks reads the block count and all-but-last block lengths,
// deriving the implicit last block length from refLen (spec §4.2's
// "number of copy blocks is needed only to fix a parity", §4.4 decode).
func decodeBlocks(r *bitio.Reader, cfg Config, refLen int) ([]int, error) {
	count, err := r.ReadCode(cfg.BlockCount)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	blocks := make([]int, count)
	sum := 0
	for i := uint64(0); i < count-1; i++ {
		bl, err := r.ReadCode(cfg.Block)
		if err != nil {
			return nil, err
		}
		blocks[i] = int(bl)
		sum += int(bl)
	}

	last := refLen - sum
	if last < 0 {
		return nil, fmt.Errorf("%w: block lengths exceed reference length", ErrGapUnderflow)
	}
	blocks[count-1] = last

	return blocks, nil
}
