// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package codec implements the BV encoding of spec §4.2: mapping one
// adjacency list to/from a bit string using a chosen reference, copy
// blocks, interval runs and gap-coded residuals.
package codec

import "github.com/gaissmai/bvgraph/internal/bitio"

// Config names the nine independently configurable field codes plus the
// structural parameters (window, minimum interval length, max reference
// depth) of spec §3/§4.2.
type Config struct {
	Outdegree       bitio.Code
	ReferenceOffset bitio.Code
	BlockCount      bitio.Code
	Block           bitio.Code
	IntervalCount   bitio.Code
	IntervalStart   bitio.Code
	IntervalLength  bitio.Code
	FirstResidual   bitio.Code
	Residual        bitio.Code

	Window            int // W
	MinIntervalLength int // MIL; <= 0 disables interval extraction (spec §9 open question)
	MaxRefCount       int // maximum reference chain depth
}

// DefaultConfig returns the field code assignment the original WebGraph
// implementation defaults to for typical web graphs: unary for short,
// frequent small values, gamma for the outdegree and structural counts,
// and zeta(3) for the residual gaps, which tend to follow a power law.
func DefaultConfig() Config {
	return Config{
		Outdegree:         bitio.Code{Family: bitio.Gamma},
		ReferenceOffset:   bitio.Code{Family: bitio.Unary},
		BlockCount:        bitio.Code{Family: bitio.Gamma},
		Block:             bitio.Code{Family: bitio.Gamma},
		IntervalCount:     bitio.Code{Family: bitio.Gamma},
		IntervalStart:     bitio.Code{Family: bitio.Gamma},
		IntervalLength:    bitio.Code{Family: bitio.Gamma},
		FirstResidual:     bitio.Code{Family: bitio.Zeta, Param: 3},
		Residual:          bitio.Code{Family: bitio.Zeta, Param: 3},
		Window:            7,
		MinIntervalLength: 4,
		MaxRefCount:       3,
	}
}

// Fields returns the nine codes in the documented properties-file order
// (spec §6): outdegree, reference offset, block count, block, interval
// count, interval start, interval length, first residual, residual.
func (c Config) Fields() [9]bitio.Code {
	return [9]bitio.Code{
		c.Outdegree, c.ReferenceOffset, c.BlockCount, c.Block,
		c.IntervalCount, c.IntervalStart, c.IntervalLength,
		c.FirstResidual, c.Residual,
	}
}

// Valid reports whether every field names a code this package can read and
// write, and the structural parameters are sane.
func (c Config) Valid() bool {
	if c.Window < 0 || c.MaxRefCount < 0 {
		return false
	}
	for _, f := range c.Fields() {
		if !f.Valid() {
			return false
		}
	}
	return true
}
