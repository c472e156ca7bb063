// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bitio implements the bit-stream primitives the BV codec core
// consumes as an external collaborator: unary, γ (gamma), δ (delta),
// ζₖ (zeta) and Golomb codes, written and read MSB-first within each byte,
// independent of host endianness.
//
// The convention is to read and write bits from the most significant bit
// to the least significant bit of each byte. For example the byte 0x76
// (0b0111_0110) yields, bit by bit: 0,1,1,1,0,1,1,0. A unary code of x is
// x zero bits followed by a terminating one bit; reading that same byte
// as a sequence of unary codes yields 1,0,0,1,0,... (one zero then a one,
// then two ones in a row each encoding 0, then one zero and a one, ...).
//
//	data := []byte{0x76, 0x60}
//	r := NewReader(data)
//	r.ReadUnary() // 1
//	r.ReadUnary() // 0
//	r.ReadUnary() // 0
//	r.ReadUnary() // 1
//
// Bits are read and written one byte at a time, never as []uint32/[]uint64
// words, so the bit-level encoding here is byte-order agnostic by
// construction.
package bitio

import (
	"errors"
)

// ErrShortRead is returned when a read runs past the end of the stream
// mid-code.
var ErrShortRead = errors.New("bitio: short read")

// ErrUnknownCode is returned when a Code names an unsupported family or an
// out-of-range parameter (Zeta k outside 1..7, Golomb b == 0).
var ErrUnknownCode = errors.New("bitio: unknown code")

// Family identifies one of the code families the codec core may choose
// per field (outdegree, reference offset, block count, ...).
type Family uint8

const (
	Unary Family = iota
	Gamma
	Delta
	Zeta
	Golomb
)

func (f Family) String() string {
	switch f {
	case Unary:
		return "UNARY"
	case Gamma:
		return "GAMMA"
	case Delta:
		return "DELTA"
	case Zeta:
		return "ZETA"
	case Golomb:
		return "GOLOMB"
	default:
		return "UNKNOWN"
	}
}

// Code names a concrete code: a Family plus the parameter the family needs
// (k for Zeta, the modulus b for Golomb; ignored otherwise).
type Code struct {
	Family Family
	Param  uint64
}

// Valid reports whether c names a code this package can read and write.
func (c Code) Valid() bool {
	switch c.Family {
	case Unary, Gamma, Delta:
		return true
	case Zeta:
		return c.Param >= 1 && c.Param <= 7
	case Golomb:
		return c.Param >= 1
	default:
		return false
	}
}
