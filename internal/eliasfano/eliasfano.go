// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package eliasfano implements the quasi-succinct monotone index of spec
// §4.3: a sequence of non-decreasing offsets compressed to roughly
// 2 + ceil(log2(U/n)) bits per entry via the low-bits/high-bits split, with
// the high bits held in the teacher's bitset package. Select(i) scans the
// high-bits bitset from its start with NextSet, so its cost grows with i;
// it is not constant-time. Rank(x) is a binary search making O(log n)
// Select calls.
package eliasfano

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/gaissmai/bvgraph/internal/bitset"
)

// ErrNotMonotone is returned by Push when the next value would make the
// sequence decrease, violating the append-only construction contract of
// spec §4.3, or when more values are pushed than the n given to New.
var ErrNotMonotone = errors.New("eliasfano: values must be pushed non-decreasing")

// Index is a quasi-succinct representation of a non-decreasing sequence of
// n values in [0, U]. The low lowBits bits of every value are packed
// densely; the high bits are unary-coded as a single bitset.BitSet of
// length n + (U>>lowBits) + 1, where Select(i) locates the i-th set bit via
// bitset.BitSet.NextSet.
type Index struct {
	n       int
	u       uint64
	lowBits uint

	low    []uint64 // packed low bits, lowBits wide each
	high   bitset.BitSet
	lastV  uint64
	pushed int
}

// New returns an Index builder for n values known in advance to lie in
// [0, u]. Values must then be pushed in non-decreasing order via Push,
// exactly n times, before the Index is queried with Select or Rank.
func New(n int, u uint64) *Index {
	lowBits := uint(0)
	if n > 0 {
		avg := u / uint64(n)
		if avg > 0 {
			lowBits = uint(bits.Len64(avg))
		}
	}

	idx := &Index{
		n:       n,
		u:       u,
		lowBits: lowBits,
		low:     make([]uint64, 0, n),
		high:    make(bitset.BitSet, 0, (n+int(u>>lowBits)+1+63)/64),
	}
	return idx
}

// Push appends the next value of the monotone sequence.
func (idx *Index) Push(v uint64) error {
	if idx.pushed > 0 && v < idx.lastV {
		return ErrNotMonotone
	}
	if idx.pushed >= idx.n {
		return ErrNotMonotone
	}

	low := v & (uint64(1)<<idx.lowBits - 1)
	high := v >> idx.lowBits

	idx.low = append(idx.low, low)

	// unary-code high in the upper-bits bitset: `high` zero-ish gaps then a
	// set bit, tracked via absolute position = high + pushed (the standard
	// Elias-Fano upper-array layout). BitSet.Set grows the backing slice as
	// needed, so no separate capacity bookkeeping is required here.
	pos := high + uint64(idx.pushed)
	idx.high.Set(uint(pos))

	idx.lastV = v
	idx.pushed++
	return nil
}

// Len returns the number of indexed values.
func (idx *Index) Len() int { return idx.n }

// Select returns the i-th value of the sequence (0-based), via
// bitset.BitSet.NextSet walking the unary-coded high bits.
func (idx *Index) Select(i int) uint64 {
	// find the (i+1)-th set bit in idx.high: its position minus i is the
	// high part of value i; the low part comes straight from idx.low.
	high := idx.nthSetBit(i) - uint64(i)
	low := idx.low[i]
	return high<<idx.lowBits | low
}

func (idx *Index) nthSetBit(i int) uint64 {
	var pos uint
	ok := true
	for count := 0; ; count++ {
		pos, ok = idx.high.NextSet(pos)
		if !ok {
			return uint64(pos)
		}
		if count == i {
			return uint64(pos)
		}
		pos++
	}
}

// Rank returns the number of values strictly less than x.
func (idx *Index) Rank(x uint64) int {
	lo, hi := 0, idx.n
	for lo < hi {
		mid := (lo + hi) / 2
		if idx.Select(mid) < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// efHeaderLen is the fixed-size header MarshalBinary writes ahead of the
// packed low/high arrays: n, u, lowBits, len(high), each a little-endian
// uint64.
const efHeaderLen = 4 * 8

// MarshalBinary encodes the index in the compact on-disk layout of spec
// §6's B.ef: a small fixed header followed by the packed low-bits array and
// the high-bits bitset's backing words, all little-endian. B.dcf reuses
// this exact layout (spec §6: "same encoding as .ef").
func (idx *Index) MarshalBinary() ([]byte, error) {
	buf := make([]byte, efHeaderLen, efHeaderLen+8*(len(idx.low)+len(idx.high)))
	binary.LittleEndian.PutUint64(buf[0:8], uint64(idx.n))
	binary.LittleEndian.PutUint64(buf[8:16], idx.u)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(idx.lowBits))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(len(idx.high)))

	for _, w := range idx.low {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	for _, w := range idx.high {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	return buf, nil
}

// UnmarshalBinary decodes an Index previously written by MarshalBinary.
func UnmarshalBinary(data []byte) (*Index, error) {
	if len(data) < efHeaderLen {
		return nil, fmt.Errorf("eliasfano: header truncated, got %d bytes", len(data))
	}

	n := int(binary.LittleEndian.Uint64(data[0:8]))
	u := binary.LittleEndian.Uint64(data[8:16])
	lowBits := uint(binary.LittleEndian.Uint64(data[16:24]))
	highLen := int(binary.LittleEndian.Uint64(data[24:32]))

	data = data[efHeaderLen:]
	if len(data) < 8*(n+highLen) {
		return nil, fmt.Errorf("eliasfano: body truncated, need %d words, got %d bytes", n+highLen, len(data))
	}

	low := make([]uint64, n)
	for i := range low {
		low[i] = binary.LittleEndian.Uint64(data[8*i:])
	}
	data = data[8*n:]

	high := make(bitset.BitSet, highLen)
	for i := range high {
		high[i] = binary.LittleEndian.Uint64(data[8*i:])
	}

	return &Index{n: n, u: u, lowBits: lowBits, low: low, high: high, pushed: n}, nil
}
