// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package ring

// Buffer holds the last W+1 adjacency lists pushed into it, indexed by
// absolute node id. Get reports (nil, false) for a node id not among the
// last W+1 pushed ids; the encoder skips such candidates, and the decoder
// hands such references to its resolve callback.
//
// The zero value is not usable; construct with NewBuffer.
type Buffer struct {
	window int64 // W+1
	slots  [][]int64
	ids    []int64
	pool   *slicePool
}

// NewBuffer returns a Buffer sized to hold w+1 adjacency lists, matching a
// compression/decompression window of w.
func NewBuffer(w int) *Buffer {
	n := w + 1
	b := &Buffer{
		window: int64(n),
		slots:  make([][]int64, n),
		ids:    make([]int64, n),
		pool:   newSlicePool(),
	}
	for i := range b.ids {
		b.ids[i] = -1
	}
	return b
}

// Window returns the W the Buffer was constructed with.
func (b *Buffer) Window() int {
	return int(b.window) - 1
}

// Take returns an empty, recycled []int64 buffer ready to be filled with
// the successors of a node about to be pushed.
func (b *Buffer) Take() []int64 {
	return b.pool.Get()
}

// Push stores succ as the adjacency list of node v, overwriting whatever
// previously occupied slot v mod (W+1) and returning its backing buffer to
// the pool.
func (b *Buffer) Push(v int64, succ []int64) {
	i := b.slot(v)
	if old := b.slots[i]; old != nil {
		b.pool.Put(old)
	}
	b.slots[i] = succ
	b.ids[i] = v
}

// Get returns the adjacency list stored for node v and true, or (nil,
// false) if v falls outside the current window.
func (b *Buffer) Get(v int64) ([]int64, bool) {
	i := b.slot(v)
	if b.ids[i] != v {
		return nil, false
	}
	return b.slots[i], true
}

func (b *Buffer) slot(v int64) int64 {
	m := v % b.window
	if m < 0 {
		m += b.window
	}
	return m
}
