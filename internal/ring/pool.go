// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package ring implements the circular back-reference buffer of spec §4.1:
// a bounded ring of the most recently emitted (or decoded) adjacency lists,
// addressable by absolute node id, shared by the writer and the sequential
// reader to resolve references within the compression window.
package ring

import (
	"sync"
	"sync/atomic"
)

// slicePool is a type-safe wrapper around sync.Pool, specialized for
// recycling []int64 adjacency buffers.
//
// It efficiently reuses buffer memory and tracks statistics on allocations
// and active use for debugging and performance tuning.
type slicePool struct {
	sync.Pool // embedded sync.Pool for []int64

	// TODO: remove it once the code is stable.
	totalAllocated atomic.Int64 // total number of buffers ever allocated
	currentLive    atomic.Int64 // number of buffers currently in use
}

// newSlicePool creates and returns a new pool of []int64 buffers.
func newSlicePool() *slicePool {
	p := &slicePool{}
	p.New = func() any {
		p.totalAllocated.Add(1) // TODO: remove it once the code is stable.

		return make([]int64, 0, 16)
	}
	return p
}

// Get retrieves a cleared []int64 buffer from the pool, or allocates one.
func (p *slicePool) Get() []int64 {
	p.currentLive.Add(1) // TODO: remove it once the code is stable.

	return p.Pool.Get().([]int64)[:0]
}

// Put returns a buffer to the pool for potential reuse.
func (p *slicePool) Put(s []int64) {
	if s == nil {
		return
	}
	p.currentLive.Add(-1) // TODO: remove it once the code is stable.

	p.Pool.Put(s) //nolint:staticcheck // slice header boxing is intentional and cheap here
}

// Stats returns the number of currently live (checked-out) buffers and the
// total number of buffers ever allocated by this pool.
//
// TODO: remove it once the code is stable.
func (p *slicePool) Stats() (live int64, total int64) {
	return p.currentLive.Load(), p.totalAllocated.Load()
}
