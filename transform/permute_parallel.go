// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package transform

import (
	"golang.org/x/sync/errgroup"

	"github.com/gaissmai/bvgraph/internal/sorter"
)

// PermuteParallel is the splittable variant of Permute named by spec §4.10
// ("a splittable variant shards the input and runs k sorters in parallel,
// then merges their outputs") and §5.3. It partitions the n output nodes
// into k contiguous ranges by their permuted id π(u), routes each arc to
// the sorter owning π(u)'s range, and sorts all k shards concurrently via
// golang.org/x/sync/errgroup, one goroutine per shard with no concurrency
// limit, as ParallelWriter.Write does for its own shard fan-out. Because
// the k ranges are disjoint
// and already in ascending order, concatenating their k resulting
// iterators in range order reproduces the same (Src, Dst) order a single
// sorter would have produced, without a second k-way merge pass.
func PermuteParallel(src Source, n int64, perm []int64, k int, opts Options) (Lender, error) {
	if k <= 0 {
		k = 1
	}
	if int64(k) > n && n > 0 {
		k = int(n)
	}

	bounds := permuteShardBounds(n, k)
	sorters := make([]*sorter.Sorter, len(bounds)-1)
	for i := range sorters {
		sorters[i] = opts.sorter()
	}

	shardFor := func(pu int64) int {
		lo, hi := 0, len(sorters)
		for lo < hi {
			mid := (lo + hi) / 2
			if bounds[mid+1] <= pu {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return lo
	}

	for {
		u, succ, ok := src.Next()
		if !ok {
			break
		}
		pu := perm[u]
		shard := shardFor(pu)
		for _, v := range succ {
			if err := sorters[shard].Push(sorter.Arc{Src: pu, Dst: perm[v]}); err != nil {
				return nil, err
			}
		}
	}

	iters := make([]*sorter.Iterator, len(sorters))
	g := new(errgroup.Group)
	for i := range sorters {
		i := i
		g.Go(func() error {
			it, err := sorters[i].Close()
			if err != nil {
				return err
			}
			iters[i] = it
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shards := make([]*arcAdapter, len(iters))
	for i, it := range iters {
		shards[i] = fromSortedArcsRange(it, bounds[i], bounds[i+1])
	}
	return &multiRangeLender{shards: shards}, nil
}

// permuteShardBounds splits [0, n) into k contiguous ranges whose sizes
// differ by at most one, the first n%k ranges taking one extra node.
func permuteShardBounds(n int64, k int) []int64 {
	if k <= 0 {
		k = 1
	}
	bounds := make([]int64, k+1)
	base := n / int64(k)
	rem := n % int64(k)
	pos := int64(0)
	for i := 0; i < k; i++ {
		size := base
		if int64(i) < rem {
			size++
		}
		pos += size
		bounds[i+1] = pos
	}
	return bounds
}

// multiRangeLender concatenates per-shard range adapters in ascending
// range order, presenting PermuteParallel's k sorted shards as a single
// ordered Lender.
type multiRangeLender struct {
	shards []*arcAdapter
	cur    int
}

func (m *multiRangeLender) Next() (int64, []int64, bool) {
	for m.cur < len(m.shards) {
		v, succ, ok := m.shards[m.cur].Next()
		if ok {
			return v, succ, true
		}
		m.cur++
	}
	return 0, nil, false
}

// Err returns the first read error any shard's arcAdapter encountered.
func (m *multiRangeLender) Err() error {
	for _, s := range m.shards {
		if err := s.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every shard's underlying sorter iterator.
func (m *multiRangeLender) Close() error {
	var firstErr error
	for _, s := range m.shards {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
