// Package tilemul row-tile fan-out for the blocked variant
package tilemul

import (
	"runtime"
)

// MultiplyBlockedParallel computes C = A x B with the blocked kernel,
// fanning the outer i-tile dimension out over a fixed pool of workers.
//
// The row space [0, m) is split into contiguous, non-overlapping,
// tile-aligned ranges that collectively cover it. Each worker owns the
// C rows of its range and performs every (j, k) tile for them, so no
// cell is ever written by two workers and no locks or atomics are
// needed. A and B are shared read-only. The call blocks on a barrier
// until every worker finishes.
//
// Each cell's full reduction happens on exactly one worker in the same
// tile order as the sequential kernel, so the result is bit-identical
// to MultiplyBlocked regardless of worker count or scheduling.
func MultiplyBlockedParallel(m, n, k, tileEdge, workers int, a, b, c []float64) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ranges := partitionRowTiles(m, tileEdge, workers)
	if len(ranges) <= 1 {
		MultiplyBlocked(m, n, k, tileEdge, a, b, c)
		return
	}

	zeroSlice(c[:m*n])

	done := make(chan struct{}, len(ranges))
	for _, r := range ranges {
		go func(iStart, iEnd int) {
			multiplyBlockedRange(iStart, iEnd, n, k, tileEdge, a, b, c)
			done <- struct{}{}
		}(r.start, r.end)
	}
	for range ranges {
		<-done
	}
}

// rowRange is a half-open range of C rows owned by one worker
type rowRange struct {
	start, end int
}

// partitionRowTiles splits [0, m) into at most workers contiguous
// ranges aligned to tileEdge boundaries. Alignment keeps every i-tile
// on a single worker; the last range absorbs the clipped remainder.
func partitionRowTiles(m, tileEdge, workers int) []rowRange {
	numTiles := (m + tileEdge - 1) / tileEdge
	if workers > numTiles {
		workers = numTiles
	}
	if workers <= 1 {
		return []rowRange{{0, m}}
	}

	tilesPerWorker := numTiles / workers
	extra := numTiles % workers

	ranges := make([]rowRange, 0, workers)
	tile := 0
	for w := 0; w < workers; w++ {
		count := tilesPerWorker
		if w < extra {
			count++
		}
		start := tile * tileEdge
		end := min((tile+count)*tileEdge, m)
		ranges = append(ranges, rowRange{start, end})
		tile += count
	}
	return ranges
}
