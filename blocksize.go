// Package tilemul block-size advisor derived from cache capacity
package tilemul

import (
	"math"
)

// BlockPolicy selects how a tile edge is chosen across cache levels
type BlockPolicy int

const (
	// FirstQualifying returns the tile edge from the first cache level
	// in topology order that yields a solution.
	FirstQualifying BlockPolicy = iota

	// SmallestAcrossAll evaluates every level and returns the minimum
	// valid tile edge, biasing toward the tightest-fitting cache level.
	SmallestAcrossAll
)

// String returns the policy name
func (p BlockPolicy) String() string {
	switch p {
	case FirstQualifying:
		return "first-qualifying"
	case SmallestAcrossAll:
		return "smallest-across-all"
	default:
		return "unknown"
	}
}

// ComputeBlockSize derives a tile edge from a cache capacity and the
// fraction of it assumed available for the working tiles. Three tiles
// (one each from A, B, C) must coexist in the target level, so the edge
// solves 3 * edge^2 * 8 bytes <= capacity * fraction, rounded down to a
// multiple of BlockAlign.
//
// The second return value is false when no tile edge of at least
// BlockAlign fits, or when usageFraction is outside (0, 1]. Both are
// normal results the caller must branch on, never a panic.
func ComputeBlockSize(capacityBytes int64, usageFraction float64) (int, bool) {
	if usageFraction <= 0.0 || usageFraction > 1.0 {
		return 0, false
	}

	effective := float64(capacityBytes) * usageFraction
	raw := math.Sqrt(effective / blockWorkingSetBytes)
	if raw < BlockAlign {
		return 0, false
	}

	edge := int(math.Floor(raw)) / BlockAlign * BlockAlign
	if edge < BlockAlign {
		return 0, false
	}
	return edge, true
}

// SelectBlockSize chooses a tile edge across an ordered cache topology
// according to the given policy. Returns false when no level yields a
// solution.
func SelectBlockSize(topology CacheTopology, usageFraction float64, policy BlockPolicy) (int, bool) {
	switch policy {
	case FirstQualifying:
		for _, level := range topology {
			if edge, ok := ComputeBlockSize(level.Capacity, usageFraction); ok {
				return edge, true
			}
		}
		return 0, false

	case SmallestAcrossAll:
		best := 0
		found := false
		for _, level := range topology {
			edge, ok := ComputeBlockSize(level.Capacity, usageFraction)
			if !ok {
				continue
			}
			if !found || edge < best {
				best = edge
				found = true
			}
		}
		return best, found

	default:
		return 0, false
	}
}
