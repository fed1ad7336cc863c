// Package tilemul configuration constants
package tilemul

// Element and alignment parameters
const (
	// Size of one matrix element in bytes (float64)
	ElementSize = 8

	// Tile edges are always rounded down to a multiple of this unit
	BlockAlign = 8

	// Recommended buffer alignment for peak performance (not required)
	BufferAlignment = 64
)

// Block-size advisor parameters
const (
	// Bytes occupied per tile element across the three resident tiles
	// (one each from A, B and C). 3 tiles * 8 bytes per float64.
	// A capacity heuristic, not a cache-associativity model.
	blockWorkingSetBytes = 3 * ElementSize

	// DefaultUsageFraction is the share of a cache level the advisor
	// assumes is available for the three working tiles.
	DefaultUsageFraction = 0.8
)

// Default tile edges
const (
	// DefaultTileEdge is used when no cache level yields a block plan.
	DefaultTileEdge = 64

	// TransposeTileEdge is the default blocking for the transpose engine.
	TransposeTileEdge = 32
)

// Fallback cache sizes for machines where detection is unavailable (in bytes)
const (
	// L1 data cache per core (typical for modern CPUs)
	FallbackL1Size = 32 * 1024 // 32KB

	// L2 cache per core
	FallbackL2Size = 256 * 1024 // 256KB

	// L3 cache, shared
	FallbackL3Size = 8 * 1024 * 1024 // 8MB
)
