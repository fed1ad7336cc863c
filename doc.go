// Package tilemul benchmarks dense square matrix multiplication under
// cache-aware algorithmic strategies.
//
// The core is a tiled ("blocked") multiplication engine with three scalar
// variants (naive, row-broadcast, blocked) and a parallel execution mode for
// the blocked variant. A block-size advisor derives tile edges from cache
// capacities, and a blocked transpose converts the right-hand operand into a
// locality-friendly layout for the row-major reduction patterns.
//
// All kernels operate on caller-owned, contiguous row-major []float64
// buffers and accumulate in double precision. The package also carries the
// benchmark harness around the kernels: a sweep runner, a session result
// logger, hardware performance counters on Linux, and cache topology
// detection for the block-size advisor.
//
// Example usage:
//
//	edge, ok := tilemul.SelectBlockSize(tilemul.DefaultTopology(), 0.8, tilemul.SmallestAcrossAll)
//	if !ok {
//		edge = tilemul.DefaultTileEdge
//	}
//
//	cfg := tilemul.MultiplyConfig{Algorithm: tilemul.AlgBlockedParallel, TileEdge: edge, Workers: 8}
//	if err := tilemul.Multiply(cfg, n, n, n, a, b, c); err != nil {
//		log.Fatal(err)
//	}
package tilemul
