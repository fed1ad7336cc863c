// Package tilemul scalar matrix multiplication variants
package tilemul

import (
	"fmt"
)

// Algorithm identifies a multiplication variant
type Algorithm int

const (
	// AlgNaive is the textbook i,j,k loop with a local accumulator per cell
	AlgNaive Algorithm = iota
	// AlgRowBroadcast broadcasts A[i,k] across a row of C (i,k,j order)
	AlgRowBroadcast
	// AlgBlocked is the cache-tiled variant
	AlgBlocked
	// AlgBlockedParallel is the cache-tiled variant fanned out over workers
	AlgBlockedParallel
)

// String returns the algorithm name as used in benchmark output
func (a Algorithm) String() string {
	switch a {
	case AlgNaive:
		return "naive"
	case AlgRowBroadcast:
		return "row-broadcast"
	case AlgBlocked:
		return "blocked"
	case AlgBlockedParallel:
		return "blocked-parallel"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps a benchmark-output name back to an Algorithm
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "naive":
		return AlgNaive, nil
	case "row-broadcast":
		return AlgRowBroadcast, nil
	case "blocked":
		return AlgBlocked, nil
	case "blocked-parallel":
		return AlgBlockedParallel, nil
	default:
		return 0, NewInvalidArgError("ParseAlgorithm", fmt.Sprintf("unknown algorithm %q", name))
	}
}

// MultiplyConfig selects a variant and its execution parameters.
// The algorithm choice is a data value so that one call site can drive
// every variant.
type MultiplyConfig struct {
	Algorithm Algorithm

	// TileEdge is the tile side length for the blocked variants.
	// Zero selects DefaultTileEdge.
	TileEdge int

	// Workers is the pool size for AlgBlockedParallel. Zero selects
	// runtime.NumCPU(). Ignored by the other variants.
	Workers int

	// TransposeB runs the naive and row-broadcast variants against a
	// transposed copy of B so both operands stream row-major through
	// the inner loop. Ignored by the blocked variants.
	TransposeB bool
}

// Multiply computes C = A x B with the configured variant.
//
// A is m x k, B is k x n and C is m x n, all contiguous row-major
// float64 buffers owned by the caller. C is zeroed before accumulation;
// A and B are only read. Dimension or length violations are caller
// contract breaches and return an invalid-argument error.
func Multiply(cfg MultiplyConfig, m, n, k int, a, b, c []float64) error {
	if err := checkDims("Multiply", m, n, k, a, b, c); err != nil {
		return err
	}

	tile := cfg.TileEdge
	if tile == 0 {
		tile = DefaultTileEdge
	}
	if tile < 1 {
		return NewInvalidArgError("Multiply", fmt.Sprintf("tile edge must be positive, got %d", tile))
	}

	switch cfg.Algorithm {
	case AlgNaive:
		if cfg.TransposeB {
			multiplyNaiveTransposed(m, n, k, a, b, c)
		} else {
			MultiplyNaive(m, n, k, a, b, c)
		}
	case AlgRowBroadcast:
		if cfg.TransposeB {
			multiplyRowBroadcastTransposed(m, n, k, a, b, c)
		} else {
			MultiplyRowBroadcast(m, n, k, a, b, c)
		}
	case AlgBlocked:
		MultiplyBlocked(m, n, k, tile, a, b, c)
	case AlgBlockedParallel:
		MultiplyBlockedParallel(m, n, k, tile, cfg.Workers, a, b, c)
	default:
		return NewInvalidArgError("Multiply", fmt.Sprintf("unknown algorithm %d", cfg.Algorithm))
	}
	return nil
}

// checkDims validates the caller contract shared by all variants
func checkDims(op string, m, n, k int, a, b, c []float64) error {
	if m <= 0 || n <= 0 || k <= 0 {
		return NewInvalidArgError(op, fmt.Sprintf("dimensions must be positive, got m=%d n=%d k=%d", m, n, k))
	}
	if len(a) < m*k {
		return NewInvalidArgError(op, fmt.Sprintf("A has %d elements, need %d", len(a), m*k))
	}
	if len(b) < k*n {
		return NewInvalidArgError(op, fmt.Sprintf("B has %d elements, need %d", len(b), k*n))
	}
	if len(c) < m*n {
		return NewInvalidArgError(op, fmt.Sprintf("C has %d elements, need %d", len(c), m*n))
	}
	return nil
}

// zeroSlice clears the output buffer before accumulation begins
func zeroSlice(c []float64) {
	for i := range c {
		c[i] = 0
	}
}

// MultiplyNaive computes C = A x B with the i,j,k loop order. Each C
// cell accumulates into a local scalar across the full k reduction and
// is stored once, avoiding memory round-trips to C inside the loop.
func MultiplyNaive(m, n, k int, a, b, c []float64) {
	zeroSlice(c[:m*n])

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for kk := 0; kk < k; kk++ {
				sum += a[i*k+kk] * b[kk*n+j]
			}
			c[i*n+j] = sum
		}
	}
}

// MultiplyRowBroadcast computes C = A x B with the i,k,j loop order.
// A[i,k] is loaded once per inner loop and scatter-accumulated into the
// whole row C[i,*], so both B and C stream sequentially. More write
// traffic to C, far fewer strided reads of B.
func MultiplyRowBroadcast(m, n, k int, a, b, c []float64) {
	zeroSlice(c[:m*n])

	for i := 0; i < m; i++ {
		cRow := c[i*n : (i+1)*n]
		for kk := 0; kk < k; kk++ {
			temp := a[i*k+kk]
			bRow := b[kk*n : (kk+1)*n]
			for j := 0; j < n; j++ {
				cRow[j] += temp * bRow[j]
			}
		}
	}
}

// MultiplyBlocked computes C = A x B over tileEdge-sized tiles of the
// i, j and k index spaces, clipped at the boundaries. Within a tile the
// naive accumulation pattern applies, restricted to the tile extents.
//
// Accumulation is tile-major: a C cell sees its k-range in tileEdge
// chunks rather than one unbroken reduction, which changes the
// floating-point summation order relative to MultiplyNaive but not the
// result beyond representable epsilon.
func MultiplyBlocked(m, n, k, tileEdge int, a, b, c []float64) {
	zeroSlice(c[:m*n])
	multiplyBlockedRange(0, m, n, k, tileEdge, a, b, c)
}

// multiplyBlockedRange runs the blocked kernel over rows [iStart, iEnd)
// of C. The row range is the parallel partition unit: a worker owning
// it touches no C cell outside it.
func multiplyBlockedRange(iStart, iEnd, n, k, tileEdge int, a, b, c []float64) {
	kDim := k
	for ii := iStart; ii < iEnd; ii += tileEdge {
		iMax := min(ii+tileEdge, iEnd)
		for jj := 0; jj < n; jj += tileEdge {
			jMax := min(jj+tileEdge, n)
			for kk := 0; kk < kDim; kk += tileEdge {
				kMax := min(kk+tileEdge, kDim)

				for i := ii; i < iMax; i++ {
					for j := jj; j < jMax; j++ {
						sum := c[i*n+j]
						for l := kk; l < kMax; l++ {
							sum += a[i*kDim+l] * b[l*n+j]
						}
						c[i*n+j] = sum
					}
				}
			}
		}
	}
}

// multiplyNaiveTransposed is the naive reduction against a transposed
// copy of B, so the inner loop reads both operands sequentially.
func multiplyNaiveTransposed(m, n, k int, a, b, c []float64) {
	bt := make([]float64, len(b))
	transposeRect(b, bt, k, n)

	zeroSlice(c[:m*n])
	for i := 0; i < m; i++ {
		aRow := a[i*k : (i+1)*k]
		for j := 0; j < n; j++ {
			btRow := bt[j*k : (j+1)*k]
			sum := 0.0
			for kk := 0; kk < k; kk++ {
				sum += aRow[kk] * btRow[kk]
			}
			c[i*n+j] = sum
		}
	}
}

// multiplyRowBroadcastTransposed broadcasts A[i,k] against rows of the
// transposed B. The transposed layout puts the k reduction of each
// output cell on one cache line run.
func multiplyRowBroadcastTransposed(m, n, k int, a, b, c []float64) {
	bt := make([]float64, len(b))
	transposeRect(b, bt, k, n)

	zeroSlice(c[:m*n])
	for i := 0; i < m; i++ {
		aRow := a[i*k : (i+1)*k]
		cRow := c[i*n : (i+1)*n]
		for j := 0; j < n; j++ {
			btRow := bt[j*k : (j+1)*k]
			sum := 0.0
			for kk := 0; kk < k; kk++ {
				sum += aRow[kk] * btRow[kk]
			}
			cRow[j] = sum
		}
	}
}

// transposeRect transposes the rows x cols row-major matrix src into
// dst (cols x rows), blocked the same way as Transpose. Square inputs
// should use Transpose directly.
func transposeRect(src, dst []float64, rows, cols int) {
	const edge = TransposeTileEdge
	for ii := 0; ii < rows; ii += edge {
		iEnd := min(ii+edge, rows)
		for jj := 0; jj < cols; jj += edge {
			jEnd := min(jj+edge, cols)
			for i := ii; i < iEnd; i++ {
				for j := jj; j < jEnd; j++ {
					dst[j*rows+i] = src[i*cols+j]
				}
			}
		}
	}
}
