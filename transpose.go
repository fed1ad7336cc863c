// Package tilemul blocked transpose engine
package tilemul

// Transpose copies the n x n row-major matrix src into dst transposed,
// walking the index space in blockEdge-sized square tiles clipped at the
// boundaries. Blocking keeps both the read and the write side of the copy
// within a small working set, unlike a naive double loop which strides
// through dst by n on every element.
//
// dst must be pre-allocated to n*n elements and must not alias src.
// Pure data movement: Transpose(Transpose(M)) == M exactly.
func Transpose(src, dst []float64, n, blockEdge int) {
	if blockEdge < 1 {
		blockEdge = TransposeTileEdge
	}

	for ii := 0; ii < n; ii += blockEdge {
		iEnd := min(ii+blockEdge, n)
		for jj := 0; jj < n; jj += blockEdge {
			jEnd := min(jj+blockEdge, n)

			for i := ii; i < iEnd; i++ {
				for j := jj; j < jEnd; j++ {
					dst[j*n+i] = src[i*n+j]
				}
			}
		}
	}
}

// TransposeDefault runs Transpose with the default tile edge.
func TransposeDefault(src, dst []float64, n int) {
	Transpose(src, dst, n, TransposeTileEdge)
}
