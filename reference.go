// Package tilemul reference implementations for verification
package tilemul

// Reference contains simple, correct implementations used for testing
// and verification of the optimized kernels.
type Reference struct{}

// MatMul computes C = A x B with the plain O(n^3) summation. A is
// m x k, B is k x n, C is m x n, all row-major. This is the numerical
// yardstick every variant must agree with to within tolerance.
func (r Reference) MatMul(m, n, k int, a, b, c []float64) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for l := 0; l < k; l++ {
				sum += a[i*k+l] * b[l*n+j]
			}
			c[i*n+j] = sum
		}
	}
}

// Transpose copies the n x n matrix src into dst transposed, element
// by element, with no blocking.
func (r Reference) Transpose(src, dst []float64, n int) {
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dst[j*n+i] = src[i*n+j]
		}
	}
}
