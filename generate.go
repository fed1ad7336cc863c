// Package tilemul matrix generation helpers for benchmarks and tests
package tilemul

import (
	"math/rand"
)

// RandomMatrix returns an n x n row-major matrix with values drawn
// uniformly from [1, 10]. The bounded positive range keeps the product
// well-conditioned, so summation-order differences between variants
// stay within tolerance.
func RandomMatrix(n int, rng *rand.Rand) []float64 {
	m := make([]float64, n*n)
	for i := range m {
		m[i] = 1 + rng.Float64()*9
	}
	return m
}

// ConstantMatrix returns an n x n matrix filled with v
func ConstantMatrix(n int, v float64) []float64 {
	m := make([]float64, n*n)
	for i := range m {
		m[i] = v
	}
	return m
}

// IdentityMatrix returns the n x n identity
func IdentityMatrix(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 1
	}
	return m
}

// RowIndexMatrix returns the n x n matrix with every element of row i
// equal to i+1. With A all ones, C = A x B has first row
// n*(n+1)/2 in every column, a cheap spot check for benchmark runs.
func RowIndexMatrix(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m[i*n+j] = float64(i + 1)
		}
	}
	return m
}
