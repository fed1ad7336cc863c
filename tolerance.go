// Package tilemul tolerance-based verification for floating-point comparisons
package tilemul

import (
	"fmt"
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// ULPTol is the maximum allowed difference in ULPs (Units in Last Place)
	ULPTol int
}

// DefaultTolerance returns the tolerance the multiply variants are held
// to against the reference summation: summation-order differences are
// accepted, materially different results are not.
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol: 1e-12,
		RelTol: 1e-9,
		ULPTol: 16,
	}
}

// StrictTolerance returns a configuration for comparisons expected to
// be exact up to a few ULPs, such as identical summation orders.
func StrictTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol: 0,
		RelTol: 0,
		ULPTol: 1,
	}
}

// Float64NearEqual checks if two float64 values are equal within tolerance
func Float64NearEqual(a, b float64, tol ToleranceConfig) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}

	// Exactly equal handles ±0
	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	if diff <= tol.AbsTol {
		return true
	}

	larger := math.Max(math.Abs(a), math.Abs(b))
	if diff <= larger*tol.RelTol {
		return true
	}

	if tol.ULPTol > 0 && Float64ULPDiff(a, b) <= tol.ULPTol {
		return true
	}

	return false
}

// Float64ULPDiff computes the difference in ULPs between two float64 values
func Float64ULPDiff(a, b float64) int {
	aBits := math.Float64bits(a)
	bBits := math.Float64bits(b)

	// Different signs cannot be compared by bit subtraction
	if (aBits^bBits)&(1<<63) != 0 {
		if a == b { // +0 vs -0
			return 0
		}
		return math.MaxInt
	}

	if aBits > bBits {
		diff := aBits - bBits
		if diff > math.MaxInt64 {
			return math.MaxInt
		}
		return int(diff)
	}
	diff := bBits - aBits
	if diff > math.MaxInt64 {
		return math.MaxInt
	}
	return int(diff)
}

// VerificationResult summarizes an element-wise comparison of two buffers
type VerificationResult struct {
	MaxAbsError float64
	MaxRelError float64
	NumErrors   int
	TotalItems  int
	FirstError  int // Index of first error, -1 if none
}

// VerifyFloat64Array compares two float64 buffers and returns detailed results
func VerifyFloat64Array(expected, actual []float64, tol ToleranceConfig) VerificationResult {
	result := VerificationResult{
		TotalItems: len(expected),
		FirstError: -1,
	}

	if len(expected) != len(actual) {
		result.NumErrors = len(expected)
		return result
	}

	for i := range expected {
		if !Float64NearEqual(expected[i], actual[i], tol) {
			result.NumErrors++
			if result.FirstError == -1 {
				result.FirstError = i
			}

			absDiff := math.Abs(expected[i] - actual[i])
			if absDiff > result.MaxAbsError {
				result.MaxAbsError = absDiff
			}
			if expected[i] != 0 {
				relDiff := absDiff / math.Abs(expected[i])
				if relDiff > result.MaxRelError {
					result.MaxRelError = relDiff
				}
			}
		}
	}

	return result
}

// IsAcceptable returns true if the comparison found no out-of-tolerance cells
func (r VerificationResult) IsAcceptable() bool {
	return r.NumErrors == 0
}

// String formats the verification result for display
func (r VerificationResult) String() string {
	if r.NumErrors == 0 {
		return "PASS: All values match within tolerance"
	}

	errorRate := float64(r.NumErrors) / float64(r.TotalItems) * 100
	return fmt.Sprintf("FAIL: %d/%d values differ (%.2f%%)\n"+
		"  Max absolute error: %e\n"+
		"  Max relative error: %e\n"+
		"  First error at index: %d",
		r.NumErrors, r.TotalItems, errorRate,
		r.MaxAbsError, r.MaxRelError,
		r.FirstError)
}

// VerifyMultiply runs cfg against the reference summation on the given
// inputs and compares the results. Used by the harness's verify mode
// and by tests.
func VerifyMultiply(cfg MultiplyConfig, m, n, k int, a, b []float64, tol ToleranceConfig) (VerificationResult, error) {
	expected := make([]float64, m*n)
	Reference{}.MatMul(m, n, k, a, b, expected)

	actual := make([]float64, m*n)
	if err := Multiply(cfg, m, n, k, a, b, actual); err != nil {
		return VerificationResult{}, err
	}

	return VerifyFloat64Array(expected, actual, tol), nil
}
