package tilemul

import (
	"math"
	"testing"
)

func TestFloat64NearEqual(t *testing.T) {
	tol := DefaultTolerance()

	cases := []struct {
		name string
		a, b float64
		want bool
	}{
		{"exact equal", 1.5, 1.5, true},
		{"plus minus zero", 0.0, math.Copysign(0, -1), true},
		{"within relative", 1e9, 1e9 * (1 + 1e-10), true},
		{"outside relative", 1.0, 1.0001, false},
		{"within absolute near zero", 1e-13, -1e-13, true},
		{"both NaN", math.NaN(), math.NaN(), true},
		{"NaN vs number", math.NaN(), 1.0, false},
		{"same infinity", math.Inf(1), math.Inf(1), true},
		{"opposite infinities", math.Inf(1), math.Inf(-1), false},
		{"opposite signs", 1.0, -1.0, false},
	}

	for _, tc := range cases {
		if got := Float64NearEqual(tc.a, tc.b, tol); got != tc.want {
			t.Errorf("%s: Float64NearEqual(%v, %v) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFloat64ULPDiff(t *testing.T) {
	if d := Float64ULPDiff(1.0, 1.0); d != 0 {
		t.Errorf("ULP diff of equal values = %d, want 0", d)
	}

	next := math.Nextafter(1.0, 2.0)
	if d := Float64ULPDiff(1.0, next); d != 1 {
		t.Errorf("ULP diff of adjacent values = %d, want 1", d)
	}
	if d := Float64ULPDiff(next, 1.0); d != 1 {
		t.Errorf("ULP diff is not symmetric: %d", d)
	}

	if d := Float64ULPDiff(1.0, -1.0); d != math.MaxInt {
		t.Errorf("ULP diff across signs = %d, want MaxInt", d)
	}
	if d := Float64ULPDiff(0.0, math.Copysign(0, -1)); d != 0 {
		t.Errorf("ULP diff of +0 and -0 = %d, want 0", d)
	}
}

func TestVerifyFloat64Array(t *testing.T) {
	tol := DefaultTolerance()

	expected := []float64{1, 2, 3, 4}
	actual := []float64{1, 2, 3, 4}

	res := VerifyFloat64Array(expected, actual, tol)
	if !res.IsAcceptable() || res.FirstError != -1 {
		t.Errorf("identical arrays rejected: %s", res.String())
	}

	actual[2] = 3.5
	res = VerifyFloat64Array(expected, actual, tol)
	if res.IsAcceptable() {
		t.Error("materially different arrays accepted")
	}
	if res.NumErrors != 1 || res.FirstError != 2 {
		t.Errorf("NumErrors=%d FirstError=%d, want 1 and 2", res.NumErrors, res.FirstError)
	}
	if res.MaxAbsError != 0.5 {
		t.Errorf("MaxAbsError = %v, want 0.5", res.MaxAbsError)
	}
}

func TestVerifyFloat64ArrayLengthMismatch(t *testing.T) {
	res := VerifyFloat64Array([]float64{1, 2}, []float64{1}, DefaultTolerance())
	if res.IsAcceptable() {
		t.Error("length mismatch accepted")
	}
}

func TestVerifyMultiplyReportsKernelErrors(t *testing.T) {
	a := make([]float64, 1)
	_, err := VerifyMultiply(MultiplyConfig{Algorithm: Algorithm(99)}, 1, 1, 1, a, a, DefaultTolerance())
	if err == nil {
		t.Error("expected the dispatch error to propagate")
	}
}
