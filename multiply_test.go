package tilemul

import (
	"math/rand"
	"testing"
)

// agreementSizes are the square dimensions every variant is checked at
var agreementSizes = []int{1, 2, 17, 64, 65, 200}

func checkAgainstReference(t *testing.T, cfg MultiplyConfig, n int, rng *rand.Rand) {
	t.Helper()

	a := RandomMatrix(n, rng)
	b := RandomMatrix(n, rng)

	res, err := VerifyMultiply(cfg, n, n, n, a, b, DefaultTolerance())
	if err != nil {
		t.Fatalf("n=%d: %v", n, err)
	}
	if !res.IsAcceptable() {
		t.Errorf("n=%d: %s", n, res.String())
	}
}

func TestMultiplyNaiveAgreesWithReference(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for _, n := range agreementSizes {
		checkAgainstReference(t, MultiplyConfig{Algorithm: AlgNaive}, n, rng)
	}
}

func TestMultiplyRowBroadcastAgreesWithReference(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	for _, n := range agreementSizes {
		checkAgainstReference(t, MultiplyConfig{Algorithm: AlgRowBroadcast}, n, rng)
	}
}

func TestMultiplyBlockedAgreesWithReference(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	for _, tile := range []int{8, 32, 64} {
		for _, n := range agreementSizes {
			checkAgainstReference(t, MultiplyConfig{Algorithm: AlgBlocked, TileEdge: tile}, n, rng)
		}
	}
}

func TestMultiplyTransposedModesAgreeWithReference(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	for _, alg := range []Algorithm{AlgNaive, AlgRowBroadcast} {
		for _, n := range agreementSizes {
			checkAgainstReference(t, MultiplyConfig{Algorithm: alg, TransposeB: true}, n, rng)
		}
	}
}

func TestMultiplyBlockedBoundaryClipping(t *testing.T) {
	// 65 is not a multiple of tile edge 32: the final partial tile in
	// every dimension must clip, not overrun or drop work
	const n = 65
	rng := rand.New(rand.NewSource(25))
	a := RandomMatrix(n, rng)
	b := RandomMatrix(n, rng)

	naive := make([]float64, n*n)
	MultiplyNaive(n, n, n, a, b, naive)

	blocked := make([]float64, n*n)
	MultiplyBlocked(n, n, n, 32, a, b, blocked)

	res := VerifyFloat64Array(naive, blocked, DefaultTolerance())
	if !res.IsAcceptable() {
		t.Errorf("blocked(32) vs naive at n=65: %s", res.String())
	}
}

func TestMultiplyRectangular(t *testing.T) {
	// The kernels generalize past the square benchmark shapes
	const m, n, k = 5, 7, 11
	rng := rand.New(rand.NewSource(26))

	a := make([]float64, m*k)
	b := make([]float64, k*n)
	for i := range a {
		a[i] = 1 + rng.Float64()*9
	}
	for i := range b {
		b[i] = 1 + rng.Float64()*9
	}

	want := make([]float64, m*n)
	Reference{}.MatMul(m, n, k, a, b, want)

	for _, cfg := range []MultiplyConfig{
		{Algorithm: AlgNaive},
		{Algorithm: AlgRowBroadcast},
		{Algorithm: AlgNaive, TransposeB: true},
		{Algorithm: AlgRowBroadcast, TransposeB: true},
		{Algorithm: AlgBlocked, TileEdge: 4},
		{Algorithm: AlgBlockedParallel, TileEdge: 4, Workers: 2},
	} {
		got := make([]float64, m*n)
		if err := Multiply(cfg, m, n, k, a, b, got); err != nil {
			t.Fatalf("%s: %v", cfg.Algorithm, err)
		}
		res := VerifyFloat64Array(want, got, DefaultTolerance())
		if !res.IsAcceptable() {
			t.Errorf("%s (transposeB=%v): %s", cfg.Algorithm, cfg.TransposeB, res.String())
		}
	}
}

func TestMultiplyIdentity(t *testing.T) {
	const n = 33
	rng := rand.New(rand.NewSource(27))
	a := RandomMatrix(n, rng)
	id := IdentityMatrix(n)

	for _, alg := range []Algorithm{AlgNaive, AlgRowBroadcast, AlgBlocked, AlgBlockedParallel} {
		c := make([]float64, n*n)
		cfg := MultiplyConfig{Algorithm: alg, TileEdge: 8, Workers: 2}
		if err := Multiply(cfg, n, n, n, a, id, c); err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		for i := range a {
			if c[i] != a[i] {
				t.Fatalf("%s: A x I differs from A at index %d", alg, i)
			}
		}
	}
}

func TestMultiplyZeroesStaleOutput(t *testing.T) {
	const n = 16
	rng := rand.New(rand.NewSource(28))
	a := RandomMatrix(n, rng)
	b := RandomMatrix(n, rng)

	want := make([]float64, n*n)
	Reference{}.MatMul(n, n, n, a, b, want)

	for _, alg := range []Algorithm{AlgNaive, AlgRowBroadcast, AlgBlocked, AlgBlockedParallel} {
		// Poison the output buffer; the kernels must not accumulate on it
		c := ConstantMatrix(n, 12345)
		cfg := MultiplyConfig{Algorithm: alg, TileEdge: 8, Workers: 2}
		if err := Multiply(cfg, n, n, n, a, b, c); err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		res := VerifyFloat64Array(want, c, DefaultTolerance())
		if !res.IsAcceptable() {
			t.Errorf("%s with dirty C: %s", alg, res.String())
		}
	}
}

func TestMultiplyInvalidArguments(t *testing.T) {
	a := make([]float64, 4)
	b := make([]float64, 4)
	c := make([]float64, 4)

	cases := []struct {
		name    string
		m, n, k int
		a, b, c []float64
	}{
		{"zero m", 0, 2, 2, a, b, c},
		{"negative n", 2, -1, 2, a, b, c},
		{"zero k", 2, 2, 0, a, b, c},
		{"short A", 2, 2, 3, a, make([]float64, 6), c},
		{"short B", 2, 3, 2, a, b, make([]float64, 6)},
		{"short C", 3, 2, 2, make([]float64, 6), b, c},
	}

	for _, tc := range cases {
		err := Multiply(MultiplyConfig{Algorithm: AlgNaive}, tc.m, tc.n, tc.k, tc.a, tc.b, tc.c)
		if err == nil {
			t.Errorf("%s: expected an error", tc.name)
			continue
		}
		if !IsInvalidArgError(err) {
			t.Errorf("%s: expected an invalid-argument error, got %v", tc.name, err)
		}
	}
}

func TestMultiplyUnknownAlgorithm(t *testing.T) {
	a := make([]float64, 1)
	err := Multiply(MultiplyConfig{Algorithm: Algorithm(99)}, 1, 1, 1, a, a, make([]float64, 1))
	if err == nil || !IsInvalidArgError(err) {
		t.Errorf("expected an invalid-argument error, got %v", err)
	}
}

func TestParseAlgorithmRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{AlgNaive, AlgRowBroadcast, AlgBlocked, AlgBlockedParallel} {
		got, err := ParseAlgorithm(alg.String())
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if got != alg {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", alg.String(), got, alg)
		}
	}

	if _, err := ParseAlgorithm("simd"); err == nil {
		t.Error("expected an error for an unknown algorithm name")
	}
}

func BenchmarkMultiply(b *testing.B) {
	const n = 512
	rng := rand.New(rand.NewSource(2))
	a := RandomMatrix(n, rng)
	bb := RandomMatrix(n, rng)
	c := make([]float64, n*n)

	flops := float64(2 * n * n * n)

	for _, cfg := range []MultiplyConfig{
		{Algorithm: AlgNaive},
		{Algorithm: AlgRowBroadcast},
		{Algorithm: AlgBlocked, TileEdge: 64},
		{Algorithm: AlgBlockedParallel, TileEdge: 64},
	} {
		b.Run(cfg.Algorithm.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if err := Multiply(cfg, n, n, n, a, bb, c); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(flops*float64(b.N)/b.Elapsed().Seconds()/1e9, "GFLOPS")
		})
	}
}
