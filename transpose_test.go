package tilemul

import (
	"math/rand"
	"testing"
)

func TestTransposeMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, n := range []int{0, 1, 2, 17, 31, 32, 33, 64, 65, 200} {
		src := RandomMatrix(n, rng)
		got := make([]float64, n*n)
		want := make([]float64, n*n)

		Transpose(src, got, n, TransposeTileEdge)
		Reference{}.Transpose(src, want, n)

		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("n=%d: blocked transpose differs from reference at %d", n, i)
			}
		}
	}
}

func TestTransposeInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for _, n := range []int{0, 1, 2, 17, 64, 65, 200} {
		m := RandomMatrix(n, rng)
		once := make([]float64, n*n)
		twice := make([]float64, n*n)

		TransposeDefault(m, once, n)
		TransposeDefault(once, twice, n)

		// Pure data movement, so equality must be exact
		for i := range m {
			if twice[i] != m[i] {
				t.Fatalf("n=%d: transpose(transpose(M)) != M at index %d", n, i)
			}
		}
	}
}

func TestTransposeOddTileEdges(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	const n = 65

	src := RandomMatrix(n, rng)
	want := make([]float64, n*n)
	Reference{}.Transpose(src, want, n)

	for _, edge := range []int{1, 3, 7, 32, 64, 100} {
		got := make([]float64, n*n)
		Transpose(src, got, n, edge)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("edge=%d: transpose differs from reference at %d", edge, i)
			}
		}
	}
}

func TestTransposeZeroEdgeUsesDefault(t *testing.T) {
	const n = 16
	rng := rand.New(rand.NewSource(17))
	src := RandomMatrix(n, rng)

	got := make([]float64, n*n)
	Transpose(src, got, n, 0)

	want := make([]float64, n*n)
	Reference{}.Transpose(src, want, n)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transpose with zero edge differs at %d", i)
		}
	}
}

func BenchmarkTranspose(b *testing.B) {
	const n = 2048
	rng := rand.New(rand.NewSource(1))
	src := RandomMatrix(n, rng)
	dst := make([]float64, n*n)

	b.SetBytes(int64(n * n * ElementSize))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		TransposeDefault(src, dst, n)
	}
}
