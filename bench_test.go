package tilemul

import (
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBenchRunnerSweep(t *testing.T) {
	runner, err := NewBenchRunner(BenchConfig{
		Sizes:      []int{32, 33},
		Algorithms: []Algorithm{AlgNaive, AlgRowBroadcast, AlgBlocked, AlgBlockedParallel},
		TileEdge:   16,
		Workers:    2,
		Iterations: 2,
		Verify:     true,
		Seed:       99,
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewBenchRunner: %v", err)
	}

	logger, err := NewBenchLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBenchLogger: %v", err)
	}

	if err := runner.Run(logger); err != nil {
		t.Fatalf("Run: %v", err)
	}

	results := logger.Results()
	want := 2 * 4 * 2 // sizes * algorithms * iterations
	if len(results) != want {
		t.Fatalf("got %d results, want %d", len(results), want)
	}
	for _, r := range results {
		if r.Error != "" {
			t.Errorf("%s n=%d failed: %s", r.Algorithm, r.Size, r.Error)
		}
		if r.Duration <= 0 {
			t.Errorf("%s n=%d has no duration", r.Algorithm, r.Size)
		}
		if r.GFLOPS <= 0 {
			t.Errorf("%s n=%d has no GFLOPS", r.Algorithm, r.Size)
		}
		if !r.Verified {
			t.Errorf("%s n=%d not marked verified", r.Algorithm, r.Size)
		}
	}
}

func TestBenchRunnerValidation(t *testing.T) {
	cases := []BenchConfig{
		{Algorithms: []Algorithm{AlgNaive}},                      // no sizes
		{Sizes: []int{64}},                                       // no algorithms
		{Sizes: []int{0}, Algorithms: []Algorithm{AlgNaive}},     // bad size
		{Sizes: []int{-3, 8}, Algorithms: []Algorithm{AlgNaive}}, // bad size
	}
	for i, cfg := range cases {
		cfg.Logger = quietLogger()
		if _, err := NewBenchRunner(cfg); err == nil {
			t.Errorf("case %d: expected a config error", i)
		}
	}
}

func TestBenchRunnerResolveTileEdge(t *testing.T) {
	base := BenchConfig{
		Sizes:      []int{8},
		Algorithms: []Algorithm{AlgBlocked},
		Logger:     quietLogger(),
	}

	// Explicit tile edge wins over the advisor
	cfg := base
	cfg.TileEdge = 48
	runner, err := NewBenchRunner(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if edge := runner.ResolveTileEdge(); edge != 48 {
		t.Errorf("explicit tile edge not honored: %d", edge)
	}

	// Advisor path over an explicit topology
	cfg = base
	cfg.Topology = CacheTopology{{Name: "L1d", Capacity: 128 * 1024}}
	runner, err = NewBenchRunner(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := ComputeBlockSize(128*1024, DefaultUsageFraction)
	if edge := runner.ResolveTileEdge(); edge != want {
		t.Errorf("advisor tile edge = %d, want %d", edge, want)
	}

	// No qualifying level falls back to the default
	cfg = base
	cfg.Topology = CacheTopology{{Name: "tiny", Capacity: 256}}
	runner, err = NewBenchRunner(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if edge := runner.ResolveTileEdge(); edge != DefaultTileEdge {
		t.Errorf("fallback tile edge = %d, want %d", edge, DefaultTileEdge)
	}
}
