// Package tilemul benchmark harness driving the multiply variants
package tilemul

import (
	"log/slog"
	"math/rand"
	"time"
)

// BenchConfig parametrizes one benchmark sweep. One harness drives
// every variant; the algorithm choice is data, not a call site.
type BenchConfig struct {
	Sizes      []int
	Algorithms []Algorithm

	// TileEdge for the blocked variants; zero asks the advisor
	TileEdge int

	// Workers for the parallel variant; zero means NumCPU
	Workers int

	// Iterations per (size, algorithm) cell after one warm-up run
	Iterations int

	// UsageFraction passed to the advisor when TileEdge is zero
	UsageFraction float64

	// Topology consulted when TileEdge is zero; nil uses detection
	// with the built-in fallback
	Topology CacheTopology

	// Verify checks every timed result against the reference
	// summation and records the outcome
	Verify bool

	// HWCounters brackets each timed call with the perf recorder;
	// recorder failures degrade the run to timing-only
	HWCounters bool

	// Seed for matrix generation; zero derives one from the clock
	Seed int64

	// TransposeB for the naive and row-broadcast variants
	TransposeB bool

	Logger *slog.Logger
}

// BenchRunner sweeps sizes and algorithms, timing each cell and
// logging results to a session logger.
type BenchRunner struct {
	cfg BenchConfig
	log *slog.Logger
}

// NewBenchRunner validates the sweep configuration
func NewBenchRunner(cfg BenchConfig) (*BenchRunner, error) {
	if len(cfg.Sizes) == 0 {
		return nil, NewInvalidArgError("NewBenchRunner", "no matrix sizes given")
	}
	for _, n := range cfg.Sizes {
		if n <= 0 {
			return nil, NewInvalidArgError("NewBenchRunner", "matrix sizes must be positive")
		}
	}
	if len(cfg.Algorithms) == 0 {
		return nil, NewInvalidArgError("NewBenchRunner", "no algorithms given")
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1
	}
	if cfg.UsageFraction == 0 {
		cfg.UsageFraction = DefaultUsageFraction
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &BenchRunner{cfg: cfg, log: log}, nil
}

// ResolveTileEdge returns the tile edge the sweep will use: the
// configured one, or the advisor's choice over the configured or
// detected topology, or DefaultTileEdge when no level qualifies.
func (r *BenchRunner) ResolveTileEdge() int {
	if r.cfg.TileEdge > 0 {
		return r.cfg.TileEdge
	}

	topology := r.cfg.Topology
	if topology == nil {
		detected, err := DetectTopology()
		if err != nil {
			r.log.Warn("cache topology detection failed, using fallback", "err", err)
			detected = DefaultTopology()
		}
		topology = detected
	}

	if edge, ok := SelectBlockSize(topology, r.cfg.UsageFraction, SmallestAcrossAll); ok {
		r.log.Info("advisor selected tile edge", "edge", edge, "topology", topology.String())
		return edge
	}
	r.log.Warn("no cache level yields a block plan, using default tile edge",
		"edge", DefaultTileEdge)
	return DefaultTileEdge
}

// Run executes the sweep, logging one result per timed iteration.
// A failed cell is recorded and the sweep moves on; it never aborts
// the session.
func (r *BenchRunner) Run(logger *BenchLogger) error {
	tile := r.ResolveTileEdge()
	rng := rand.New(rand.NewSource(r.cfg.Seed))

	r.log.Info("benchmark session",
		"session", logger.SessionID(),
		"cpu", CPUInfo(),
		"tile", tile,
		"seed", r.cfg.Seed)

	for _, n := range r.cfg.Sizes {
		a := RandomMatrix(n, rng)
		b := RandomMatrix(n, rng)
		c := make([]float64, n*n)

		for _, alg := range r.cfg.Algorithms {
			cfg := MultiplyConfig{
				Algorithm:  alg,
				TileEdge:   tile,
				Workers:    r.cfg.Workers,
				TransposeB: r.cfg.TransposeB,
			}

			// Warm-up run, outside timing
			if err := Multiply(cfg, n, n, n, a, b, c); err != nil {
				r.log.Error("warm-up failed", "algorithm", alg.String(), "size", n, "err", err)
				logger.Log(BenchResult{Algorithm: alg.String(), Size: n, Error: err.Error()})
				continue
			}

			verified := false
			if r.cfg.Verify {
				if err := r.verify(cfg, n, a, b); err != nil {
					return err
				}
				verified = true
			}

			for iter := 0; iter < r.cfg.Iterations; iter++ {
				result, err := r.runOnce(cfg, n, a, b, c)
				if err != nil {
					r.log.Error("iteration failed", "algorithm", alg.String(), "size", n, "err", err)
					result = BenchResult{Algorithm: alg.String(), Size: n, Error: err.Error()}
				}
				result.Verified = verified
				if err := logger.Log(result); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// runOnce times a single multiply call, bracketing it with the perf
// recorder when requested
func (r *BenchRunner) runOnce(cfg MultiplyConfig, n int, a, b, c []float64) (BenchResult, error) {
	var counters *PerfCounters
	var err error

	if r.cfg.HWCounters {
		counters, err = MeasureKernel(func() error {
			return Multiply(cfg, n, n, n, a, b, c)
		})
	} else {
		start := time.Now()
		err = Multiply(cfg, n, n, n, a, b, c)
		if err == nil {
			counters = &PerfCounters{Duration: time.Since(start)}
		}
	}
	if err != nil {
		return BenchResult{}, err
	}

	// 2 ops (mul + add) per inner-loop step
	counters.CalculateMetrics(2 * uint64(n) * uint64(n) * uint64(n))

	result := BenchResult{
		Algorithm:    cfg.Algorithm.String(),
		Size:         n,
		Duration:     counters.Duration,
		GFLOPS:       counters.GFLOPS,
		Cycles:       counters.Cycles,
		Instructions: counters.Instructions,
		CacheMisses:  counters.CacheMisses,
		L1DMisses:    counters.L1DMisses,
		LLCMisses:    counters.LLCMisses,
	}
	if cfg.Algorithm == AlgBlocked || cfg.Algorithm == AlgBlockedParallel {
		result.TileEdge = cfg.TileEdge
	}
	if cfg.Algorithm == AlgBlockedParallel {
		result.Workers = cfg.Workers
	}
	return result, nil
}

// verify compares the variant against the reference summation on the
// sweep's input matrices
func (r *BenchRunner) verify(cfg MultiplyConfig, n int, a, b []float64) error {
	res, err := VerifyMultiply(cfg, n, n, n, a, b, DefaultTolerance())
	if err != nil {
		return err
	}
	if !res.IsAcceptable() {
		r.log.Error("verification failed", "algorithm", cfg.Algorithm.String(), "size", n,
			"detail", res.String())
		return NewNumericalError("BenchRunner.verify", res.String())
	}
	r.log.Info("verification passed", "algorithm", cfg.Algorithm.String(), "size", n)
	return nil
}
