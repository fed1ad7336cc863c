package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tilekit/tilemul"
)

func runCmd() *cli.Command {
	var (
		sizesArg   string
		algsArg    string
		tileEdge   int64
		workers    int64
		iterations int64
		seed       int64
		outDir     string
		csvPath    string
		verify     bool
		hwCounters bool
		transposeB bool
	)

	flags := append([]cli.Flag{}, commonTopologyFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "sizes",
			Aliases:     []string{"n"},
			Usage:       "comma-separated matrix dimensions to sweep",
			Value:       "600,1000,1400,1800,2200,2600,3000",
			Destination: &sizesArg,
		},
		&cli.StringFlag{
			Name:        "algorithms",
			Aliases:     []string{"a"},
			Usage:       "comma-separated algorithms (naive, row-broadcast, blocked, blocked-parallel)",
			Value:       "naive,row-broadcast,blocked,blocked-parallel",
			Destination: &algsArg,
		},
		&cli.Int64Flag{
			Name:        "tile",
			Usage:       "tile edge for the blocked variants (0 asks the advisor)",
			Destination: &tileEdge,
		},
		&cli.Int64Flag{
			Name:        "workers",
			Aliases:     []string{"w"},
			Usage:       "worker count for blocked-parallel (0 means NumCPU)",
			Destination: &workers,
		},
		&cli.Int64Flag{
			Name:        "iterations",
			Aliases:     []string{"i"},
			Usage:       "timed iterations per size/algorithm cell",
			Value:       3,
			Destination: &iterations,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "seed for matrix generation (0 derives one from the clock)",
			Destination: &seed,
		},
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "directory for session result files",
			Value:       "benchmark_logs",
			Destination: &outDir,
		},
		&cli.StringFlag{
			Name:        "csv",
			Usage:       "also write results to this CSV file",
			Destination: &csvPath,
		},
		&cli.BoolFlag{
			Name:        "verify",
			Usage:       "check each cell against the reference summation before timing",
			Destination: &verify,
		},
		&cli.BoolFlag{
			Name:        "counters",
			Usage:       "bracket each call with hardware performance counters (linux)",
			Destination: &hwCounters,
		},
		&cli.BoolFlag{
			Name:        "transpose-b",
			Usage:       "run naive and row-broadcast against a transposed copy of B",
			Destination: &transposeB,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Run a benchmark sweep over sizes and algorithms",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			sizes, err := parseSizes(sizesArg)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			algorithms, err := parseAlgorithms(algsArg)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			topology, err := resolveTopology()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			runner, err := tilemul.NewBenchRunner(tilemul.BenchConfig{
				Sizes:         sizes,
				Algorithms:    algorithms,
				TileEdge:      int(tileEdge),
				Workers:       int(workers),
				Iterations:    int(iterations),
				UsageFraction: usageFraction,
				Topology:      topology,
				Verify:        verify,
				HWCounters:    hwCounters,
				Seed:          seed,
				TransposeB:    transposeB,
				Logger:        log,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			logger, err := tilemul.NewBenchLogger(outDir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			fmt.Println("=== matbench ===")
			fmt.Printf("CPU:      %s\n", tilemul.CPUInfo())
			fmt.Printf("Tile:     %d\n", runner.ResolveTileEdge())
			fmt.Printf("Session:  %s\n", logger.SessionID())
			fmt.Println()

			if err := runner.Run(logger); err != nil {
				return cli.Exit(fmt.Sprintf("error: run sweep: %v", err), 1)
			}

			if csvPath != "" {
				if err := logger.WriteCSV(csvPath); err != nil {
					return cli.Exit(fmt.Sprintf("error: write CSV: %v", err), 1)
				}
			}

			printResults(logger.Results())
			fmt.Printf("\nResults written to %s\n", logger.Path())
			return nil
		},
	}
}

func parseSizes(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid matrix size %q", p)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no matrix sizes given")
	}
	return sizes, nil
}

func parseAlgorithms(arg string) ([]tilemul.Algorithm, error) {
	parts := strings.Split(arg, ",")
	algorithms := make([]tilemul.Algorithm, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		alg, err := tilemul.ParseAlgorithm(p)
		if err != nil {
			return nil, err
		}
		algorithms = append(algorithms, alg)
	}
	if len(algorithms) == 0 {
		return nil, fmt.Errorf("no algorithms given")
	}
	return algorithms, nil
}

// resolveTopology loads the YAML topology when one was given; nil lets
// the runner detect
func resolveTopology() (tilemul.CacheTopology, error) {
	if topologyPath == "" {
		return nil, nil
	}
	return tilemul.LoadTopology(topologyPath)
}

func printResults(results []tilemul.BenchResult) {
	fmt.Println("=== Results ===")
	fmt.Printf("%-18s %6s %6s %4s %12s %9s\n",
		"Algorithm", "Size", "Tile", "W", "Seconds", "GFLOPS")

	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("%-18s %6d FAILED: %s\n", r.Algorithm, r.Size, r.Error)
			continue
		}
		fmt.Printf("%-18s %6d %6d %4d %12.4f %9.2f\n",
			r.Algorithm, r.Size, r.TileEdge, r.Workers,
			r.Duration.Seconds(), r.GFLOPS)
	}
}
