package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tilekit/tilemul"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Summarize a recorded benchmark session",
		ArgsUsage: "<session.json>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("usage: matbench report <session.json>", 1)
			}

			sessionID, results, err := tilemul.LoadSession(cmd.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			fmt.Printf("Session %s: %d results\n\n", sessionID, len(results))
			printResults(results)

			// Best observed GFLOPS per size across algorithms
			bestIdx := map[int]int{}
			for i, r := range results {
				if r.Error != "" {
					continue
				}
				if j, ok := bestIdx[r.Size]; !ok || r.GFLOPS > results[j].GFLOPS {
					bestIdx[r.Size] = i
				}
			}
			if len(bestIdx) > 0 {
				fmt.Println("\n=== Best per size ===")
				for i, r := range results {
					if j, ok := bestIdx[r.Size]; ok && i == j {
						fmt.Printf("%6d  %-18s %9.2f GFLOPS\n", r.Size, r.Algorithm, r.GFLOPS)
					}
				}
			}
			return nil
		},
	}
}
