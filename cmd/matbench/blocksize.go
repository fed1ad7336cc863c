package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tilekit/tilemul"
)

func blocksizeCmd() *cli.Command {
	var policyArg string

	flags := append([]cli.Flag{}, commonTopologyFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "policy",
			Aliases:     []string{"p"},
			Usage:       "selection policy (first-qualifying, smallest-across-all)",
			Value:       "smallest-across-all",
			Destination: &policyArg,
		},
	)

	return &cli.Command{
		Name:  "blocksize",
		Usage: "Show the tile edge the advisor derives from the cache topology",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			topology, err := resolveTopology()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if topology == nil {
				topology, err = tilemul.DetectTopology()
				if err != nil {
					fmt.Println("detection unavailable, using fallback topology")
					topology = tilemul.DefaultTopology()
				}
			}

			var policy tilemul.BlockPolicy
			switch policyArg {
			case "first-qualifying":
				policy = tilemul.FirstQualifying
			case "smallest-across-all":
				policy = tilemul.SmallestAcrossAll
			default:
				return cli.Exit(fmt.Sprintf("error: unknown policy %q", policyArg), 1)
			}

			fmt.Printf("Topology: %s\n", topology.String())
			for _, level := range topology {
				if edge, ok := tilemul.ComputeBlockSize(level.Capacity, usageFraction); ok {
					fmt.Printf("  %-5s -> tile edge %d\n", level.Name, edge)
				} else {
					fmt.Printf("  %-5s -> no solution\n", level.Name)
				}
			}

			edge, ok := tilemul.SelectBlockSize(topology, usageFraction, policy)
			if !ok {
				return cli.Exit("no cache level yields a tile edge of at least 8", 1)
			}
			fmt.Printf("Selected (%s): %d\n", policy.String(), edge)
			return nil
		},
	}
}
