package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tilekit/tilemul"
)

func main() {
	version, _ := tilemul.Version()

	app := &cli.Command{
		Name:    "matbench",
		Usage:   "Cache-tiled matrix multiplication benchmarks",
		Version: version,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			runCmd(),
			blocksizeCmd(),
			topologyCmd(),
			reportCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
