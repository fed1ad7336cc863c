package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tilekit/tilemul"
)

func topologyCmd() *cli.Command {
	var asYAML bool

	return &cli.Command{
		Name:  "topology",
		Usage: "Show the detected cache topology",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yaml",
				Usage:       "print as a topology YAML document usable with --topology",
				Destination: &asYAML,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			topology, err := tilemul.DetectTopology()
			if err != nil {
				fmt.Println("detection unavailable, showing fallback topology")
				topology = tilemul.DefaultTopology()
			}

			if asYAML {
				doc := struct {
					Caches tilemul.CacheTopology `yaml:"caches"`
				}{Caches: topology}
				data, err := yaml.Marshal(doc)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				fmt.Print(string(data))
				return nil
			}

			for _, level := range topology {
				fmt.Printf("%-5s %d bytes\n", level.Name, level.Capacity)
			}
			return nil
		},
	}
}
