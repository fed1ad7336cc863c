package main

import "github.com/urfave/cli/v3"

var (
	topologyPath  string
	usageFraction float64
)

func commonTopologyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "topology",
			Aliases:     []string{"t"},
			Usage:       "path to a cache topology YAML file (default: detect from sysfs)",
			Destination: &topologyPath,
		},
		&cli.FloatFlag{
			Name:        "fraction",
			Aliases:     []string{"f"},
			Usage:       "fraction of each cache level assumed available for the working tiles",
			Value:       0.8,
			Destination: &usageFraction,
		},
	}
}
