// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command ballotmap runs the election mapper offline: print the map of an
// election definition, encode a ballot, or decode a tally without a server.
package main

import (
	"log/slog"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/danielhkuo/ballotmap/election"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("ballotmap failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ballotmap"
	app.Usage = "Lay out, encode and decode selection vectors for an election"
	app.Version = "0.1"
	app.Commands = commands
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "max-selections, m",
			Value: election.DefaultMaxSelections,
			Usage: "reject elections wider than this many selections",
		},
	}
	return app
}
