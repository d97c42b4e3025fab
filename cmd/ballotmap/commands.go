// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	store "github.com/danielhkuo/ballotmap/db"
	"github.com/danielhkuo/ballotmap/election"
	"github.com/danielhkuo/ballotmap/models"
)

var errUsage = errors.New("wrong number of arguments")

var commands = []cli.Command{
	{
		Name:      "map",
		Aliases:   []string{"m"},
		Usage:     "print the election map",
		ArgsUsage: "election.(json|toml)",
		Action:    cmdMap,
	},
	{
		Name:      "width",
		Aliases:   []string{"w"},
		Usage:     "print the number of selections",
		ArgsUsage: "election.(json|toml)",
		Action:    cmdWidth,
	},
	{
		Name:      "encode",
		Aliases:   []string{"e"},
		Usage:     "encode a ballot into its selection vector",
		ArgsUsage: "election.(json|toml) ballot.json",
		Action:    cmdEncode,
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:  "strict, s",
				Usage: "reject over-votes and unknown choices",
			},
		},
	},
	{
		Name:      "decode",
		Aliases:   []string{"d"},
		Usage:     "decode a tally vector into per-contest results",
		ArgsUsage: "election.(json|toml) tally.json",
		Action:    cmdDecode,
	},
	{
		Name:      "tally",
		Aliases:   []string{"t"},
		Usage:     "sum stored selection vectors (one per line) and decode them",
		ArgsUsage: "election.(json|toml) selections.txt",
		Action:    cmdTally,
	},
}

func mapper(c *cli.Context) *election.Mapper {
	return election.NewMapper(c.GlobalInt("max-selections"))
}

// load reads the election named by the first argument and maps it.
func load(c *cli.Context, nargs int) (*election.Election, *election.ElectionMap, error) {
	if c.NArg() != nargs {
		return nil, nil, fmt.Errorf("%w: usage: %s %s", errUsage, c.Command.Name, c.Command.ArgsUsage)
	}
	e, err := readElection(c.Args().First())
	if err != nil {
		return nil, nil, err
	}
	em, err := mapper(c).BuildElectionMap(e)
	if err != nil {
		return nil, nil, err
	}
	return e, em, nil
}

func cmdMap(c *cli.Context) error {
	_, em, err := load(c, 1)
	if err != nil {
		return err
	}
	return printJSON(c, em)
}

func cmdWidth(c *cli.Context) error {
	_, em, err := load(c, 1)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, em.NumberOfSelections)
	return err
}

func cmdEncode(c *cli.Context) error {
	e, em, err := load(c, 2)
	if err != nil {
		return err
	}

	var req models.BallotRequest
	if err := readJSON(c.Args().Get(1), &req); err != nil {
		return err
	}
	votes, err := election.ParseVotes(e, req.Votes)
	if err != nil {
		return err
	}

	ballot := election.Ballot{Election: e, BallotStyle: req.BallotStyle, Votes: votes}
	if c.Bool("strict") {
		if err := election.Validate(ballot, em); err != nil {
			return err
		}
	}

	selections, err := mapper(c).EncodeBallot(ballot, em)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, store.FormatSelections(selections))
	return err
}

func cmdDecode(c *cli.Context) error {
	_, em, err := load(c, 2)
	if err != nil {
		return err
	}

	var tally []int64
	if err := readJSON(c.Args().Get(1), &tally); err != nil {
		return err
	}
	tallies, err := election.DecodeTally(tally, em)
	if err != nil {
		return err
	}
	return printJSON(c, tallies)
}

func cmdTally(c *cli.Context) error {
	_, em, err := load(c, 2)
	if err != nil {
		return err
	}

	vectors, err := readSelections(c.Args().Get(1))
	if err != nil {
		return err
	}
	sum, err := election.SumSelections(vectors, em.NumberOfSelections)
	if err != nil {
		return err
	}
	tallies, err := election.DecodeTally(sum, em)
	if err != nil {
		return err
	}
	return printJSON(c, models.TallyPreviewResponse{
		BallotCount: len(vectors),
		TallyResult: sum,
		Tallies:     tallies,
	})
}

func readJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func printJSON(c *cli.Context, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(b))
	return err
}
