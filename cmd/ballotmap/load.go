// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	store "github.com/danielhkuo/ballotmap/db"
	"github.com/danielhkuo/ballotmap/election"
)

// readElection loads a definition from JSON, or from TOML when the file
// ends in .toml. TOML keys match field names case-insensitively, so both
// formats use the same camelCase keys.
func readElection(path string) (*election.Election, error) {
	var e election.Election
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &e); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return &e, nil
	}
	if err := readJSON(path, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// readSelections reads one stored selection vector per line. Blank lines
// and lines starting with '#' are skipped. Lines are unbounded so vectors
// of any configured width load.
func readSelections(path string) ([][]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var vectors [][]bool
	reader := bufio.NewReader(f)
	for line := 1; ; line++ {
		raw, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}

		text := strings.TrimSpace(raw)
		if text != "" && !strings.HasPrefix(text, "#") {
			v, perr := store.ParseSelections(text)
			if perr != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, perr)
			}
			vectors = append(vectors, v)
		}

		if err == io.EOF {
			return vectors, nil
		}
	}
}
