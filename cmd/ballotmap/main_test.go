// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/ballotmap/election"
)

const electionJSON = `{
  "title": "Sample",
  "contests": [
    {"id": "Q1", "districtId": "d1", "type": "yesno"},
    {"id": "C1", "districtId": "d1", "type": "candidate", "seats": 1, "allowWriteIns": true,
     "candidates": [{"id": "A"}, {"id": "B"}, {"id": "C"}, {"id": "D"}]}
  ],
  "ballotStyles": [{"id": "bs1", "districts": ["d1"]}]
}`

const electionTOML = `
title = "Sample"

[[contests]]
id = "Q1"
districtId = "d1"
type = "yesno"

[[contests]]
id = "C1"
districtId = "d1"
type = "candidate"
seats = 1
allowWriteIns = true

  [[contests.candidates]]
  id = "A"

  [[contests.candidates]]
  id = "B"

  [[contests.candidates]]
  id = "C"

  [[contests.candidates]]
  id = "D"

[[ballotStyles]]
id = "bs1"
districts = ["d1"]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"ballotmap"}, args...))
	return out.String(), err
}

func TestWidth(t *testing.T) {
	for _, tc := range []struct {
		name    string
		file    string
		content string
	}{
		{"json", "election.json", electionJSON},
		{"toml", "election.toml", electionTOML},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.file, tc.content)
			out, err := run(t, "width", path)
			if err != nil {
				t.Fatalf("width error = %v", err)
			}
			if strings.TrimSpace(out) != "9" {
				t.Errorf("width = %q, want 9", out)
			}
		})
	}
}

func TestWidthRespectsMaxSelections(t *testing.T) {
	path := writeFile(t, "election.json", electionJSON)

	_, err := run(t, "-m", "4", "width", path)
	if !errors.Is(err, election.ErrInvalidSelectionCount) {
		t.Errorf("Expected ErrInvalidSelectionCount, got %v", err)
	}
}

func TestTOMLMatchesJSON(t *testing.T) {
	fromJSON, err := readElection(writeFile(t, "election.json", electionJSON))
	if err != nil {
		t.Fatalf("readElection(json) error = %v", err)
	}
	fromTOML, err := readElection(writeFile(t, "election.toml", electionTOML))
	if err != nil {
		t.Fatalf("readElection(toml) error = %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromTOML); diff != "" {
		t.Errorf("definitions differ (-json +toml):\n%s", diff)
	}
}

func TestMap(t *testing.T) {
	path := writeFile(t, "election.json", electionJSON)

	out, err := run(t, "map", path)
	if err != nil {
		t.Fatalf("map error = %v", err)
	}

	var em election.ElectionMap
	if err := json.Unmarshal([]byte(out), &em); err != nil {
		t.Fatalf("map output is not JSON: %v", err)
	}
	if em.ContestMaps["C1"].WriteInStartIndex != 7 || em.ContestMaps["C1"].NullVoteStartIndex != 8 {
		t.Errorf("Unexpected C1 layout: %+v", em.ContestMaps["C1"])
	}
}

func TestEncode(t *testing.T) {
	electionPath := writeFile(t, "election.json", electionJSON)

	tests := []struct {
		name    string
		ballot  string
		strict  bool
		want    string
		wantErr error
	}{
		{"choices", `{"ballot_style":"bs1","votes":{"Q1":"yes","C1":["B"]}}`, false, "100010000", nil},
		{"write-in", `{"ballot_style":"bs1","votes":{"C1":["Zed"]}}`, false, "001000010", nil},
		{"over-vote lenient", `{"ballot_style":"bs1","votes":{"C1":["A","B"]}}`, false, "001110000", nil},
		{"over-vote strict", `{"ballot_style":"bs1","votes":{"C1":["A","B"]}}`, true, "", election.ErrOverVote},
		{"unknown style", `{"ballot_style":"bs2","votes":{}}`, false, "", election.ErrUnknownBallotStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ballotPath := writeFile(t, "ballot.json", tt.ballot)
			args := []string{"encode"}
			if tt.strict {
				args = append(args, "--strict")
			}
			out, err := run(t, append(args, electionPath, ballotPath)...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("encode error = %v", err)
			}
			if strings.TrimSpace(out) != tt.want {
				t.Errorf("encode = %q, want %q", strings.TrimSpace(out), tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	electionPath := writeFile(t, "election.json", electionJSON)

	out, err := run(t, "decode", electionPath, writeFile(t, "tally.json", `[5,4,1,3,2,2,1,2,0]`))
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}

	var tallies []election.ContestTally
	if err := json.Unmarshal([]byte(out), &tallies); err != nil {
		t.Fatalf("decode output is not JSON: %v", err)
	}
	if len(tallies) != 2 {
		t.Fatalf("Expected 2 contests, got %d", len(tallies))
	}
	want := map[string]int64{"A": 3, "B": 2, "C": 2, "D": 1, "write-in": 2}
	if diff := cmp.Diff(want, tallies[1].Results); diff != "" {
		t.Errorf("C1 results mismatch (-want +got):\n%s", diff)
	}

	_, err = run(t, "decode", electionPath, writeFile(t, "short.json", `[1,2]`))
	if !errors.Is(err, election.ErrTallyLengthMismatch) {
		t.Errorf("Expected ErrTallyLengthMismatch, got %v", err)
	}
}

func TestTally(t *testing.T) {
	electionPath := writeFile(t, "election.json", electionJSON)
	selections := writeFile(t, "selections.txt", "# cast ballots\n100100000\n\n010000010\n100100000\n")

	out, err := run(t, "tally", electionPath, selections)
	if err != nil {
		t.Fatalf("tally error = %v", err)
	}

	var resp struct {
		BallotCount int     `json:"ballot_count"`
		TallyResult []int64 `json:"tally_result"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("tally output is not JSON: %v", err)
	}
	if resp.BallotCount != 3 {
		t.Errorf("Expected 3 ballots, got %d", resp.BallotCount)
	}
	if diff := cmp.Diff([]int64{2, 1, 0, 2, 0, 0, 0, 1, 0}, resp.TallyResult); diff != "" {
		t.Errorf("tally mismatch (-want +got):\n%s", diff)
	}

	bad := writeFile(t, "bad.txt", "1001\n")
	if _, err := run(t, "tally", electionPath, bad); !errors.Is(err, election.ErrTallyLengthMismatch) {
		t.Errorf("Expected ErrTallyLengthMismatch for short vector, got %v", err)
	}
}

func TestWrongArgumentCount(t *testing.T) {
	if _, err := run(t, "width"); !errors.Is(err, errUsage) {
		t.Errorf("Expected errUsage, got %v", err)
	}
}

func TestTallyWideElection(t *testing.T) {
	const candidates = 70000

	var def strings.Builder
	def.WriteString(`{"contests":[{"id":"C1","districtId":"d1","type":"candidate","seats":1,"candidates":[`)
	for i := 0; i < candidates; i++ {
		if i > 0 {
			def.WriteByte(',')
		}
		fmt.Fprintf(&def, `{"id":"c%d"}`, i)
	}
	def.WriteString(`]}],"ballotStyles":[{"id":"bs1","districts":["d1"]}]}`)
	electionPath := writeFile(t, "wide.json", def.String())

	// One selected candidate; the final line has no trailing newline.
	vector := "1" + strings.Repeat("0", candidates)
	selections := writeFile(t, "wide.txt", vector+"\n"+vector)

	out, err := run(t, "-m", "100000", "tally", electionPath, selections)
	if err != nil {
		t.Fatalf("tally error = %v", err)
	}

	var resp struct {
		BallotCount int     `json:"ballot_count"`
		TallyResult []int64 `json:"tally_result"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("tally output is not JSON: %v", err)
	}
	if resp.BallotCount != 2 {
		t.Errorf("Expected 2 ballots, got %d", resp.BallotCount)
	}
	if len(resp.TallyResult) != candidates+1 {
		t.Fatalf("Expected %d counts, got %d", candidates+1, len(resp.TallyResult))
	}
	if resp.TallyResult[0] != 2 || resp.TallyResult[candidates] != 0 {
		t.Errorf("Unexpected counts: first=%d null=%d", resp.TallyResult[0], resp.TallyResult[candidates])
	}
}
