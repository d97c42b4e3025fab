// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "testing"

// sampleElection is Q1 (yes/no) and C1 (A-D, one seat, write-ins) in d1.
func sampleElection() *Election {
	return &Election{
		Title: "Sample",
		Contests: []Contest{
			{ID: "Q1", DistrictID: "d1", Type: ContestTypeYesNo},
			{
				ID:            "C1",
				DistrictID:    "d1",
				Type:          ContestTypeCandidate,
				Seats:         1,
				AllowWriteIns: true,
				Candidates:    []Candidate{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
			},
		},
		BallotStyles: []BallotStyle{{ID: "bs1", Districts: []string{"d1"}}},
	}
}

// multiDistrictElection adds Q2 (yes/no) and C2 (X, Y, Z; two seats; no
// write-ins) in d2. Layout:
//
//	Q1 0-2, C1 3-8, Q2 9-11, C2 12-16 (null 15-16)
func multiDistrictElection() *Election {
	e := sampleElection()
	e.Contests = append(e.Contests,
		Contest{ID: "Q2", DistrictID: "d2", Type: ContestTypeYesNo},
		Contest{
			ID:         "C2",
			DistrictID: "d2",
			Type:       ContestTypeCandidate,
			Seats:      2,
			Candidates: []Candidate{{ID: "X"}, {ID: "Y"}, {ID: "Z"}},
		},
	)
	e.BallotStyles = []BallotStyle{
		{ID: "bs1", Districts: []string{"d1"}},
		{ID: "bs2", Districts: []string{"d1", "d2"}},
		{ID: "bs3", Districts: []string{"d3"}},
	}
	return e
}

func mustMap(t *testing.T, e *Election) *ElectionMap {
	t.Helper()
	em, err := BuildElectionMap(e)
	if err != nil {
		t.Fatalf("BuildElectionMap() error = %v", err)
	}
	return em
}

func countMarked(selections []bool, cm *ContestMap) int {
	n := 0
	for i := cm.StartIndex; i <= cm.EndIndex; i++ {
		if selections[i] {
			n++
		}
	}
	return n
}

func toTally(selections []bool) []int64 {
	tally := make([]int64, len(selections))
	for i, selected := range selections {
		if selected {
			tally[i] = 1
		}
	}
	return tally
}
