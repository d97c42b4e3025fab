// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"

	"github.com/danielhkuo/ballotmap/election"
)

// Election status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Ballot dispositions. Spoiled ballots are recorded but never tallied.
const (
	DispositionCast    = "cast"
	DispositionSpoiled = "spoiled"
)

// Request types

type CreateElectionRequest struct {
	Title    string            `json:"title"`
	Election election.Election `json:"election"`
}

// contest id -> raw vote; candidate contests take an array of ids (or
// objects with an "id"), yes/no contests take "yes" or "no"
type BallotRequest struct {
	BallotStyle string                     `json:"ballot_style"`
	Votes       map[string]json.RawMessage `json:"votes"`
	Disposition string                     `json:"disposition,omitempty"` // "cast" (default) or "spoiled"
}

type TallyRequest struct {
	TallyResult []int64 `json:"tally_result"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID         string                `json:"election_id"`
	AdminKey           string                `json:"admin_key"`
	NumberOfSelections int                   `json:"number_of_selections"`
	ElectionMap        *election.ElectionMap `json:"election_map"`
}

type SelectionsResponse struct {
	NumberOfSelections int `json:"number_of_selections"`
}

type EncodeBallotResponse struct {
	Selections               []bool `json:"selections"`
	ExpectedNumberOfSelected int    `json:"expected_number_of_selected"`
}

type CastBallotResponse struct {
	BallotID               string `json:"ballot_id"`
	Tracker                string `json:"tracker"`
	Disposition            string `json:"disposition"`
	CurrentNumberOfBallots int    `json:"current_number_of_ballots"`
	Selections             []bool `json:"selections"`
}

type BallotCountResponse struct {
	BallotCount  int `json:"ballot_count"`
	SpoiledCount int `json:"spoiled_count"`
}

type TrackerLookupResponse struct {
	BallotID    string    `json:"ballot_id"`
	BallotStyle string    `json:"ballot_style"`
	Disposition string    `json:"disposition"`
	Sequence    int       `json:"sequence"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type TallyPreviewResponse struct {
	BallotCount int                     `json:"ballot_count"`
	TallyResult []int64                 `json:"tally_result"`
	Tallies     []election.ContestTally `json:"tallies"`
}

type SubmitTallyResponse struct {
	ClosedAt time.Time     `json:"closed_at"`
	Snapshot TallySnapshot `json:"snapshot"`
}

type ResultsResponse struct {
	Election ElectionRecord `json:"election"`
	Snapshot TallySnapshot  `json:"snapshot"`
}

// Domain types

type ElectionRecord struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Status             string     `json:"status"`
	Fingerprint        string     `json:"fingerprint"`
	NumberOfSelections int        `json:"number_of_selections"`
	BallotCount        int        `json:"ballot_count"`
	RecordedCount      int        `json:"recorded_count"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
	FinalSnapshotID    *string    `json:"final_snapshot_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type ElectionWithDefinition struct {
	Election   ElectionRecord    `json:"election"`
	Definition election.Election `json:"definition"`
}

type Ballot struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	BallotStyle string    `json:"ballot_style"`
	Sequence    int       `json:"sequence"`
	Tracker     string    `json:"tracker"`
	Disposition string    `json:"disposition"`
	Selections  string    `json:"-"`
	SubmittedAt time.Time `json:"submitted_at"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
}

// TallySnapshot is the frozen outcome recorded when an election closes.
type TallySnapshot struct {
	ID          string                  `json:"id"`
	ElectionID  string                  `json:"election_id"`
	ComputedAt  time.Time               `json:"computed_at"`
	BallotCount int                     `json:"ballot_count"`
	TallyResult []int64                 `json:"tally_result"`
	Tallies     []election.ContestTally `json:"tallies"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
