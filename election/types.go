// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "strings"

// ContestType tags which variant a Contest is.
type ContestType string

const (
	ContestTypeYesNo     ContestType = "yesno"
	ContestTypeCandidate ContestType = "candidate"
)

// canonical folds case, so "YesNo" and "yesno" name the same type.
func (t ContestType) canonical() ContestType {
	return ContestType(strings.ToLower(string(t)))
}

// UnmarshalText accepts contest type tags in any case.
func (t *ContestType) UnmarshalText(text []byte) error {
	*t = ContestType(text).canonical()
	return nil
}

// Choice keys of a yes/no contest, and the synthetic tally key for write-ins.
const (
	ChoiceYes     = "yes"
	ChoiceNo      = "no"
	ChoiceWriteIn = "write-in"
)

// Definition types follow the VotingWorks election format (camelCase keys).

type Candidate struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	PartyID string `json:"partyId,omitempty"`
}

// Contest is either a yes/no contest or a candidate contest, selected by
// Type. Seats, Candidates and AllowWriteIns only apply to candidate contests.
type Contest struct {
	ID         string      `json:"id"`
	DistrictID string      `json:"districtId"`
	Type       ContestType `json:"type"`
	Title      string      `json:"title,omitempty"`

	Seats         int         `json:"seats,omitempty"`
	Candidates    []Candidate `json:"candidates,omitempty"`
	AllowWriteIns bool        `json:"allowWriteIns,omitempty"`
}

type BallotStyle struct {
	ID        string   `json:"id"`
	Districts []string `json:"districts"`
}

// Election is an ordered list of contests plus the ballot styles that
// select subsets of them. Contest order defines global index order.
type Election struct {
	Title        string        `json:"title,omitempty"`
	Contests     []Contest     `json:"contests"`
	BallotStyles []BallotStyle `json:"ballotStyles"`
}

// Vote is a voter's recorded choice in one contest: CandidateVote or YesNoVote.
type Vote interface {
	isVote()
}

// CandidateVote lists chosen candidate ids. Ids not in the contest's
// candidate list are write-ins.
type CandidateVote []string

// YesNoVote is "yes" or "no".
type YesNoVote string

func (CandidateVote) isVote() {}
func (YesNoVote) isVote()     {}

// Ballot is a completed ballot. A contest missing from Votes is an abstention.
type Ballot struct {
	Election    *Election
	BallotStyle string
	Votes       map[string]Vote
}

// ContestMap is the slice of the selection vector owned by one contest.
// EndIndex is inclusive. WriteInStartIndex equals EndIndex when the
// contest has no write-in slots.
type ContestMap struct {
	Contest                  Contest        `json:"contest"`
	SelectionMap             map[string]int `json:"selection_map"`
	NumberOfSelections       int            `json:"number_of_selections"`
	ExpectedNumberOfSelected int            `json:"expected_number_of_selected"`
	StartIndex               int            `json:"start_index"`
	EndIndex                 int            `json:"end_index"`
	WriteInStartIndex        int            `json:"write_in_start_index"`
	NullVoteStartIndex       int            `json:"null_vote_start_index"`
}

// HasWriteIns reports whether the contest has a write-in region.
func (cm *ContestMap) HasWriteIns() bool {
	return cm.WriteInStartIndex < cm.NullVoteStartIndex
}

// WriteInSlots is the number of write-in slots allocated to the contest.
func (cm *ContestMap) WriteInSlots() int {
	if !cm.HasWriteIns() {
		return 0
	}
	return cm.NullVoteStartIndex - cm.WriteInStartIndex
}

// BallotStyleMap is the subset of contest maps a ballot style can vote in.
type BallotStyleMap struct {
	ContestMaps              map[string]*ContestMap `json:"contest_maps"`
	ContestOrder             []string               `json:"contest_order"`
	ExpectedNumberOfSelected int                    `json:"expected_number_of_selected"`
}

// ElectionMap is the global layout of the selection vector. Contest maps
// are shared between ContestMaps and BallotStyleMaps and must be treated
// as read-only.
type ElectionMap struct {
	NumberOfSelections int                        `json:"number_of_selections"`
	ContestMaps        map[string]*ContestMap     `json:"contest_maps"`
	ContestOrder       []string                   `json:"contest_order"`
	BallotStyleMaps    map[string]*BallotStyleMap `json:"ballot_style_maps"`
}

// ContestTally is the decoded count for one contest.
type ContestTally struct {
	Contest Contest          `json:"contest"`
	Results map[string]int64 `json:"results"`
}
