// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"slices"
)

// DefaultMaxSelections is used when a Mapper has no ceiling configured.
const DefaultMaxSelections = 1000

// Mapper builds election maps under a maximum selection vector width
// imposed by the encryption engine. The zero value uses DefaultMaxSelections.
type Mapper struct {
	MaxSelections int
}

// NewMapper returns a Mapper with the given ceiling.
func NewMapper(maxSelections int) *Mapper {
	return &Mapper{MaxSelections: maxSelections}
}

func (m *Mapper) maxSelections() int {
	if m == nil || m.MaxSelections <= 0 {
		return DefaultMaxSelections
	}
	return m.MaxSelections
}

// MapContest lays out a single contest starting at startingIndex.
//
// A yes/no contest gets "yes", "no" and one null-vote slot. A candidate
// contest gets one slot per candidate, seats write-in slots if write-ins
// are allowed, and seats null-vote slots, in that order.
func MapContest(contest Contest, startingIndex int) (*ContestMap, error) {
	var choices, writeIns, nullVotes int
	var selectionMap map[string]int

	contest.Type = contest.Type.canonical()
	switch contest.Type {
	case ContestTypeYesNo:
		choices = 2
		nullVotes = 1
		selectionMap = map[string]int{
			ChoiceYes: startingIndex,
			ChoiceNo:  startingIndex + 1,
		}
	case ContestTypeCandidate:
		if contest.Seats < 1 {
			return nil, fmt.Errorf("%w: contest %q has %d", ErrInvalidSeats, contest.ID, contest.Seats)
		}
		choices = len(contest.Candidates)
		nullVotes = contest.Seats
		if contest.AllowWriteIns {
			writeIns = contest.Seats
		}
		selectionMap = make(map[string]int, choices)
		for i, candidate := range contest.Candidates {
			if _, dup := selectionMap[candidate.ID]; dup {
				return nil, fmt.Errorf("%w: %q in contest %q", ErrDuplicateCandidateID, candidate.ID, contest.ID)
			}
			selectionMap[candidate.ID] = startingIndex + i
		}
	default:
		return nil, fmt.Errorf("%w: %q in contest %q", ErrUnknownContestType, contest.Type, contest.ID)
	}

	endIndex := startingIndex + choices + writeIns + nullVotes - 1
	writeInStart := endIndex
	if writeIns > 0 {
		writeInStart = startingIndex + choices
	}

	return &ContestMap{
		Contest:                  contest,
		SelectionMap:             selectionMap,
		NumberOfSelections:       choices + writeIns + nullVotes,
		ExpectedNumberOfSelected: nullVotes,
		StartIndex:               startingIndex,
		EndIndex:                 endIndex,
		WriteInStartIndex:        writeInStart,
		NullVoteStartIndex:       startingIndex + choices + writeIns,
	}, nil
}

// BuildElectionMap lays out every contest of the election in declared
// order and derives the per-ballot-style subsets.
func (m *Mapper) BuildElectionMap(e *Election) (*ElectionMap, error) {
	if e == nil {
		return nil, ErrNoElection
	}

	em := &ElectionMap{
		ContestMaps:     make(map[string]*ContestMap, len(e.Contests)),
		ContestOrder:    make([]string, 0, len(e.Contests)),
		BallotStyleMaps: make(map[string]*BallotStyleMap, len(e.BallotStyles)),
	}

	index := 0
	for _, contest := range e.Contests {
		if _, dup := em.ContestMaps[contest.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateContestID, contest.ID)
		}
		cm, err := MapContest(contest, index)
		if err != nil {
			return nil, err
		}
		em.ContestMaps[contest.ID] = cm
		em.ContestOrder = append(em.ContestOrder, contest.ID)
		em.NumberOfSelections += cm.NumberOfSelections
		index = cm.EndIndex + 1
	}

	if limit := m.maxSelections(); em.NumberOfSelections <= 0 || em.NumberOfSelections > limit {
		return nil, &SelectionCountError{Count: em.NumberOfSelections, Max: limit}
	}

	for _, style := range e.BallotStyles {
		if _, dup := em.BallotStyleMaps[style.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBallotStyleID, style.ID)
		}
		em.BallotStyleMaps[style.ID] = ballotStyleMap(style, em)
	}

	return em, nil
}

func ballotStyleMap(style BallotStyle, em *ElectionMap) *BallotStyleMap {
	bsm := &BallotStyleMap{
		ContestMaps:  make(map[string]*ContestMap),
		ContestOrder: []string{},
	}
	for _, id := range em.ContestOrder {
		cm := em.ContestMaps[id]
		if !slices.Contains(style.Districts, cm.Contest.DistrictID) {
			continue
		}
		bsm.ContestMaps[id] = cm
		bsm.ContestOrder = append(bsm.ContestOrder, id)
		bsm.ExpectedNumberOfSelected += cm.ExpectedNumberOfSelected
	}
	return bsm
}

// NumberOfSelections is the selection vector width of the election.
func (m *Mapper) NumberOfSelections(e *Election) (int, error) {
	em, err := m.BuildElectionMap(e)
	if err != nil {
		return 0, err
	}
	return em.NumberOfSelections, nil
}

// BuildElectionMap uses the default ceiling.
func BuildElectionMap(e *Election) (*ElectionMap, error) {
	return (&Mapper{}).BuildElectionMap(e)
}

// NumberOfSelections uses the default ceiling.
func NumberOfSelections(e *Election) (int, error) {
	return (&Mapper{}).NumberOfSelections(e)
}
