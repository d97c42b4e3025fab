// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "fmt"

// EncodeBallot converts a ballot into a selection vector of length
// em.NumberOfSelections. If em is nil it is built from ballot.Election.
//
// Only contests in the ballot's style are touched. Each of them ends up
// with exactly ExpectedNumberOfSelected marked slots unless the voter
// over-voted; missing choices are filled from the null-vote slots.
func (m *Mapper) EncodeBallot(ballot Ballot, em *ElectionMap) ([]bool, error) {
	if em == nil {
		var err error
		if em, err = m.BuildElectionMap(ballot.Election); err != nil {
			return nil, err
		}
	}

	style, ok := em.BallotStyleMaps[ballot.BallotStyle]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBallotStyle, ballot.BallotStyle)
	}

	selections := make([]bool, em.NumberOfSelections)
	for _, id := range style.ContestOrder {
		cm := style.ContestMaps[id]
		if vote := ballot.Votes[id]; vote != nil {
			if err := markVote(selections, cm, vote); err != nil {
				return nil, err
			}
		}
		padNullVotes(selections, cm)
	}

	return selections, nil
}

// EncodeBallot uses the default ceiling when em is nil.
func EncodeBallot(ballot Ballot, em *ElectionMap) ([]bool, error) {
	return (&Mapper{}).EncodeBallot(ballot, em)
}

func markVote(selections []bool, cm *ContestMap, vote Vote) error {
	switch cm.Contest.Type {
	case ContestTypeCandidate:
		v, ok := vote.(CandidateVote)
		if !ok {
			return fmt.Errorf("%w: contest %q expects candidates", ErrVoteMismatch, cm.Contest.ID)
		}
		return markCandidates(selections, cm, v)
	case ContestTypeYesNo:
		v, ok := vote.(YesNoVote)
		if !ok {
			return fmt.Errorf("%w: contest %q expects yes or no", ErrVoteMismatch, cm.Contest.ID)
		}
		// Unrecognized values leave the contest to null-vote padding.
		if index, ok := cm.SelectionMap[string(v)]; ok {
			selections[index] = true
		}
		return nil
	default:
		return fmt.Errorf("%w: %q in contest %q", ErrUnknownContestType, cm.Contest.Type, cm.Contest.ID)
	}
}

func markCandidates(selections []bool, cm *ContestMap, vote CandidateVote) error {
	writeIn := cm.WriteInStartIndex
	for _, candidateID := range vote {
		if index, ok := cm.SelectionMap[candidateID]; ok {
			selections[index] = true
			continue
		}
		if !cm.HasWriteIns() || writeIn >= cm.NullVoteStartIndex {
			return &WriteInCapacityError{ContestID: cm.Contest.ID, Slots: cm.WriteInSlots()}
		}
		selections[writeIn] = true
		writeIn++
	}
	return nil
}

func padNullVotes(selections []bool, cm *ContestMap) {
	marked := 0
	for i := cm.StartIndex; i <= cm.EndIndex; i++ {
		if selections[i] {
			marked++
		}
	}
	for i := cm.NullVoteStartIndex; i <= cm.EndIndex && marked < cm.ExpectedNumberOfSelected; i++ {
		if !selections[i] {
			selections[i] = true
			marked++
		}
	}
}
