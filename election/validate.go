// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "fmt"

// Validate is the strict pass for callers that must reject ballots
// EncodeBallot would accept: unrecognized yes/no values, over-votes,
// repeated candidates and votes outside the ballot style.
func Validate(ballot Ballot, em *ElectionMap) error {
	if em == nil {
		return ErrNoElection
	}
	style, ok := em.BallotStyleMaps[ballot.BallotStyle]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBallotStyle, ballot.BallotStyle)
	}

	for contestID, vote := range ballot.Votes {
		if vote == nil {
			continue
		}
		cm, ok := style.ContestMaps[contestID]
		if !ok {
			if _, known := em.ContestMaps[contestID]; !known {
				return fmt.Errorf("%w: %q", ErrUnknownContest, contestID)
			}
			return fmt.Errorf("%w: %q", ErrContestNotInStyle, contestID)
		}

		switch v := vote.(type) {
		case CandidateVote:
			if cm.Contest.Type != ContestTypeCandidate {
				return fmt.Errorf("%w: contest %q", ErrVoteMismatch, contestID)
			}
			if err := validateCandidates(cm, v); err != nil {
				return err
			}
		case YesNoVote:
			if cm.Contest.Type != ContestTypeYesNo {
				return fmt.Errorf("%w: contest %q", ErrVoteMismatch, contestID)
			}
			if _, ok := cm.SelectionMap[string(v)]; !ok {
				return fmt.Errorf("%w: %q in contest %q", ErrUnknownChoice, string(v), contestID)
			}
		}
	}

	return nil
}

func validateCandidates(cm *ContestMap, vote CandidateVote) error {
	if len(vote) > cm.ExpectedNumberOfSelected {
		return fmt.Errorf("%w: %d choices for %d seats in contest %q",
			ErrOverVote, len(vote), cm.ExpectedNumberOfSelected, cm.Contest.ID)
	}

	seen := make(map[string]bool, len(vote))
	writeIns := 0
	for _, candidateID := range vote {
		if seen[candidateID] {
			return fmt.Errorf("%w: %q in contest %q", ErrDuplicateChoice, candidateID, cm.Contest.ID)
		}
		seen[candidateID] = true
		if _, ok := cm.SelectionMap[candidateID]; !ok {
			writeIns++
		}
	}
	if writeIns > cm.WriteInSlots() {
		return &WriteInCapacityError{ContestID: cm.Contest.ID, Slots: cm.WriteInSlots()}
	}

	return nil
}
