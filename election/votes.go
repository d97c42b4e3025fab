// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ParseVotes resolves raw per-contest vote payloads against the election's
// contest types. Candidate contests take an array of candidate ids or
// candidate objects; yes/no contests take "yes"/"no" or a one-element array
// holding it. A null payload is an abstention and is dropped.
func ParseVotes(e *Election, raw map[string]json.RawMessage) (map[string]Vote, error) {
	if e == nil {
		return nil, ErrNoElection
	}

	contests := make(map[string]ContestType, len(e.Contests))
	for _, c := range e.Contests {
		contests[c.ID] = c.Type.canonical()
	}

	votes := make(map[string]Vote, len(raw))
	for contestID, payload := range raw {
		contestType, ok := contests[contestID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownContest, contestID)
		}
		if isNull(payload) {
			continue
		}

		var (
			vote Vote
			err  error
		)
		switch contestType {
		case ContestTypeCandidate:
			vote, err = parseCandidateVote(payload)
		case ContestTypeYesNo:
			vote, err = parseYesNoVote(payload)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownContestType, contestType)
		}
		if err != nil {
			return nil, fmt.Errorf("contest %q: %w", contestID, err)
		}
		votes[contestID] = vote
	}

	return votes, nil
}

func isNull(payload json.RawMessage) bool {
	return len(payload) == 0 || string(payload) == "null"
}

func parseCandidateVote(payload json.RawMessage) (CandidateVote, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("%w: expected an array of candidates", ErrVoteMismatch)
	}

	vote := make(CandidateVote, 0, len(entries))
	for _, entry := range entries {
		var id string
		if err := json.Unmarshal(entry, &id); err != nil {
			var candidate Candidate
			if err := json.Unmarshal(entry, &candidate); err != nil {
				return nil, fmt.Errorf("%w: candidate must be an id or an object", ErrVoteMismatch)
			}
			id = candidate.ID
		}
		if id == "" {
			return nil, fmt.Errorf("%w: candidate id is empty", ErrVoteMismatch)
		}
		vote = append(vote, id)
	}
	return vote, nil
}

func parseYesNoVote(payload json.RawMessage) (YesNoVote, error) {
	var s string
	if err := json.Unmarshal(payload, &s); err == nil {
		return YesNoVote(s), nil
	}
	var list []string
	if err := json.Unmarshal(payload, &list); err != nil || len(list) != 1 {
		return "", fmt.Errorf("%w: expected \"yes\" or \"no\"", ErrVoteMismatch)
	}
	return YesNoVote(list[0]), nil
}

// Fingerprint identifies an election definition by content. Two elections
// with the same fingerprint produce the same ElectionMap.
func Fingerprint(e *Election) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to marshal election: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
