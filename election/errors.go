// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
)

var (
	ErrNoElection              = errors.New("election is required")
	ErrInvalidSelectionCount   = errors.New("invalid number of selections")
	ErrDuplicateContestID      = errors.New("duplicate contest id")
	ErrDuplicateCandidateID    = errors.New("duplicate candidate id")
	ErrDuplicateBallotStyleID  = errors.New("duplicate ballot style id")
	ErrUnknownContestType      = errors.New("unknown contest type")
	ErrInvalidSeats            = errors.New("seats must be positive")
	ErrTallyLengthMismatch     = errors.New("tally length does not match number of selections")
	ErrUnknownBallotStyle      = errors.New("unknown ballot style")
	ErrWriteInCapacityExceeded = errors.New("write-in capacity exceeded")
	ErrUnknownContest          = errors.New("unknown contest")
	ErrVoteMismatch            = errors.New("vote does not match contest type")

	// Returned by Validate only.
	ErrUnknownChoice     = errors.New("unknown choice")
	ErrOverVote          = errors.New("too many selections")
	ErrDuplicateChoice   = errors.New("duplicate choice")
	ErrContestNotInStyle = errors.New("contest not in ballot style")
)

// SelectionCountError reports a selection vector width that is zero or
// above the configured maximum.
type SelectionCountError struct {
	Count int
	Max   int
}

func (e *SelectionCountError) Error() string {
	if e.Count <= 0 {
		return fmt.Sprintf("%v: election has no selections", ErrInvalidSelectionCount)
	}
	return fmt.Sprintf("%v: %d exceeds maximum of %d", ErrInvalidSelectionCount, e.Count, e.Max)
}

func (e *SelectionCountError) Unwrap() error { return ErrInvalidSelectionCount }

// TallyLengthError reports a vector whose length differs from the
// election's number of selections.
type TallyLengthError struct {
	Got  int
	Want int
}

func (e *TallyLengthError) Error() string {
	return fmt.Sprintf("%v: got %d, want %d", ErrTallyLengthMismatch, e.Got, e.Want)
}

func (e *TallyLengthError) Unwrap() error { return ErrTallyLengthMismatch }

// WriteInCapacityError reports more write-ins than a contest has slots for.
type WriteInCapacityError struct {
	ContestID string
	Slots     int
}

func (e *WriteInCapacityError) Error() string {
	return fmt.Sprintf("%v: contest %q has %d write-in slots", ErrWriteInCapacityExceeded, e.ContestID, e.Slots)
}

func (e *WriteInCapacityError) Unwrap() error { return ErrWriteInCapacityExceeded }
