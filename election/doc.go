// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election maps ballots onto the flat selection vector consumed by an
encryption and tallying engine, and maps tally vectors back to contest results.

# Layout

BuildElectionMap walks the contests in declared order and gives each one a
contiguous index range:

	yes/no:     [yes][no][null]
	candidate:  [c1 .. cn][write-in x seats][null x seats]

Write-in slots only exist when the contest allows write-ins. For an election
with yes/no contest Q1 and candidate contest C1 (A, B, C, D; one seat; write-ins)
the vector is nine wide:

	0:Q1 yes  1:Q1 no  2:Q1 null  3:A  4:B  5:C  6:D  7:write-in  8:null

# Encoding

EncodeBallot marks the voter's choices and then fills null-vote slots until
every contest in the ballot style holds exactly its expected number of marks
(one for yes/no, seats for candidate contests). Abstentions and under-votes
are therefore indistinguishable from full ballots once encrypted.

	em, err := election.NewMapper(cfg.MaxSelections).BuildElectionMap(e)
	selections, err := election.EncodeBallot(ballot, em)

Write-ins beyond the contest's write-in slots fail with
ErrWriteInCapacityExceeded. Unrecognized yes/no values and over-votes are
encoded as given; run Validate first to reject them.

# Decoding

DecodeTally checks the vector width and reports one ContestTally per contest,
with write-in slots summed under "write-in". Null-vote slots are never
reported.

All functions are pure and safe for concurrent use.
*/
package election
