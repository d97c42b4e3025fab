// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

Election definitions and maps are not redeclared here; requests and
responses embed the types from package election directly.

# Request Types

Types for parsing incoming JSON:

  - CreateElectionRequest: title, election (VotingWorks definition)
  - BallotRequest: ballot_style, votes (contest id -> raw vote), disposition;
    batch encoding takes a JSON array of them
  - TallyRequest: tally_result ([]int64, one count per selection)
  - RegisterDeviceRequest: kind

# Response Types

Types for JSON responses:

  - CreateElectionResponse: election_id, admin_key, number_of_selections, election_map
  - SelectionsResponse: number_of_selections
  - EncodeBallotResponse: selections, expected_number_of_selected (an array
    of them for batch encoding)
  - CastBallotResponse: ballot_id, tracker, disposition, current_number_of_ballots, selections
  - BallotCountResponse: ballot_count (cast), spoiled_count
  - TrackerLookupResponse: ballot_id, ballot_style, disposition, sequence, submitted_at
  - TallyPreviewResponse: ballot_count, tally_result, tallies
  - SubmitTallyResponse: closed_at, snapshot
  - ResultsResponse: election, snapshot
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - ElectionRecord: stored election metadata and lifecycle state
  - Ballot: one recorded ballot (cast or spoiled) and its selection vector
  - TallySnapshot: immutable tally recorded on close
  - DeviceInfo, DeviceElectionSummary: registered voting equipment

# Constants

Status values:

	StatusOpen   = "open"
	StatusClosed = "closed"

Ballot dispositions:

	DispositionCast    = "cast"
	DispositionSpoiled = "spoiled"

Device roles:

	RoleAdmin   = "admin"
	RoleStation = "station"

Device kinds:

	KindBMD     = "bmd"
	KindScanner = "scanner"
	KindWeb     = "web"
*/
package models
