// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotmap API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ElectionHandler: Store definitions, serve maps and selection counts
  - BallotHandler: Encode, cast and look up ballots
  - TallyHandler: Preview and submit tallies, serve sealed results
  - DeviceHandler: Device registration and election history

Handlers that need an election map share one MapCache:

	maps, err := handlers.NewMapCache(cfg)
	ballotHandler := handlers.NewBallotHandler(db, cfg, maps)

# Map Cache

Building a map is deterministic in the definition, so maps are cached in
an LRU keyed by the definition's SHA-256 fingerprint (stored on the
election row). Cached maps are shared and must not be modified.

# Election Lifecycle

Elections are open when created and closed by submitting the final tally:

	POST /elections               → CreateElection (returns admin_key, map)
	POST /elections/{id}/ballots  → CastBallot (open only)
	POST /elections/{id}/tally    → SubmitTally (decodes, snapshots, closes)
	GET  /elections/{id}/results  → GetResults (closed only)

Admin operations require the X-Admin-Key header.

# Casting

CastBallot parses votes against the definition, encodes them with the
cached map and records the vector with a disposition of cast (default)
or spoiled. The election's recorded_count is bumped and read back inside
the insert transaction, so each ballot's sequence number is unique;
ballot_count only moves for cast ballots, and only cast ballots reach the
tally. The tracker is an HMAC over the election, ballot ID and recorded
vector, unique within an election.

EncodeBallots encodes a JSON array of ballots in one request and returns
the vectors in the same order.

With STRICT_BALLOTS set, ballots are validated first and over-votes,
repeated candidates and unrecognized yes/no values are rejected.

# Errors

Anything the election package rejects (bad definitions, unknown styles,
write-in overflow, tally length mismatch) is returned as 422 with the
error text. Unknown elections are 404, bad admin keys 401, casting or
tallying a closed election 409, and reading results while open 403.

# Device Tracking

Optional tracking of voting equipment:

	POST /devices/register      → Register
	GET /devices/me             → GetMe
	GET /devices/my-elections   → GetMyElections

Device operations require the X-Device-UUID header. Creating an election
links the device as admin; casting links it as station. Devices first
seen through a ballot are recorded as web kiosks; only a device
registered as bmd or scanner may record a spoiled ballot (403 otherwise).
*/
package handlers
