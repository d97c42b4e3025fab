// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides key, tracker and ID generation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same election ID and salt always produce the same key, so nothing is
stored in the database.

# Ballot Trackers

Every cast ballot gets a tracker the voter can use to confirm it was recorded:

	tracker := auth.GenerateTracker(electionID, ballotID, selections, salt)

Trackers are base62 in dash-separated groups of four, e.g. "3fQz-9aKd-Lm2".

# ID Generation

	id, err := auth.GenerateID(16)  // 32 hex characters
	ballotID := auth.NewBallotID()  // UUID

# IP Hashing

For privacy-preserving auditing of where ballots were cast from:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
