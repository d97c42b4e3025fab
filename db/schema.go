// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Portable between SQLite and PostgreSQL: timestamps are always written by
// the application and JSON is kept in TEXT columns.
const schema = `
-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed')),
    definition TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    number_of_selections INTEGER NOT NULL,
    ballot_count INTEGER NOT NULL DEFAULT 0,
    recorded_count INTEGER NOT NULL DEFAULT 0,
    closed_at TIMESTAMP,
    final_snapshot_id TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);
CREATE INDEX IF NOT EXISTS idx_election_fingerprint ON election(fingerprint);

-- Recorded ballots (plaintext selection vectors, one character per slot).
-- Only cast ballots are tallied; spoiled ballots keep their sequence.
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    ballot_style TEXT NOT NULL,
    sequence INTEGER NOT NULL,
    tracker TEXT NOT NULL,
    disposition TEXT NOT NULL DEFAULT 'cast' CHECK (disposition IN ('cast', 'spoiled')),
    selections TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL,
    ip_hash TEXT,
    user_agent TEXT,
    device_id TEXT,
    UNIQUE (election_id, sequence),
    UNIQUE (election_id, tracker)
);

CREATE INDEX IF NOT EXISTS idx_ballot_election_id ON ballot(election_id);

-- Tally Snapshots
CREATE TABLE IF NOT EXISTS tally_snapshot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    computed_at TIMESTAMP NOT NULL,
    tally_result TEXT NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tally_snapshot_election_id ON tally_snapshot(election_id);

-- Devices
CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    device_uuid TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    last_seen_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_device_uuid ON device(device_uuid);

CREATE TABLE IF NOT EXISTS device_election (
    device_id TEXT NOT NULL REFERENCES device(id) ON DELETE CASCADE,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    role TEXT NOT NULL DEFAULT 'station',
    linked_at TIMESTAMP NOT NULL,
    PRIMARY KEY (device_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_device_election_device ON device_election(device_id);
`
