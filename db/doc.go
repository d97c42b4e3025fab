// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the configuration: modernc.org/sqlite (default)
or github.com/lib/pq for PostgreSQL.

	conn, err := db.Open(cfg)
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes.

# Tables

  - election: definition JSON, fingerprint, vector width, ballot counter
  - ballot: cast ballots with their selection vector and tracker
  - tally_snapshot: decoded results frozen when the election closes
  - device: registered ballot-marking devices
  - device_election: links devices to elections

# Relationships

	election 1──* ballot
	election 1──* tally_snapshot
	device *──* election (via device_election)

# Selection Vectors

Stored as text, one '0' or '1' per slot:

	db.FormatSelections([]bool{true, false}) // "10"
*/
package db
