// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: "sqlite" (default) or "postgres"
  - DatabaseURL: Connection string (default file:ballotmap.db for sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - TrackerSalt: Secret for ballot trackers and IP hashes (required)
  - MaxSelections: Widest selection vector accepted (default: 1000)
  - StrictBallots: Reject over-votes instead of recording them
  - MapCacheSize: Election maps kept in the LRU (default: 64)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-admin-salt      Admin key salt
	-tracker-salt    Ballot tracker salt
	-max-selections  Selection vector ceiling
	-strict          Strict ballot validation
	-map-cache       Map cache size

# Environment Variables

Flags fall back to environment variables, which may come from a .env file
in the working directory (loaded with godotenv; real environment wins):

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_KEY_SALT → -admin-salt
	TRACKER_SALT   → -tracker-salt
	MAX_SELECTIONS → -max-selections
	STRICT_BALLOTS → -strict
	MAP_CACHE_SIZE → -map-cache

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - ADMIN_KEY_SALT or TRACKER_SALT is missing
  - DATABASE_TYPE is not sqlite or postgres
  - postgres is selected without DATABASE_URL
  - a numeric setting does not parse, or MAX_SELECTIONS is below 1
*/
package cliparse
