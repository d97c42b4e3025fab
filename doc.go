// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotmap API server.

ballotmap lays out an election as a fixed-width selection vector, encodes
ballots into that vector for a homomorphic tallying backend, and decodes
the summed tally back into per-contest, per-choice counts.

# Starting the Server

SQLite is the default store, so a local server needs only the two salts:

	ADMIN_KEY_SALT=... TRACKER_SALT=... go run .

Or against PostgreSQL with flags:

	go run . -t postgres -d "postgres://..." -p 3318

A .env file in the working directory is read if present.

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - TRACKER_SALT (-tracker-salt): Secret for ballot trackers and IP hashes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (required for postgres)
  - MAX_SELECTIONS (-max-selections): Selection vector ceiling (default: 1000)
  - STRICT_BALLOTS (-strict): Reject over-votes instead of recording them
  - MAP_CACHE_SIZE (-map-cache): Election maps kept in memory (default: 64)

# Architecture

  - election: Index mapper, ballot encoder and tally decoder
  - handlers: HTTP request handlers (elections, ballots, tally, devices)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Admin keys, ballot IDs and trackers
  - db: Connection, schema and selection storage format
  - cliparse: Configuration parsing
  - cmd/ballotmap: Offline CLI over the election package

See package documentation for each component.
*/
package main
