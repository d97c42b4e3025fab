// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotmap/election"
	"github.com/danielhkuo/ballotmap/middleware"
	"github.com/danielhkuo/ballotmap/models"
)

// loadElection reads an election row and decodes its stored definition.
// Returns sql.ErrNoRows when the election does not exist.
func loadElection(db *sql.DB, electionID string) (models.ElectionRecord, *election.Election, error) {
	var rec models.ElectionRecord
	var definition string

	err := db.QueryRow(`
		SELECT id, title, status, definition, fingerprint, number_of_selections,
		       ballot_count, recorded_count, closed_at, final_snapshot_id, created_at
		FROM election
		WHERE id = $1
	`, electionID).Scan(
		&rec.ID, &rec.Title, &rec.Status, &definition, &rec.Fingerprint,
		&rec.NumberOfSelections, &rec.BallotCount, &rec.RecordedCount, &rec.ClosedAt,
		&rec.FinalSnapshotID, &rec.CreatedAt,
	)
	if err != nil {
		return rec, nil, err
	}

	var def election.Election
	if err := json.Unmarshal([]byte(definition), &def); err != nil {
		return rec, nil, fmt.Errorf("corrupt definition for election %s: %w", electionID, err)
	}

	return rec, &def, nil
}

// writeLoadError maps a loadElection failure to a response.
func writeLoadError(w http.ResponseWriter, electionID string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	slog.Error("failed to load election", "election_id", electionID, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}

// writeElectionError reports a definition or ballot the election package
// rejected. Everything it returns describes bad input, not a server fault.
func writeElectionError(w http.ResponseWriter, err error) {
	middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
}
