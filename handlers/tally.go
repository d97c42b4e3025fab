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
	"time"

	"github.com/danielhkuo/ballotmap/auth"
	"github.com/danielhkuo/ballotmap/cliparse"
	store "github.com/danielhkuo/ballotmap/db"
	"github.com/danielhkuo/ballotmap/election"
	"github.com/danielhkuo/ballotmap/middleware"
	"github.com/danielhkuo/ballotmap/models"
)

type TallyHandler struct {
	db   *sql.DB
	cfg  cliparse.Config
	maps *MapCache
}

func NewTallyHandler(db *sql.DB, cfg cliparse.Config, maps *MapCache) *TallyHandler {
	return &TallyHandler{db: db, cfg: cfg, maps: maps}
}

// PreviewTally handles GET /elections/{id}/tally/preview
// Admin only. Sums the recorded selection vectors and decodes the result
// without closing the election.
func (h *TallyHandler) PreviewTally(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	rec, def, err := loadElection(h.db, electionID)
	if err != nil {
		writeLoadError(w, electionID, err)
		return
	}

	em, err := h.maps.GetByFingerprint(rec.Fingerprint, def)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	vectors, err := loadSelections(h.db, electionID)
	if err != nil {
		slog.Error("failed to load ballots", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tallyResult, err := election.SumSelections(vectors, em.NumberOfSelections)
	if err != nil {
		slog.Error("stored ballot does not match election width", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Stored ballots are inconsistent")
		return
	}

	tallies, err := election.DecodeTally(tallyResult, em)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyPreviewResponse{
		BallotCount: len(vectors),
		TallyResult: tallyResult,
		Tallies:     tallies,
	})
}

// loadSelections returns the stored selection vector of every cast ballot
// in an election, in sequence order. Spoiled ballots are skipped.
func loadSelections(db *sql.DB, electionID string) ([][]bool, error) {
	rows, err := db.Query(`
		SELECT selections FROM ballot
		WHERE election_id = $1 AND disposition = $2
		ORDER BY sequence
	`, electionID, models.DispositionCast)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vectors := [][]bool{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		v, err := store.ParseSelections(raw)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, rows.Err()
}

// SubmitTally handles POST /elections/{id}/tally
// Admin only. Decodes an externally computed tally vector, freezes it as
// the final snapshot and closes the election.
func (h *TallyHandler) SubmitTally(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.TallyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TallyResult == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "tally_result is required")
		return
	}
	for i, count := range req.TallyResult {
		if count < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("tally_result[%d] is negative", i))
			return
		}
	}

	rec, def, err := loadElection(h.db, electionID)
	if err != nil {
		writeLoadError(w, electionID, err)
		return
	}

	if rec.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is already closed")
		return
	}

	em, err := h.maps.GetByFingerprint(rec.Fingerprint, def)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	tallies, err := election.DecodeTally(req.TallyResult, em)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	snapshotID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate snapshot ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}

	snapshot := models.TallySnapshot{
		ID:          snapshotID,
		ElectionID:  electionID,
		ComputedAt:  time.Now(),
		TallyResult: req.TallyResult,
		Tallies:     tallies,
	}

	err = h.close(&snapshot)
	if errors.Is(err, errElectionClosed) {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is already closed")
		return
	}
	if err != nil {
		slog.Error("failed to close election", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}

	slog.Info("election closed",
		"election_id", electionID,
		"snapshot_id", snapshotID,
		"ballot_count", snapshot.BallotCount,
	)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitTallyResponse{
		ClosedAt: snapshot.ComputedAt,
		Snapshot: snapshot,
	})
}

// close marks the election closed and stores the snapshot atomically,
// filling in snapshot.BallotCount.
func (h *TallyHandler) close(snapshot *models.TallySnapshot) error {
	tallyResult, err := json.Marshal(snapshot.TallyResult)
	if err != nil {
		return err
	}

	tx, err := h.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE election
		SET status = $1, closed_at = $2, final_snapshot_id = $3
		WHERE id = $4 AND status = $5
	`, models.StatusClosed, snapshot.ComputedAt, snapshot.ID, snapshot.ElectionID, models.StatusOpen)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errElectionClosed
	}

	if err := tx.QueryRow(`
		SELECT ballot_count FROM election WHERE id = $1
	`, snapshot.ElectionID).Scan(&snapshot.BallotCount); err != nil {
		return err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO tally_snapshot (id, election_id, computed_at, tally_result, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, snapshot.ID, snapshot.ElectionID, snapshot.ComputedAt, string(tallyResult), string(payload))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetResults handles GET /elections/{id}/results
// Results are sealed until the election is closed.
func (h *TallyHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	rec, _, err := loadElection(h.db, electionID)
	if err != nil {
		writeLoadError(w, electionID, err)
		return
	}

	if rec.Status != models.StatusClosed || rec.FinalSnapshotID == nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are sealed until the election is closed")
		return
	}

	var payload string
	err = h.db.QueryRow(`
		SELECT payload FROM tally_snapshot WHERE id = $1
	`, *rec.FinalSnapshotID).Scan(&payload)
	if err != nil {
		slog.Error("failed to query snapshot", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var snapshot models.TallySnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		slog.Error("failed to decode snapshot", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Corrupt snapshot")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Election: rec,
		Snapshot: snapshot,
	})
}
