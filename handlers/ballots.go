// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
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

var errElectionClosed = errors.New("election is closed")

// MaxBatchSize caps the ballots accepted by one batch encode request.
const MaxBatchSize = 500

type BallotHandler struct {
	db   *sql.DB
	cfg  cliparse.Config
	maps *MapCache
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config, maps *MapCache) *BallotHandler {
	return &BallotHandler{db: db, cfg: cfg, maps: maps}
}

// encode turns a ballot request into its selection vector. In strict mode
// over-votes and duplicate choices are rejected instead of recorded.
func (h *BallotHandler) encode(req models.BallotRequest, def *election.Election, em *election.ElectionMap) ([]bool, int, error) {
	votes, err := election.ParseVotes(def, req.Votes)
	if err != nil {
		return nil, 0, err
	}

	ballot := election.Ballot{
		Election:    def,
		BallotStyle: req.BallotStyle,
		Votes:       votes,
	}

	if h.cfg.StrictBallots {
		if err := election.Validate(ballot, em); err != nil {
			return nil, 0, err
		}
	}

	selections, err := h.maps.Mapper().EncodeBallot(ballot, em)
	if err != nil {
		return nil, 0, err
	}

	return selections, em.BallotStyleMaps[req.BallotStyle].ExpectedNumberOfSelected, nil
}

// EncodeBallot handles POST /elections/{id}/encode
// Returns the selection vector without recording anything. Works on closed
// elections too, so equipment can be checked after polls close.
func (h *BallotHandler) EncodeBallot(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var req models.BallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.BallotStyle == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ballot_style is required")
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

	selections, expected, err := h.encode(req, def, em)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EncodeBallotResponse{
		Selections:               selections,
		ExpectedNumberOfSelected: expected,
	})
}

// EncodeBallots handles POST /elections/{id}/encode/batch
// Encodes a list of ballots in order. The batch fails as a whole when any
// ballot is rejected, naming the offending position.
func (h *BallotHandler) EncodeBallots(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var reqs []models.BallotRequest
	if err := middleware.ParseJSONBody(r, &reqs); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(reqs) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one ballot is required")
		return
	}
	if len(reqs) > MaxBatchSize {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("at most %d ballots per batch", MaxBatchSize))
		return
	}
	for i, req := range reqs {
		if req.BallotStyle == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("ballots[%d]: ballot_style is required", i))
			return
		}
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

	results := make([]models.EncodeBallotResponse, 0, len(reqs))
	for i, req := range reqs {
		selections, expected, err := h.encode(req, def, em)
		if err != nil {
			writeElectionError(w, fmt.Errorf("ballots[%d]: %w", i, err))
			return
		}
		results = append(results, models.EncodeBallotResponse{
			Selections:               selections,
			ExpectedNumberOfSelected: expected,
		})
	}

	slog.Info("ballots encoded", "election_id", electionID, "count", len(results))

	middleware.JSONResponse(w, http.StatusOK, results)
}

// CastBallot handles POST /elections/{id}/ballots
// Encodes and records a ballot as cast or spoiled. Every recorded ballot
// takes the next sequence number; only cast ballots count toward the tally.
func (h *BallotHandler) CastBallot(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var req models.BallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.BallotStyle == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ballot_style is required")
		return
	}
	switch req.Disposition {
	case "":
		req.Disposition = models.DispositionCast
	case models.DispositionCast, models.DispositionSpoiled:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "disposition must be one of: cast, spoiled")
		return
	}

	rec, def, err := loadElection(h.db, electionID)
	if err != nil {
		writeLoadError(w, electionID, err)
		return
	}

	if rec.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}

	em, err := h.maps.GetByFingerprint(rec.Fingerprint, def)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	selections, _, err := h.encode(req, def, em)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	deviceID, err := GetOrCreateDevice(h.db, r)
	if err != nil {
		slog.Error("failed to resolve device", "error", err)
	}

	if req.Disposition == models.DispositionSpoiled {
		if deviceID == "" {
			middleware.ErrorResponse(w, http.StatusForbidden, "Spoiling a ballot requires a registered bmd or scanner device")
			return
		}
		kind, err := deviceKind(h.db, deviceID)
		if err != nil {
			slog.Error("failed to query device kind", "device_id", deviceID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !canSpoil(kind) {
			middleware.ErrorResponse(w, http.StatusForbidden, "Spoiling a ballot requires a registered bmd or scanner device")
			return
		}
	}

	ballot := models.Ballot{
		ID:          auth.NewBallotID(),
		ElectionID:  electionID,
		BallotStyle: req.BallotStyle,
		Disposition: req.Disposition,
		Selections:  store.FormatSelections(selections),
		SubmittedAt: time.Now(),
	}
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.TrackerSalt)
	userAgent := r.UserAgent()
	ballot.IPHash = &ipHash
	ballot.UserAgent = &userAgent
	ballot.Tracker = auth.GenerateTracker(electionID, ballot.ID, ballot.Selections, h.cfg.TrackerSalt)

	err = h.record(&ballot, deviceID)
	if errors.Is(err, errElectionClosed) {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}
	if err != nil {
		slog.Error("failed to record ballot", "election_id", electionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record ballot")
		return
	}

	if err := LinkDeviceToElection(h.db, deviceID, electionID, models.RoleStation); err != nil {
		slog.Error("failed to link device to election", "error", err)
	}

	slog.Info("ballot recorded",
		"election_id", electionID,
		"ballot_id", ballot.ID,
		"ballot_style", ballot.BallotStyle,
		"disposition", ballot.Disposition,
		"sequence", ballot.Sequence,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CastBallotResponse{
		BallotID:               ballot.ID,
		Tracker:                ballot.Tracker,
		Disposition:            ballot.Disposition,
		CurrentNumberOfBallots: ballot.Sequence,
		Selections:             selections,
	})
}

// record bumps the election's counters and inserts the ballot in one
// transaction, filling in ballot.Sequence. ballot_count only moves for
// cast ballots.
func (h *BallotHandler) record(ballot *models.Ballot, deviceID string) error {
	tx, err := h.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The status guard makes a concurrent close win over a late ballot
	cast := 0
	if ballot.Disposition == models.DispositionCast {
		cast = 1
	}

	res, err := tx.Exec(`
		UPDATE election
		SET recorded_count = recorded_count + 1, ballot_count = ballot_count + $1
		WHERE id = $2 AND status = $3
	`, cast, ballot.ElectionID, models.StatusOpen)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errElectionClosed
	}

	if err := tx.QueryRow(`
		SELECT recorded_count FROM election WHERE id = $1
	`, ballot.ElectionID).Scan(&ballot.Sequence); err != nil {
		return err
	}

	var device sql.NullString
	if deviceID != "" {
		device = sql.NullString{String: deviceID, Valid: true}
	}

	_, err = tx.Exec(`
		INSERT INTO ballot (id, election_id, ballot_style, sequence, tracker, disposition, selections, submitted_at, ip_hash, user_agent, device_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, ballot.ID, ballot.ElectionID, ballot.BallotStyle, ballot.Sequence, ballot.Tracker,
		ballot.Disposition, ballot.Selections, ballot.SubmittedAt, ballot.IPHash, ballot.UserAgent, device)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetBallotCount handles GET /elections/{id}/ballot-count
// Reports cast ballots and, separately, spoiled ones.
func (h *BallotHandler) GetBallotCount(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var cast, recorded int
	err := h.db.QueryRow(`
		SELECT ballot_count, recorded_count FROM election WHERE id = $1
	`, electionID).Scan(&cast, &recorded)
	if err != nil {
		writeLoadError(w, electionID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotCountResponse{
		BallotCount:  cast,
		SpoiledCount: recorded - cast,
	})
}

// LookupTracker handles GET /elections/{id}/ballots/{tracker}
// Lets a voter confirm their ballot was recorded. Selections are not
// returned.
func (h *BallotHandler) LookupTracker(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	tracker := r.PathValue("tracker")
	if electionID == "" || tracker == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id and tracker are required")
		return
	}

	var resp models.TrackerLookupResponse
	err := h.db.QueryRow(`
		SELECT id, ballot_style, disposition, sequence, submitted_at
		FROM ballot
		WHERE election_id = $1 AND tracker = $2
	`, electionID, tracker).Scan(&resp.BallotID, &resp.BallotStyle, &resp.Disposition, &resp.Sequence, &resp.SubmittedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
