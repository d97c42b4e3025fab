// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/ballotmap/auth"
	"github.com/danielhkuo/ballotmap/cliparse"
	"github.com/danielhkuo/ballotmap/election"
	"github.com/danielhkuo/ballotmap/middleware"
	"github.com/danielhkuo/ballotmap/models"
)

type ElectionHandler struct {
	db   *sql.DB
	cfg  cliparse.Config
	maps *MapCache
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config, maps *MapCache) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg, maps: maps}
}

// CreateElection handles POST /elections
// Validates the definition by building its map, stores it, and returns the
// admin key together with the map.
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(req.Election.Title)
	}
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	fingerprint, err := election.Fingerprint(&req.Election)
	if err != nil {
		slog.Error("failed to fingerprint election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	em, err := h.maps.GetByFingerprint(fingerprint, &req.Election)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	definition, err := json.Marshal(req.Election)
	if err != nil {
		slog.Error("failed to encode election definition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	electionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}
	adminKey := auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt)

	_, err = h.db.Exec(`
		INSERT INTO election (id, title, status, definition, fingerprint, number_of_selections, ballot_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`, electionID, title, models.StatusOpen, string(definition), fingerprint, em.NumberOfSelections, time.Now())
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	if deviceID, err := GetOrCreateDevice(h.db, r); err != nil {
		slog.Error("failed to resolve device", "error", err)
	} else if err := LinkDeviceToElection(h.db, deviceID, electionID, models.RoleAdmin); err != nil {
		slog.Error("failed to link device to election", "error", err)
	}

	slog.Info("election created",
		"election_id", electionID,
		"contests", len(req.Election.Contests),
		"number_of_selections", em.NumberOfSelections,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID:         electionID,
		AdminKey:           adminKey,
		NumberOfSelections: em.NumberOfSelections,
		ElectionMap:        em,
	})
}

// GetElection handles GET /elections/{id}
// Returns election metadata and its definition
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	rec, def, err := loadElection(h.db, electionID)
	if err != nil {
		writeLoadError(w, electionID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithDefinition{
		Election:   rec,
		Definition: *def,
	})
}

// GetElectionMap handles GET /elections/{id}/map
func (h *ElectionHandler) GetElectionMap(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
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

	middleware.JSONResponse(w, http.StatusOK, em)
}

// GetNumberOfSelections handles GET /elections/{id}/selections
// The count was fixed when the election was stored.
func (h *ElectionHandler) GetNumberOfSelections(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var count int
	err := h.db.QueryRow(`
		SELECT number_of_selections FROM election WHERE id = $1
	`, electionID).Scan(&count)
	if err != nil {
		writeLoadError(w, electionID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SelectionsResponse{
		NumberOfSelections: count,
	})
}
