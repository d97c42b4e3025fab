// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotmap/auth"
	"github.com/danielhkuo/ballotmap/cliparse"
	"github.com/danielhkuo/ballotmap/middleware"
	"github.com/danielhkuo/ballotmap/models"
)

// DeviceHandler tracks the voting equipment (ballot-marking devices,
// scanners, kiosks) that creates elections and casts ballots.
type DeviceHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDeviceHandler(db *sql.DB, cfg cliparse.Config) *DeviceHandler {
	return &DeviceHandler{db: db, cfg: cfg}
}

// Register handles POST /devices/register
// Registers a device and returns its device_id (or finds existing)
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	deviceUUID := r.Header.Get("X-Device-UUID")
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var req models.RegisterDeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !isValidKind(req.Kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "kind must be one of: bmd, scanner, web")
		return
	}

	var existingID string
	err := h.db.QueryRow(`
		SELECT id FROM device WHERE device_uuid = $1
	`, deviceUUID).Scan(&existingID)

	if err == nil {
		// Re-registering may correct the kind recorded by an implicit create
		_, err = h.db.Exec(`
			UPDATE device SET kind = $1, last_seen_at = $2 WHERE id = $3
		`, req.Kind, time.Now(), existingID)
		if err != nil {
			slog.Error("failed to update device last_seen_at", "error", err)
		}

		slog.Info("device registered (existing)", "device_id", existingID)
		middleware.JSONResponse(w, http.StatusOK, models.RegisterDeviceResponse{
			DeviceID: existingID,
			IsNew:    false,
		})
		return
	}

	if err != sql.ErrNoRows {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	deviceID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate device ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register device")
		return
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO device (id, device_uuid, kind, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, deviceID, deviceUUID, req.Kind, now, now)

	if err != nil {
		slog.Error("failed to insert device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register device")
		return
	}

	slog.Info("device registered (new)", "device_id", deviceID, "kind", req.Kind)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterDeviceResponse{
		DeviceID: deviceID,
		IsNew:    true,
	})
}

// GetMe handles GET /devices/me
// Returns current device info
func (h *DeviceHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	deviceUUID := r.Header.Get("X-Device-UUID")
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var device models.DeviceInfo
	err := h.db.QueryRow(`
		SELECT id, kind, created_at, last_seen_at
		FROM device
		WHERE device_uuid = $1
	`, deviceUUID).Scan(&device.ID, &device.Kind, &device.CreatedAt, &device.LastSeenAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Update last_seen_at
	_, err = h.db.Exec(`
		UPDATE device SET last_seen_at = $1 WHERE id = $2
	`, time.Now(), device.ID)
	if err != nil {
		slog.Error("failed to update device last_seen_at", "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, device)
}

// GetMyElections handles GET /devices/my-elections
// Returns elections this device created (admin) or cast ballots on (station)
func (h *DeviceHandler) GetMyElections(w http.ResponseWriter, r *http.Request) {
	deviceUUID := r.Header.Get("X-Device-UUID")
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var deviceID string
	err := h.db.QueryRow(`
		SELECT id FROM device WHERE device_uuid = $1
	`, deviceUUID).Scan(&deviceID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = h.db.Exec(`
		UPDATE device SET last_seen_at = $1 WHERE id = $2
	`, time.Now(), deviceID)
	if err != nil {
		slog.Error("failed to update device last_seen_at", "error", err)
	}

	rows, err := h.db.Query(`
		SELECT e.id, e.title, e.status, de.role, de.linked_at, e.ballot_count
		FROM device_election de
		JOIN election e ON de.election_id = e.id
		WHERE de.device_id = $1
		ORDER BY de.linked_at DESC
	`, deviceID)
	if err != nil {
		slog.Error("failed to query device elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elections := []models.DeviceElectionSummary{}
	for rows.Next() {
		var summary models.DeviceElectionSummary
		if err := rows.Scan(
			&summary.ElectionID,
			&summary.Title,
			&summary.Status,
			&summary.Role,
			&summary.LinkedAt,
			&summary.BallotCount,
		); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		elections = append(elections, summary)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate device elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GetMyElectionsResponse{
		Elections: elections,
	})
}

// GetOrCreateDevice looks up or creates a device record from the X-Device-UUID header.
// Returns empty string if no header.
func GetOrCreateDevice(db *sql.DB, r *http.Request) (string, error) {
	deviceUUID := r.Header.Get("X-Device-UUID")
	if deviceUUID == "" {
		return "", nil
	}

	var deviceID string
	err := db.QueryRow(`
		SELECT id FROM device WHERE device_uuid = $1
	`, deviceUUID).Scan(&deviceID)

	if err == nil {
		if _, err := db.Exec(`UPDATE device SET last_seen_at = $1 WHERE id = $2`, time.Now(), deviceID); err != nil {
			slog.Warn("failed to update device last_seen_at", "device_id", deviceID, "error", err)
		}
		return deviceID, nil
	}

	if err != sql.ErrNoRows {
		return "", err
	}

	// Implicitly created devices are 'web' until they register a kind
	deviceID, err = auth.GenerateID(16)
	if err != nil {
		return "", err
	}

	now := time.Now()
	_, err = db.Exec(`
		INSERT INTO device (id, device_uuid, kind, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, deviceID, deviceUUID, models.KindWeb, now, now)

	if err != nil {
		return "", err
	}

	return deviceID, nil
}

// LinkDeviceToElection records that a device acted on an election. A
// device that created the election stays admin when it later casts ballots.
func LinkDeviceToElection(db *sql.DB, deviceID, electionID, role string) error {
	if deviceID == "" {
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO device_election (device_id, election_id, role, linked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_id, election_id) DO UPDATE SET
			role = CASE WHEN device_election.role = 'admin' THEN 'admin' ELSE EXCLUDED.role END
	`, deviceID, electionID, role, time.Now())

	return err
}

// deviceKind returns the recorded kind of a device.
func deviceKind(db *sql.DB, deviceID string) (string, error) {
	var kind string
	err := db.QueryRow(`SELECT kind FROM device WHERE id = $1`, deviceID).Scan(&kind)
	return kind, err
}

// canSpoil reports whether a device kind may record spoiled ballots.
// Spoiling is a poll-worker action on supervised equipment; web kiosks
// only cast.
func canSpoil(kind string) bool {
	return kind == models.KindBMD || kind == models.KindScanner
}

func isValidKind(kind string) bool {
	switch kind {
	case models.KindBMD, models.KindScanner, models.KindWeb:
		return true
	}
	return false
}
