// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotmap/auth"
	"github.com/danielhkuo/ballotmap/cliparse"
	store "github.com/danielhkuo/ballotmap/db"
	"github.com/danielhkuo/ballotmap/election"
	"github.com/danielhkuo/ballotmap/models"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.CreateSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseType:  cliparse.DatabaseSQLite,
		DatabaseURL:   "file::memory:",
		AdminKeySalt:  "test-admin-salt",
		TrackerSalt:   "test-tracker-salt",
		MaxSelections: election.DefaultMaxSelections,
		MapCacheSize:  8,
	}
}

// SampleElection is a two-contest election on one ballot style:
//
//	Q1 yes 0, no 1, null 2
//	C1 A 3, B 4, C 5, D 6, write-in 7, null 8
func SampleElection() election.Election {
	return election.Election{
		Title: "Sample Election",
		Contests: []election.Contest{
			{ID: "Q1", DistrictID: "d1", Type: election.ContestTypeYesNo, Title: "Question 1"},
			{
				ID:            "C1",
				DistrictID:    "d1",
				Type:          election.ContestTypeCandidate,
				Title:         "Mayor",
				Seats:         1,
				AllowWriteIns: true,
				Candidates: []election.Candidate{
					{ID: "A", Name: "Alice"},
					{ID: "B", Name: "Bob"},
					{ID: "C", Name: "Carol"},
					{ID: "D", Name: "Dan"},
				},
			},
		},
		BallotStyles: []election.BallotStyle{{ID: "bs1", Districts: []string{"d1"}}},
	}
}

// CreateTestElection stores def and returns its ID and admin key.
// status should be "open" or "closed"
func CreateTestElection(t *testing.T, db *sql.DB, cfg cliparse.Config, def election.Election, status string) (electionID, adminKey string) {
	t.Helper()

	em, err := election.BuildElectionMap(&def)
	if err != nil {
		t.Fatalf("Failed to map test election: %v", err)
	}
	fingerprint, err := election.Fingerprint(&def)
	if err != nil {
		t.Fatalf("Failed to fingerprint test election: %v", err)
	}
	definition, _ := json.Marshal(def)

	electionID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)

	var closedAt *time.Time
	if status == models.StatusClosed {
		now := time.Now()
		closedAt = &now
	}

	_, err = db.Exec(`
		INSERT INTO election (id, title, status, definition, fingerprint, number_of_selections, ballot_count, closed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
	`, electionID, def.Title, status, string(definition), fingerprint, em.NumberOfSelections, closedAt, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID, adminKey
}

// CastTestBallot records a pre-encoded selection vector as a cast ballot
// and returns the ballot ID
func CastTestBallot(t *testing.T, db *sql.DB, cfg cliparse.Config, electionID, ballotStyle string, selections []bool) string {
	t.Helper()

	var sequence int
	if _, err := db.Exec(`
		UPDATE election SET ballot_count = ballot_count + 1, recorded_count = recorded_count + 1 WHERE id = $1
	`, electionID); err != nil {
		t.Fatalf("Failed to bump ballot count: %v", err)
	}
	if err := db.QueryRow(`SELECT recorded_count FROM election WHERE id = $1`, electionID).Scan(&sequence); err != nil {
		t.Fatalf("Failed to read ballot count: %v", err)
	}

	ballotID := auth.NewBallotID()
	bits := store.FormatSelections(selections)
	tracker := auth.GenerateTracker(electionID, ballotID, bits, cfg.TrackerSalt)

	_, err := db.Exec(`
		INSERT INTO ballot (id, election_id, ballot_style, sequence, tracker, selections, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ballotID, electionID, ballotStyle, sequence, tracker, bits, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return ballotID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
