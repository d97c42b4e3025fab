// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/ballotmap/auth"
	"github.com/danielhkuo/ballotmap/election"
	"github.com/danielhkuo/ballotmap/models"
	"github.com/danielhkuo/ballotmap/testutil"
)

func TestCreateElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(db, cfg, newTestMaps(t, cfg))

	unnamed := testutil.SampleElection()
	unnamed.Title = ""

	badType := testutil.SampleElection()
	badType.Contests[0].Type = "ranked"

	noSeats := testutil.SampleElection()
	noSeats.Contests[1].Seats = 0

	dupContest := testutil.SampleElection()
	dupContest.Contests[1].ID = "Q1"

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.CreateElectionResponse)
	}{
		{
			name: "valid election",
			requestBody: models.CreateElectionRequest{
				Title:    "General 2025",
				Election: testutil.SampleElection(),
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.CreateElectionResponse) {
				if resp.ElectionID == "" {
					t.Error("Expected non-empty election_id")
				}
				if resp.AdminKey != auth.GenerateAdminKey(resp.ElectionID, cfg.AdminKeySalt) {
					t.Error("Admin key does not match expected value")
				}
				if resp.NumberOfSelections != 9 {
					t.Errorf("Expected 9 selections, got %d", resp.NumberOfSelections)
				}
				if resp.ElectionMap == nil || resp.ElectionMap.ContestMaps["C1"].WriteInStartIndex != 7 {
					t.Error("Expected election map with C1 write-in slot at 7")
				}

				var title, status string
				var width int
				err := db.QueryRow(`
					SELECT title, status, number_of_selections FROM election WHERE id = $1
				`, resp.ElectionID).Scan(&title, &status, &width)
				if err != nil {
					t.Fatalf("Failed to query election: %v", err)
				}
				if title != "General 2025" || status != models.StatusOpen || width != 9 {
					t.Errorf("Unexpected stored election: %q %q %d", title, status, width)
				}
			},
		},
		{
			name:           "title falls back to definition title",
			requestBody:    models.CreateElectionRequest{Election: testutil.SampleElection()},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			requestBody:    models.CreateElectionRequest{Election: unnamed},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown contest type",
			requestBody:    models.CreateElectionRequest{Title: "Bad", Election: badType},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "candidate contest without seats",
			requestBody:    models.CreateElectionRequest{Title: "Bad", Election: noSeats},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "duplicate contest id",
			requestBody:    models.CreateElectionRequest{Title: "Bad", Election: dupContest},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "no contests",
			requestBody:    models.CreateElectionRequest{Title: "Empty"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatalf("Failed to marshal request body: %v", err)
				}
			}

			req := httptest.NewRequest("POST", "/elections", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateElection(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.CreateElectionResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestCreateElectionLinksDevice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(db, cfg, newTestMaps(t, cfg))

	req := testutil.MakeRequest("POST", "/elections", models.CreateElectionRequest{
		Title:    "Linked",
		Election: testutil.SampleElection(),
	}, map[string]string{"X-Device-UUID": "bmd-0001"})
	w := httptest.NewRecorder()

	handler.CreateElection(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateElectionResponse
	testutil.AssertJSON(t, w, &resp)

	var role string
	err := db.QueryRow(`
		SELECT de.role FROM device_election de
		JOIN device d ON d.id = de.device_id
		WHERE d.device_uuid = $1 AND de.election_id = $2
	`, "bmd-0001", resp.ElectionID).Scan(&role)
	if err != nil {
		t.Fatalf("Failed to query device link: %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("Expected role 'admin', got '%s'", role)
	}
}

func TestGetElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(db, cfg, newTestMaps(t, cfg))

	electionID, _ := testutil.CreateTestElection(t, db, cfg, testutil.SampleElection(), models.StatusOpen)

	t.Run("existing election", func(t *testing.T) {
		w := serve(handler.GetElection, "GET", "/elections/"+electionID, electionID, "", nil)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ElectionWithDefinition
		testutil.AssertJSON(t, w, &resp)

		if resp.Election.ID != electionID {
			t.Errorf("Expected id %s, got %s", electionID, resp.Election.ID)
		}
		if resp.Election.Status != models.StatusOpen {
			t.Errorf("Expected status 'open', got '%s'", resp.Election.Status)
		}
		if len(resp.Definition.Contests) != 2 || resp.Definition.Contests[1].Candidates[0].Name != "Alice" {
			t.Errorf("Definition did not round-trip: %+v", resp.Definition)
		}
	})

	t.Run("unknown election", func(t *testing.T) {
		w := serve(handler.GetElection, "GET", "/elections/nope", "nope", "", nil)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetElectionMap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	maps := newTestMaps(t, cfg)
	handler := NewElectionHandler(db, cfg, maps)

	electionID, _ := testutil.CreateTestElection(t, db, cfg, testutil.SampleElection(), models.StatusOpen)

	w := serve(handler.GetElectionMap, "GET", "/elections/"+electionID+"/map", electionID, "", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var em election.ElectionMap
	testutil.AssertJSON(t, w, &em)

	if em.NumberOfSelections != 9 {
		t.Errorf("Expected 9 selections, got %d", em.NumberOfSelections)
	}
	c1 := em.ContestMaps["C1"]
	if c1 == nil {
		t.Fatal("Expected contest map for C1")
	}
	if c1.StartIndex != 3 || c1.EndIndex != 8 || c1.NullVoteStartIndex != 8 {
		t.Errorf("Unexpected C1 layout: %+v", c1)
	}
	if em.BallotStyleMaps["bs1"].ExpectedNumberOfSelected != 2 {
		t.Errorf("Expected bs1 to expect 2 marks, got %d", em.BallotStyleMaps["bs1"].ExpectedNumberOfSelected)
	}

	// Second request is served from the cache
	serve(handler.GetElectionMap, "GET", "/elections/"+electionID+"/map", electionID, "", nil)
	if maps.Len() != 1 {
		t.Errorf("Expected 1 cached map, got %d", maps.Len())
	}
}

func TestGetNumberOfSelections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(db, cfg, newTestMaps(t, cfg))

	electionID, _ := testutil.CreateTestElection(t, db, cfg, testutil.SampleElection(), models.StatusOpen)

	w := serve(handler.GetNumberOfSelections, "GET", "/elections/"+electionID+"/selections", electionID, "", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SelectionsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.NumberOfSelections != 9 {
		t.Errorf("Expected 9, got %d", resp.NumberOfSelections)
	}

	w = serve(handler.GetNumberOfSelections, "GET", "/elections/missing/selections", "missing", "", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
