// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/ballotmap/auth"
	"github.com/danielhkuo/ballotmap/cliparse"
	store "github.com/danielhkuo/ballotmap/db"
)

func newTestMaps(t *testing.T, cfg cliparse.Config) *MapCache {
	t.Helper()
	maps, err := NewMapCache(cfg)
	if err != nil {
		t.Fatalf("NewMapCache() error = %v", err)
	}
	return maps
}

// serve runs handler against a request whose {id} path value is electionID.
func serve(handler http.HandlerFunc, method, path, electionID, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.SetPathValue("id", electionID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func bits(selections []bool) string {
	return store.FormatSelections(selections)
}

// registerDevice stores a device of the given kind under deviceUUID.
func registerDevice(t *testing.T, db *sql.DB, deviceUUID, kind string) string {
	t.Helper()
	deviceID, _ := auth.GenerateID(16)
	_, err := db.Exec(`
		INSERT INTO device (id, device_uuid, kind, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $4)
	`, deviceID, deviceUUID, kind, time.Now())
	if err != nil {
		t.Fatalf("Failed to register device: %v", err)
	}
	return deviceID
}
