// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ballotmap/cliparse"
	"github.com/danielhkuo/ballotmap/handlers"
	"github.com/danielhkuo/ballotmap/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	// One map cache shared by every handler
	maps, err := handlers.NewMapCache(cfg)
	if err != nil {
		return nil, err
	}

	electionHandler := handlers.NewElectionHandler(db, cfg, maps)
	ballotHandler := handlers.NewBallotHandler(db, cfg, maps)
	tallyHandler := handlers.NewTallyHandler(db, cfg, maps)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election definitions and maps (public)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("GET /elections/{id}/map", middleware.WithLogging(electionHandler.GetElectionMap))
	mux.HandleFunc("GET /elections/{id}/selections", middleware.WithLogging(electionHandler.GetNumberOfSelections))

	// Ballots (public)
	mux.HandleFunc("POST /elections/{id}/encode", middleware.WithLogging(ballotHandler.EncodeBallot))
	mux.HandleFunc("POST /elections/{id}/encode/batch", middleware.WithLogging(ballotHandler.EncodeBallots))
	mux.HandleFunc("POST /elections/{id}/ballots", middleware.WithLogging(ballotHandler.CastBallot))
	mux.HandleFunc("GET /elections/{id}/ballots/{tracker}", middleware.WithLogging(ballotHandler.LookupTracker))
	mux.HandleFunc("GET /elections/{id}/ballot-count", middleware.WithLogging(ballotHandler.GetBallotCount))

	// Tally (admin, requires X-Admin-Key) and sealed results
	mux.HandleFunc("GET /elections/{id}/tally/preview", middleware.WithLogging(tallyHandler.PreviewTally))
	mux.HandleFunc("POST /elections/{id}/tally", middleware.WithLogging(tallyHandler.SubmitTally))
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(tallyHandler.GetResults))

	// Device management
	mux.HandleFunc("POST /devices/register", middleware.WithLogging(deviceHandler.Register))
	mux.HandleFunc("GET /devices/me", middleware.WithLogging(deviceHandler.GetMe))
	mux.HandleFunc("GET /devices/my-elections", middleware.WithLogging(deviceHandler.GetMyElections))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotmap API v1"))
	})

	return mux, nil
}
