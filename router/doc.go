// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ballotmap API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux, err := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Elections (public):

	POST /elections                  - Store a definition, return map and admin key
	GET  /elections/{id}             - Metadata and definition
	GET  /elections/{id}/map         - Election map (cached)
	GET  /elections/{id}/selections  - Selection vector width

Ballots (public):

	POST /elections/{id}/encode             - Encode without recording
	POST /elections/{id}/encode/batch       - Encode a list of ballots
	POST /elections/{id}/ballots            - Encode and record (open only)
	GET  /elections/{id}/ballots/{tracker}  - Confirm a cast ballot
	GET  /elections/{id}/ballot-count       - Ballots cast (and spoiled) so far

Tally (admin, requires X-Admin-Key):

	GET  /elections/{id}/tally/preview - Sum of recorded ballots, decoded
	POST /elections/{id}/tally         - Decode final tally and close

Results (public, sealed until closed):

	GET /elections/{id}/results

Device management:

	POST /devices/register      - Register device
	GET  /devices/me            - Get device info
	GET  /devices/my-elections  - List device's elections

# Handler Initialization

The router builds one MapCache and hands it to every handler that needs
an election map:

	maps, err := handlers.NewMapCache(cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg, maps)
	ballotHandler := handlers.NewBallotHandler(db, cfg, maps)
	tallyHandler := handlers.NewTallyHandler(db, cfg, maps)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)
*/
package router
