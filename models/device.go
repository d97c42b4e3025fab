// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Device kind constants
const (
	KindBMD     = "bmd"
	KindScanner = "scanner"
	KindWeb     = "web"
)

// Device role constants
const (
	RoleAdmin   = "admin"
	RoleStation = "station"
)

type RegisterDeviceRequest struct {
	Kind string `json:"kind"`
}

type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	IsNew    bool   `json:"is_new"`
}

type DeviceInfo struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// DeviceElectionSummary is one election a device created or cast on.
type DeviceElectionSummary struct {
	ElectionID  string    `json:"election_id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Role        string    `json:"role"`
	LinkedAt    time.Time `json:"linked_at"`
	BallotCount int       `json:"ballot_count"`
}

type GetMyElectionsResponse struct {
	Elections []DeviceElectionSummary `json:"elections"`
}
