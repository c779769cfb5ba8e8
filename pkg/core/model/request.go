// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/result"
)

// SearchRequest asks for a vehicle of Category which is parked closer
// than RadiusKm to Coordinate. It is keyed by its session Token, so at
// most one SearchRequest may be outstanding per session. Its Handle is
// resolved by whichever task finds a vehicle for it (or cancels it).
type SearchRequest struct {
	Token      uuid.UUID
	Username   string
	Category   CategoryID
	Coordinate Coordinate
	RadiusKm   float64
	Handle     *result.Channel[Delivery]

	// Arrival is assigned by the pending registry and orders the
	// pending requests oldest first.
	Arrival uint64
	Since   time.Time
}

// Covers reports whether lot is in range of the sr request.
func (sr *SearchRequest) Covers(lot *GeoLot) bool {
	return lot.Covers(sr.Coordinate, sr.RadiusKm)
}

// PendingView is the read-only representation of a pending
// SearchRequest, as reported by the pending requests listing.
type PendingView struct {
	Token      uuid.UUID  `json:"token"`
	Username   string     `json:"username"`
	Category   CategoryID `json:"category"`
	Coordinate Coordinate `json:"coordinate"`
	RadiusKm   float64    `json:"radius_km"`
	Arrival    uint64     `json:"arrival"`
	Since      time.Time  `json:"since"`
}

// View returns a PendingView snapshot of sr.
func (sr *SearchRequest) View() PendingView {
	return PendingView{
		Token:      sr.Token,
		Username:   sr.Username,
		Category:   sr.Category,
		Coordinate: sr.Coordinate,
		RadiusKm:   sr.RadiusKm,
		Arrival:    sr.Arrival,
		Since:      sr.Since,
	}
}

// ReturnRequest confirms that Vehicle was returned to the Lot parking
// lot by the Token session. It is transient and is never registered.
// Its Handle is resolved with a DeliveryReleased as soon as the return
// is persisted.
type ReturnRequest struct {
	Token    uuid.UUID
	Username string
	Lot      LotID
	Vehicle  VehicleID
	Handle   *result.Channel[Delivery]
}

// FleetStats summarizes the matching state for gauges.
type FleetStats struct {
	Pending   int `json:"pending"`
	Parked    int `json:"parked"`
	Assigned  int `json:"assigned"`
	InTransit int `json:"in_transit"`
	Sessions  int `json:"sessions"`
}
