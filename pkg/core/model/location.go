// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// LocationKind specifies the tag of a Location variant. Although this
// enum is numeric, it is (de)serialized as a string for readability in
// the adapter layer.
type LocationKind int

// Valid values for the LocationKind enum.
const (
	LocationInvalid LocationKind = iota // zero value is invalid

	LocationAtLot     // parked in a lot
	LocationAssigned  // handed to a user
	LocationInTransit // between a lot and a user, during a claim
)

// ErrUnknownLocationKind indicates that a given string may not be
// parsed as a known location kind.
var ErrUnknownLocationKind = errors.New("unknown location kind")

// LocationKindError indicates an invalid location kind value.
type LocationKindError int

// Error implements the error interface.
func (e LocationKindError) Error() string {
	return fmt.Sprintf("invalid location kind: %d", e)
}

// Validate returns nil if k is a valid LocationKind. For invalid
// values, an instance of the LocationKindError will be returned.
func (k LocationKind) Validate() error {
	switch k {
	case LocationAtLot, LocationAssigned, LocationInTransit:
		return nil
	default:
		return LocationKindError(k)
	}
}

// String converts k to a string. Invalid kinds cause a panic.
func (k LocationKind) String() string {
	switch k {
	case LocationAtLot:
		return "at-lot"
	case LocationAssigned:
		return "assigned"
	case LocationInTransit:
		return "in-transit"
	default:
		panic(LocationKindError(k))
	}
}

// MarshalText serializes k using its String representation.
func (k LocationKind) MarshalText() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return []byte(k.String()), nil
}

// ParseLocationKind parses the given string and returns a LocationKind.
// For invalid strings, LocationInvalid and ErrUnknownLocationKind
// will be returned.
func ParseLocationKind(s string) (LocationKind, error) {
	switch s {
	case "at-lot":
		return LocationAtLot, nil
	case "assigned":
		return LocationAssigned, nil
	case "in-transit":
		return LocationInTransit, nil
	default:
		return LocationInvalid, ErrUnknownLocationKind
	}
}

// Location is a tagged variant describing where a vehicle is.
// Only the fields which belong to Kind are meaningful:
//   - LocationAtLot uses Lot,
//   - LocationAssigned uses Username and Token (the Token is uuid.Nil
//     when the vehicle was already held by the user when the fleet was
//     loaded from the store, so no session has claimed it),
//   - LocationInTransit uses no field.
type Location struct {
	Kind     LocationKind `json:"kind"`
	Lot      LotID        `json:"lot,omitempty"`
	Username string       `json:"username,omitempty"`
	Token    uuid.UUID    `json:"token,omitempty"`
}

// AtLot returns a Location for a vehicle parked in the id lot.
func AtLot(id LotID) Location {
	return Location{Kind: LocationAtLot, Lot: id}
}

// AssignedTo returns a Location for a vehicle handed to the username
// user through the token session.
func AssignedTo(token uuid.UUID, username string) Location {
	return Location{Kind: LocationAssigned, Token: token, Username: username}
}

// InTransit returns a Location for a vehicle which is being claimed.
func InTransit() Location {
	return Location{Kind: LocationInTransit}
}

// String returns a human readable representation of l.
func (l Location) String() string {
	switch l.Kind {
	case LocationAtLot:
		return fmt.Sprintf("at-lot(%d)", l.Lot)
	case LocationAssigned:
		return fmt.Sprintf("assigned(%s)", l.Username)
	case LocationInTransit:
		return "in-transit"
	default:
		return "invalid"
	}
}

// VehicleStatus pairs a vehicle with its current location, as reported
// by the vehicles listing.
type VehicleStatus struct {
	Vehicle  *Vehicle `json:"vehicle"`
	Location Location `json:"location"`
}
