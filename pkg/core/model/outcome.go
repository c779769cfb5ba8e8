// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "fmt"

// DeliveryKind tags the value which resolves a request handle.
type DeliveryKind int

// Valid values for the DeliveryKind enum.
const (
	DeliveryInvalid DeliveryKind = iota

	DeliveryAssigned  // a vehicle was handed to the requester
	DeliveryReleased  // the returned vehicle is no longer held
	DeliveryCancelled // the search was withdrawn before a match
)

// String converts k to a string. Invalid kinds cause a panic.
func (k DeliveryKind) String() string {
	switch k {
	case DeliveryAssigned:
		return "assigned"
	case DeliveryReleased:
		return "released"
	case DeliveryCancelled:
		return "cancelled"
	default:
		panic(fmt.Sprintf("invalid delivery kind: %d", int(k)))
	}
}

// MarshalText serializes k using its String representation.
func (k DeliveryKind) MarshalText() ([]byte, error) {
	if k < DeliveryAssigned || k > DeliveryCancelled {
		return nil, fmt.Errorf("invalid delivery kind: %d", int(k))
	}
	return []byte(k.String()), nil
}

// Delivery is the value which resolves the handle of a search or return
// request. Vehicle is set for the assigned and released kinds, and Lot
// is only set for the released kind.
type Delivery struct {
	Kind    DeliveryKind `json:"kind"`
	Vehicle *Vehicle     `json:"vehicle,omitempty"`
	Lot     LotID        `json:"lot,omitempty"`
}

// SearchOutcome is the immediate outcome of a search.
type SearchOutcome int

// Valid values for the SearchOutcome enum.
const (
	SearchInvalid SearchOutcome = iota

	SearchAssigned // a vehicle was claimed right away
	SearchQueued   // the request waits in the pending registry
)

// String converts o to a string.
func (o SearchOutcome) String() string {
	switch o {
	case SearchAssigned:
		return "assigned"
	case SearchQueued:
		return "queued"
	default:
		return "invalid"
	}
}

// ReturnOutcome is the outcome of a vehicle return.
type ReturnOutcome int

// Valid values for the ReturnOutcome enum.
const (
	ReturnInvalid ReturnOutcome = iota

	ReturnStored     // the vehicle was parked in the lot
	ReturnReassigned // the vehicle was handed to a pending requester
)

// String converts o to a string.
func (o ReturnOutcome) String() string {
	switch o {
	case ReturnStored:
		return "stored"
	case ReturnReassigned:
		return "reassigned"
	default:
		return "invalid"
	}
}
