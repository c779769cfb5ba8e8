// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by JSON or ORM
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
//
// The fleet is described by Category, Vehicle, and GeoLot entities.
// A Vehicle does not know where it is. Its Location is extrinsic and
// is kept by the matching use case which owns all GeoLot instances.
package model

// VehicleID is the unique identifier of a vehicle in the store.
type VehicleID int64

// CategoryID is the unique identifier of a vehicle category.
type CategoryID int64

// Category models a vehicle category (e.g., City or SUV). Categories
// are reference data which are loaded once and never change.
type Category struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

// Vehicle models a shared car. It is immutable once loaded from the
// store. Two Vehicle instances are the same car if they have the same
// plate, so Equal must be used instead of a pointer comparison whenever
// vehicles from distinct sources are compared.
type Vehicle struct {
	ID       VehicleID  `json:"id"`
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	Plate    string     `json:"plate"`
	Category CategoryID `json:"category"`
}

// Equal reports whether v and o identify the same car.
func (v *Vehicle) Equal(o *Vehicle) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.Plate == o.Plate
}
