// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// LotID is the unique identifier of a parking lot.
type LotID int64

// GeoLot models a parking lot, its fixed geographical location, and the
// set of vehicles which are physically parked there.
//
// GeoLot has no locking of its own. All mutations must be performed
// while the matching lock is held (see the matchinguc package), so the
// invariant that a vehicle belongs to at most one lot can be kept.
// The vehicles are kept in their arrival order, so scanning a lot is
// deterministic.
type GeoLot struct {
	ID         LotID      `json:"id"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	Coordinate Coordinate `json:"coordinate"`
	Altitude   float64    `json:"altitude"`
	Capacity   int        `json:"capacity"`

	vehicles []*Vehicle
}

// Covers reports whether c is strictly closer than radiusKm to lot.
func (lot *GeoLot) Covers(c Coordinate, radiusKm float64) bool {
	return lot.Coordinate.DistanceKm(c) < radiusKm
}

// Vehicles returns a copy of the parked vehicles in their scan order.
func (lot *GeoLot) Vehicles() []*Vehicle {
	vs := make([]*Vehicle, len(lot.vehicles))
	copy(vs, lot.vehicles)
	return vs
}

// Len returns the number of parked vehicles.
func (lot *GeoLot) Len() int {
	return len(lot.vehicles)
}

// Contains reports whether a vehicle with the given plate is parked
// in lot.
func (lot *GeoLot) Contains(plate string) bool {
	return lot.indexOf(plate) >= 0
}

// Take removes the vehicle with the id identifier from lot and returns
// it alongside its former position, so it may be put back at the same
// position by PutAt. If no such vehicle is parked here, ok is false.
func (lot *GeoLot) Take(id VehicleID) (v *Vehicle, idx int, ok bool) {
	for i, pv := range lot.vehicles {
		if pv.ID == id {
			lot.vehicles = append(lot.vehicles[:i], lot.vehicles[i+1:]...)
			return pv, i, true
		}
	}
	return nil, -1, false
}

// Put appends v to the parked vehicles. A vehicle with the same plate
// is never added twice.
func (lot *GeoLot) Put(v *Vehicle) {
	lot.PutAt(len(lot.vehicles), v)
}

// PutAt inserts v at idx position (which is clamped into the valid
// range). A vehicle with the same plate is never added twice.
func (lot *GeoLot) PutAt(idx int, v *Vehicle) {
	if lot.indexOf(v.Plate) >= 0 {
		return
	}
	switch {
	case idx < 0:
		idx = 0
	case idx > len(lot.vehicles):
		idx = len(lot.vehicles)
	}
	lot.vehicles = append(lot.vehicles, nil)
	copy(lot.vehicles[idx+1:], lot.vehicles[idx:])
	lot.vehicles[idx] = v
}

func (lot *GeoLot) indexOf(plate string) int {
	for i, v := range lot.vehicles {
		if v.Plate == plate {
			return i
		}
	}
	return -1
}

// Clone returns a deep enough copy of lot which may be read without
// holding the matching lock. Vehicles are immutable and so shared.
func (lot *GeoLot) Clone() *GeoLot {
	c := *lot
	c.vehicles = lot.Vehicles()
	return &c
}

// LotView is the read-only representation of a GeoLot which is
// reported by the listing use cases.
type LotView struct {
	*GeoLot
	Parked []*Vehicle `json:"vehicles"`
}

// View returns a LotView snapshot of lot.
func (lot *GeoLot) View() LotView {
	c := lot.Clone()
	return LotView{GeoLot: c, Parked: c.vehicles}
}
