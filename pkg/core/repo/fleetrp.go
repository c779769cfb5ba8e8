// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/phoenix/pkg/core/model"
)

type FleetConnQueryer interface {
	FleetQueryer
}

type FleetTxQueryer interface {
	FleetQueryer
}

// FleetQueryer contains the fleet reference data and vehicle placement
// queries. LoadLots returns every lot with its parked vehicles (ordered
// by their ids) and SetVehicleLot parks the vid vehicle in the lot lot
// or marks it as not parked if lot is nil.
type FleetQueryer interface {
	LoadLots(ctx context.Context) ([]*model.GeoLot, error)
	LoadCategories(ctx context.Context) ([]model.Category, error)
	SetVehicleLot(ctx context.Context, vid model.VehicleID, lot *model.LotID) error
}

type Fleet interface {
	Conn(Conn) FleetConnQueryer
	Tx(Tx) FleetTxQueryer
}
