// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fleetrp implements the repo.Fleet repository for the
// PostgreSQL database.
package fleetrp

import (
	"context"

	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (fleet *Repo) Conn(c repo.Conn) repo.FleetConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) LoadLots(ctx context.Context) ([]*model.GeoLot, error) {
	return LoadLots(ctx, cq.Conn)
}

func (cq connQueryer) LoadCategories(ctx context.Context) ([]model.Category, error) {
	return LoadCategories(ctx, cq.Conn)
}

func (cq connQueryer) SetVehicleLot(ctx context.Context, vid model.VehicleID, lot *model.LotID) error {
	return SetVehicleLot(ctx, cq.Conn, vid, lot)
}

type txQueryer struct {
	*postgres.Tx
}

func (fleet *Repo) Tx(tx repo.Tx) repo.FleetTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) LoadLots(ctx context.Context) ([]*model.GeoLot, error) {
	return LoadLots(ctx, tq.Tx)
}

func (tq txQueryer) LoadCategories(ctx context.Context) ([]model.Category, error) {
	return LoadCategories(ctx, tq.Tx)
}

func (tq txQueryer) SetVehicleLot(ctx context.Context, vid model.VehicleID, lot *model.LotID) error {
	return SetVehicleLot(ctx, tq.Tx, vid, lot)
}
