// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fleetrp

import (
	"context"
	"fmt"

	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/model"
	"gorm.io/gorm"
)

type gCategory struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func (gc *gCategory) TableName() string {
	return "categories"
}

type gLot struct {
	ID         int64 `gorm:"primaryKey"`
	Name       string
	Address    string
	Coordinate model.Coordinate `gorm:"embedded"`
	Altitude   float64
	Capacity   int
}

func (gl *gLot) TableName() string {
	return "lots"
}

func (gl *gLot) Model() *model.GeoLot {
	return &model.GeoLot{
		ID:         model.LotID(gl.ID),
		Name:       gl.Name,
		Address:    gl.Address,
		Coordinate: gl.Coordinate,
		Altitude:   gl.Altitude,
		Capacity:   gl.Capacity,
	}
}

// Vehicle is the vehicles table row. It is exported for the usersrp
// which loads the held vehicles.
type Vehicle struct {
	ID         int64 `gorm:"primaryKey"`
	Name       string
	Color      string
	Plate      string
	CategoryID int64
	LotID      *int64
}

func (gv *Vehicle) TableName() string {
	return "vehicles"
}

func (gv *Vehicle) Model() *model.Vehicle {
	return &model.Vehicle{
		ID:       model.VehicleID(gv.ID),
		Name:     gv.Name,
		Color:    gv.Color,
		Plate:    gv.Plate,
		Category: model.CategoryID(gv.CategoryID),
	}
}

// LoadCategories returns all vehicle categories ordered by their ids.
func LoadCategories[Q postgres.Queryer](
	ctx context.Context, q Q,
) ([]model.Category, error) {
	var gcs []gCategory
	if err := q.GORM(ctx).Order("id").Find(&gcs).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cs := make([]model.Category, 0, len(gcs))
	for _, gc := range gcs {
		cs = append(cs, model.Category{
			ID: model.CategoryID(gc.ID), Name: gc.Name,
		})
	}
	return cs, nil
}

// LoadLots returns all lots ordered by their ids, having their parked
// vehicles ordered by the vehicle ids.
func LoadLots[Q postgres.Queryer](
	ctx context.Context, q Q,
) ([]*model.GeoLot, error) {
	gdb := q.GORM(ctx)
	var gls []gLot
	if err := gdb.Order("id").Find(&gls).Error; err != nil {
		return nil, fmt.Errorf("querying lots: %w", err)
	}
	var gvs []Vehicle
	err := gdb.Where("lot_id IS NOT NULL").Order("id").Find(&gvs).Error
	if err != nil {
		return nil, fmt.Errorf("querying parked vehicles: %w", err)
	}
	lots := make([]*model.GeoLot, 0, len(gls))
	byID := make(map[int64]*model.GeoLot, len(gls))
	for i := range gls {
		lot := gls[i].Model()
		lots = append(lots, lot)
		byID[gls[i].ID] = lot
	}
	for i := range gvs {
		lot, ok := byID[*gvs[i].LotID]
		if !ok {
			return nil, fmt.Errorf(
				"vehicle %d is parked in missing lot %d",
				gvs[i].ID, *gvs[i].LotID,
			)
		}
		lot.Put(gvs[i].Model())
	}
	return lots, nil
}

// SetVehicleLot parks the vid vehicle in the lot lot, or marks it as
// not parked if lot is nil. An UnknownVehicle error is returned if
// there is no vid vehicle.
func SetVehicleLot[Q postgres.Queryer](
	ctx context.Context, q Q, vid model.VehicleID, lot *model.LotID,
) error {
	var v any = gorm.Expr("NULL")
	if lot != nil {
		v = int64(*lot)
	}
	tt := q.GORM(ctx).Model(&Vehicle{}).Where(
		"id=?", int64(vid),
	).Update("lot_id", v)
	if err := tt.Error; err != nil {
		if _, ok := postgres.HasCode(
			err, postgres.ForeignKeyViolation,
		); ok {
			return cerr.UnknownLot()
		}
		return fmt.Errorf("query: %w", err)
	}
	if tt.RowsAffected != 1 {
		return cerr.UnknownVehicle()
	}
	return nil
}
