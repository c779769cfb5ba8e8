// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fleetrs realizes the read-only fleet resources, allowing the
// operators to list the categories, lots, vehicles, pending requests,
// active sessions, and registered users. Session tokens and password
// hashes are never exposed by them.
package fleetrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/usecase/appuc"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the fleet use case of the
// app with the relevant REST APIs including GET requests to:
//  1. /api/phoenix/v1/categories for the vehicle categories,
//  2. /api/phoenix/v1/lots for all lots and their parked vehicles,
//  3. /api/phoenix/v1/lots/:lid for one lot,
//  4. /api/phoenix/v1/vehicles for all vehicles and their locations,
//  5. /api/phoenix/v1/requests for the pending searches,
//  6. /api/phoenix/v1/sessions for the logged in users,
//  7. /api/phoenix/v1/stats for the fleet state summary,
//  8. /api/phoenix/v1/users for the registered users.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("categories", rs.ListCategories)
	r.GET("lots", rs.ListLots)
	r.GET("lots/:lid", rs.FetchLot)
	r.GET("vehicles", rs.ListVehicles)
	r.GET("requests", rs.ListRequests)
	r.GET("sessions", rs.ListSessions)
	r.GET("stats", rs.FetchStats)
	r.GET("users", rs.ListUsers)
}

func (rs *resource) fleet(c *gin.Context) *fleetuc.UseCase {
	uc := rs.app.FleetUseCase()
	if uc == nil {
		serdser.SerErr(c, cerr.Unavailable(appuc.ErrNotLoaded))
	}
	return uc
}

func (rs *resource) ListCategories(c *gin.Context) {
	if uc := rs.fleet(c); uc != nil {
		c.JSON(http.StatusOK, uc.Categories())
	}
}

func (rs *resource) ListLots(c *gin.Context) {
	if uc := rs.fleet(c); uc != nil {
		c.JSON(http.StatusOK, uc.Lots())
	}
}

func (rs *resource) FetchLot(c *gin.Context) {
	id, ok := rs.DserLotID(c)
	if !ok {
		return
	}
	uc := rs.fleet(c)
	if uc == nil {
		return
	}
	lot, err := uc.Lot(id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (rs *resource) ListVehicles(c *gin.Context) {
	if uc := rs.fleet(c); uc != nil {
		c.JSON(http.StatusOK, SerVehicles(uc.Vehicles()))
	}
}

func (rs *resource) ListRequests(c *gin.Context) {
	if uc := rs.fleet(c); uc != nil {
		c.JSON(http.StatusOK, SerPending(uc.Pending()))
	}
}

func (rs *resource) ListSessions(c *gin.Context) {
	if uc := rs.fleet(c); uc != nil {
		c.JSON(http.StatusOK, SerSessions(uc.Sessions()))
	}
}

func (rs *resource) ListUsers(c *gin.Context) {
	uc := rs.fleet(c)
	if uc == nil {
		return
	}
	users, err := uc.Users(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerUsers(users))
}

func (rs *resource) FetchStats(c *gin.Context) {
	st, queued, ok := rs.app.Stats()
	if !ok {
		serdser.SerErr(c, cerr.Unavailable(appuc.ErrNotLoaded))
		return
	}
	c.JSON(http.StatusOK, statsResp{FleetStats: st, Queued: queued})
}
