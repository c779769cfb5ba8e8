// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package searchesrs realizes the searches and returns resources,
// allowing the vehicle search, search result polling, cancellation,
// and vehicle return REST APIs to be accepted and delegated to the
// fleet use case. All of them require a session token which is passed
// in the Authorization header.
package searchesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/usecase/appuc"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the fleet use case of the
// app with the relevant REST APIs including:
//  1. POST request to /api/phoenix/v1/searches
//     in order to search for a vehicle, responding with 200 if one was
//     assigned right away or 202 if the search is queued,
//  2. GET request to /api/phoenix/v1/searches/current?wait=30s
//     in order to wait for the result of the latest search,
//  3. DELETE request to /api/phoenix/v1/searches/current
//     in order to cancel the pending search,
//  4. POST request to /api/phoenix/v1/returns
//     in order to return a vehicle to a lot.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST("searches", rs.Search)
	r.GET("searches/current", rs.AwaitSearch)
	r.DELETE("searches/current", rs.CancelSearch)
	r.POST("returns", rs.Return)
}

// authorize extracts the session token and finds the fleet use case.
// In case of failure, the error response is written and ok is false.
func (rs *resource) authorize(c *gin.Context) (
	uc *fleetuc.UseCase, token uuid.UUID, ok bool,
) {
	token, ok = serdser.BearerToken(c)
	if !ok {
		return nil, token, false
	}
	uc = rs.app.FleetUseCase()
	if uc == nil {
		serdser.SerErr(c, cerr.Unavailable(appuc.ErrNotLoaded))
		return nil, token, false
	}
	return uc, token, true
}

func (rs *resource) Search(c *gin.Context) {
	uc, token, ok := rs.authorize(c)
	if !ok {
		return
	}
	req := &searchReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	t, err := uc.Search(c, token, req.ToQuery())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	out, ok := serdser.Await(c, t.Outcome)
	if !ok {
		return
	}
	resp := searchResp{Outcome: out.String(), Token: t.Token}
	if out == model.SearchQueued {
		c.JSON(http.StatusAccepted, resp)
		return
	}
	d, ok := serdser.Await(c, t.Delivery)
	if !ok {
		return
	}
	resp.Delivery = &d
	c.JSON(http.StatusOK, resp)
}

func (rs *resource) AwaitSearch(c *gin.Context) {
	uc, token, ok := rs.authorize(c)
	if !ok {
		return
	}
	wait, ok := rs.DserAwaitReq(c)
	if !ok {
		return
	}
	d, ok, err := uc.Await(c, token, wait)
	switch {
	case err != nil:
		serdser.SerErr(c, err)
	case !ok:
		c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
	default:
		c.JSON(http.StatusOK, d)
	}
}

func (rs *resource) CancelSearch(c *gin.Context) {
	uc, token, ok := rs.authorize(c)
	if !ok {
		return
	}
	cancelled, err := uc.Cancel(c, token)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}

func (rs *resource) Return(c *gin.Context) {
	uc, token, ok := rs.authorize(c)
	if !ok {
		return
	}
	req := &returnReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	t, err := uc.Return(
		c, token, model.LotID(req.Lot), model.VehicleID(req.Vehicle),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	out, ok := serdser.Await(c, t.Outcome)
	if !ok {
		return
	}
	d, ok := serdser.Await(c, t.Release)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, returnResp{Outcome: out.String(), Delivery: d})
}
