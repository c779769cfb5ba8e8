// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sessionsrs realizes the sessions and users resources,
// allowing the login, logout, and registration REST APIs to be
// accepted and delegated to the authentication use case.
package sessionsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/usecase/appuc"
	"github.com/momeni/phoenix/pkg/core/usecase/authuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the authentication use
// case of the app with the relevant REST APIs including:
//  1. POST request to /api/phoenix/v1/sessions
//     in order to login and obtain a session token,
//  2. DELETE request to /api/phoenix/v1/sessions/current
//     in order to logout and cancel the pending search (if any),
//  3. POST request to /api/phoenix/v1/users
//     in order to register a new user.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST("sessions", rs.Login)
	r.DELETE("sessions/current", rs.Logout)
	r.POST("users", rs.RegisterUser)
}

func (rs *resource) auth(c *gin.Context) *authuc.UseCase {
	uc := rs.app.AuthUseCase()
	if uc == nil {
		serdser.SerErr(c, cerr.Unavailable(appuc.ErrNotLoaded))
	}
	return uc
}

func (rs *resource) Login(c *gin.Context) {
	req := &loginReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	uc := rs.auth(c)
	if uc == nil {
		return
	}
	ch, err := uc.Login(c, req.Username, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	l, ok := serdser.Await(c, ch)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (rs *resource) Logout(c *gin.Context) {
	token, ok := serdser.BearerToken(c)
	if !ok {
		return
	}
	uc := rs.auth(c)
	if uc == nil {
		return
	}
	if err := uc.Logout(c, token); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) RegisterUser(c *gin.Context) {
	req := &registerReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	uc := rs.auth(c)
	if uc == nil {
		return
	}
	ch, err := uc.Register(c, req.ToRegistration())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	u, ok := serdser.Await(c, ch)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, u)
}
