// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// registration of their REST APIs on a gin-gonic engine.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/fleetrs"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/searchesrs"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/sessionsrs"
	"github.com/momeni/phoenix/pkg/core/usecase/appuc"
)

// Prefix is the common path prefix of all REST APIs.
const Prefix = "/api/phoenix/v1"

// Register instantiates a series of "resource" structs, from packages
// which are named like fleetrs, in order to adapt the app use cases
// with the REST APIs. These resources are registered as request
// handlers using the e gin-gonic engine instance. Resources ask app for
// the loaded use cases on each request, so they report 503 while app
// is not loaded.
// A /healthz route reports whether app is loaded. If metrics is not
// nil, it is served at /metrics too.
func Register(e *gin.Engine, app *appuc.UseCase, metrics http.Handler) {
	e.GET("/healthz", func(c *gin.Context) {
		if !app.Loaded() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "loading",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		e.GET("/metrics", gin.WrapH(metrics))
	}
	r := e.Group(Prefix)
	sessionsrs.Register(r, app)
	searchesrs.Register(r, app)
	fleetrs.Register(r, app)
}
