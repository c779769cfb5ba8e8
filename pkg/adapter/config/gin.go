// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"github.com/momeni/phoenix/pkg/adapter/config/settings"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin"
)

// DefaultAddress is the web server listening address by default.
const DefaultAddress = ":8080"

// Gin contains the gin-gonic related configuration settings.
// Boolean fields are defined as pointers, so it is possible to detect
// if they are or are not initialized.
type Gin struct {
	Logger   *bool  // Whether to register the request logger middleware
	Recovery *bool  // Whether to register the recovery middleware
	Address  string // Listening host:port, like :8080
}

func (g *Gin) normalize() {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
	if g.Address == "" {
		g.Address = DefaultAddress
	}
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the g settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}
