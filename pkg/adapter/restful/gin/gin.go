// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine, so the other adapters may
// depend on this package instead of the third-party web framework.
// Requests are logged and panics are recovered using the default slog
// logger, so the web server logs share the application logs format.
package gin

import (
	"log/slog"

	ginslog "github.com/FabienMht/ginslog/logger"
	ginslogrecovery "github.com/FabienMht/ginslog/recovery"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// H is a shortcut for building JSON documents.
type H = gin.H

// New creates a gin engine which uses the given middlewares for all
// of its routes.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs each request.
func Logger() HandlerFunc {
	return ginslog.New(slog.Default())
}

// Recovery returns a middleware which recovers from panics, logs them,
// and responds with the 500 status code.
func Recovery() HandlerFunc {
	return ginslogrecovery.New(slog.Default())
}
