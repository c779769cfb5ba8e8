// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowThreshold is the duration which causes a query to be logged
// as a slow query.
const SlowThreshold = 200 * time.Millisecond

// Pool represents a database connection pool. It embeds the *gorm.DB
// and implements the repo.Pool interface, so Conn may be used in order
// to acquire a connection from the pool.
type Pool struct {
	*gorm.DB
}

// NewPool connects to the url PostgreSQL database, instruments all
// queries with OpenTelemetry spans and metrics, and tests the created
// pool by acquiring one connection. The GORM logs are written to the
// default slog logger, so they share the application logs format.
func NewPool(ctx context.Context, url string) (*Pool, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             SlowThreshold,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	if err = gdb.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("installing otelgorm plugin: %w", err)
	}
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

// NoOpConnHandler is a ConnHandler which does nothing.
func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a connection and passes it to f. The connection is
// released when f returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

// Close closes all connections of this pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
