// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"fmt"

	"github.com/momeni/phoenix/pkg/adapter/db/postgres/schinit"
	"github.com/momeni/phoenix/pkg/adapter/geoindex/redisgeo"
	"github.com/momeni/phoenix/pkg/adapter/telemetry/otelmx"
	"github.com/momeni/phoenix/pkg/core/dispatch"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/usecase/appuc"
	"github.com/momeni/phoenix/pkg/core/usecase/authuc"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
	"github.com/momeni/phoenix/pkg/core/usecase/matchinguc"
	"github.com/momeni/phoenix/pkg/core/usecase/schemauc"
	"github.com/momeni/phoenix/pkg/core/usecase/sessionuc"
	"go.opentelemetry.io/otel"
)

var (
	_ appuc.Builder     = (*Config)(nil)
	_ schemauc.Settings = (*Config)(nil)
)

// ConnectionPool creates a database connection pool for the r role.
// See Database.ConnectionPool for the passwords lookup details.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (schemauc.Pool, error) {
	return c.Database.ConnectionPool(ctx, r)
}

// NewSchemaRepo instantiates a fresh Schema repository.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// creates the tables and fills them with their initial rows in tx.
func (c *Config) SchemaInitializer(
	tx repo.Tx,
) (repo.SchemaInitializer, error) {
	return schinit.New(tx), nil
}

// RenewPasswords generates new passwords for roles and records them
// in the passwords dir. See Database.RenewPasswords for details.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// NewSessionRegistry creates an empty session registry.
func (c *Config) NewSessionRegistry() (*sessionuc.Registry, error) {
	return sessionuc.New()
}

// NewDispatcher creates a worker pool having the configured number of
// workers.
func (c *Config) NewDispatcher() (*dispatch.Pool, error) {
	w := *c.Usecases.Matching.Workers
	return dispatch.New(dispatch.WithWorkers(w))
}

// NewEngine creates a matching engine which reports its events using
// the global OpenTelemetry meter provider. If a Redis address is
// configured, lots are indexed in Redis and the candidate lots of
// each search are found by a GEOSEARCH query.
func (c *Config) NewEngine(
	ctx context.Context,
	p repo.Pool, fleet repo.Fleet, users repo.Users,
	sv matchinguc.SessionValidator, inv matchinguc.Inventory,
) (*matchinguc.Engine, error) {
	m := c.Usecases.Matching
	rec, err := otelmx.New(otel.GetMeterProvider())
	if err != nil {
		return nil, fmt.Errorf("creating metrics recorder: %w", err)
	}
	opts := []matchinguc.Option{
		matchinguc.WithRecorder(rec),
		matchinguc.WithMaxRadiusKm(*m.MaxRadiusKm),
	}
	if *m.EnforceHoldings {
		opts = append(opts, matchinguc.WithHoldingChecks())
	}
	if c.Redis.Enabled() {
		l, err := c.newLocator(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating lots locator: %w", err)
		}
		opts = append(opts, matchinguc.WithLocator(l))
	}
	return matchinguc.New(ctx, p, fleet, users, sv, inv, opts...)
}

func (c *Config) newLocator(ctx context.Context) (*redisgeo.Locator, error) {
	if c.redis == nil {
		client, err := c.Redis.newClient(ctx)
		if err != nil {
			return nil, err
		}
		c.redis = client
	}
	return redisgeo.New(c.redis, redisgeo.WithKey(c.Redis.Key))
}

// NewAuthUseCase creates an authuc UseCase which hashes the passwords
// with the configured iterations count.
func (c *Config) NewAuthUseCase(
	p repo.Pool, users repo.Users,
	s authuc.Sessions, d authuc.Dispatcher,
) (*authuc.UseCase, error) {
	return authuc.New(
		p, users, c.Usecases.Auth.hasher, s, d,
		authuc.WithHashIterations(*c.Usecases.Auth.HashIterations),
	)
}

// NewFleetUseCase creates a fleetuc UseCase with the configured await
// timeouts.
func (c *Config) NewFleetUseCase(
	e fleetuc.Engine, s fleetuc.Sessions, d fleetuc.Dispatcher,
) (*fleetuc.UseCase, error) {
	f := c.Usecases.Fleet
	return fleetuc.New(
		e, s, d, fleetuc.WithAwaitTimeouts(
			f.AwaitTimeout.Std(), f.MaxAwaitTimeout.Std(),
		),
	)
}
