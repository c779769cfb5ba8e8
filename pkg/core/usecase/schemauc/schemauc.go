// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemauc contains the database initialization use case. It
// recreates an empty schema using the admin role, ensures the normal
// role may use it, renews the passwords of both roles, and then fills
// the schema with the fleet tables using the normal role.
package schemauc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/repo"
)

// SchemaName is the database schema which holds the fleet tables.
const SchemaName = "phoenix"

// Pool is a closable connection pool.
type Pool interface {
	repo.Pool
	Close() error
}

// Settings represents the expectations of the initialization use case
// from the configuration settings.
type Settings interface {
	// ConnectionPool creates a database connection pool for the r
	// role. Passwords are read from the pgpass formatted files of the
	// configured passwords directory. If the temporary passwords file
	// of a former interrupted RenewPasswords call is usable, it will
	// replace the main passwords file.
	ConnectionPool(ctx context.Context, r repo.Role) (Pool, error)

	// NewSchemaRepo instantiates a fresh Schema repository which
	// suffixes the role names and hashes their passwords as the
	// settings ask.
	NewSchemaRepo() repo.Schema

	// SchemaInitializer creates a repo.SchemaInitializer which wraps
	// the tx transaction.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// RenewPasswords generates new passwords for the given roles,
	// records them in a temporary passwords file, and calls change in
	// order to update them in the database. The returned finalizer
	// must be called after the change transaction is committed, so
	// the temporary passwords file replaces the main one.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context, roles []repo.Role, passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)
}

// InitDBUseCase represents the database initialization use case. It
// may be used to initialize a database with development or production
// suitable data as asked by the InitDev and InitProd methods.
type InitDBUseCase struct {
	settings   Settings
	schemaRepo repo.Schema
}

// NewInitDB creates an InitDBUseCase instance, using the ss settings
// in order to connect to the target database and create its schema.
func NewInitDB(ss Settings) *InitDBUseCase {
	return &InitDBUseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitProd recreates the phoenix schema and fills it with the fleet
// tables, having only the vehicle categories. Lots and vehicles are
// expected to be added by the operators.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.initDB(
		ctx, "prod",
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.InitProdSchema(ctx)
		},
	)
}

// InitDev recreates the phoenix schema and fills it with the fleet
// tables, having sample categories, lots, and vehicles.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(
		ctx, "dev",
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.InitDevSchema(ctx)
		},
	)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	kind string,
	dbi func(ctx context.Context, si repo.SchemaInitializer) error,
) error {
	if err := iduc.dropAndCreateAgain(ctx); err != nil {
		return fmt.Errorf("dropping/recreating schema: %w", err)
	}
	p, err := iduc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := iduc.settings.SchemaInitializer(tx)
			if err != nil {
				return fmt.Errorf("creating SchemaInitializer: %w", err)
			}
			if err := dbi(ctx, si); err != nil {
				return fmt.Errorf("initializing schema: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("normal connection: %w", err)
	}
	log.Info(
		ctx, "database initialized",
		slog.String("schema", SchemaName),
		slog.String("data", kind),
	)
	return nil
}

func (iduc *InitDBUseCase) dropAndCreateAgain(
	ctx context.Context,
) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			sn := SchemaName
			if err := q.DropIfExists(ctx, sn); err != nil {
				return fmt.Errorf("dropping %q: %w", sn, err)
			}
			if err := q.CreateSchema(ctx, sn); err != nil {
				return fmt.Errorf("creating %q: %w", sn, err)
			}
			if err := q.CreateRoleIfNotExists(
				ctx, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("creating normal role: %w", err)
			}
			if err := q.GrantPrivileges(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("granting normal role privs: %w", err)
			}
			if err := q.SetSearchPath(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf(
					"setting search_path of normal role to %q: %w",
					sn, err,
				)
			}
			finalizer, err = iduc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("RenewPasswords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	return nil
}
