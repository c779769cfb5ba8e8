// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/scram"
)

// PasswordIterations is the SCRAM iterations count of the role
// passwords. It matches the PostgreSQL scram_iterations default value.
const PasswordIterations = 4096

func ident(names ...string) string {
	return pgx.Identifier(names).Sanitize()
}

func roleIdent(roleSuffix, role repo.Role) string {
	return ident(string(role) + string(roleSuffix))
}

// DropIfExists drops the `schema` schema with cascading if it exists.
// If `schema` does not exist, a nil error is returned without any
// change.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(
		ctx, "DROP SCHEMA IF EXISTS "+ident(schema)+" CASCADE",
	)
	return err
}

// CreateSchema tries to create the `schema` schema.
// There must be no other schema with the `schema` name, otherwise,
// this operation will fail.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "CREATE SCHEMA "+ident(schema))
	return err
}

// CreateRoleIfNotExists creates the `role` role (suffixed by the
// `roleSuffix`) with the LOGIN option if it does not exist right now.
// No password is set for it. The ChangePasswords may be used for that.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	name := string(role) + string(roleSuffix)
	rows, err := q.Query(
		ctx, "SELECT 1 FROM pg_roles WHERE rolname=$1", name,
	)
	if err != nil {
		return fmt.Errorf("querying pg_roles: %w", err)
	}
	exists := rows.Next()
	rows.Close()
	if err = rows.Err(); err != nil {
		return fmt.Errorf("reading pg_roles: %w", err)
	}
	if exists {
		return nil
	}
	_, err = q.Exec(ctx, "CREATE ROLE "+ident(name)+" WITH LOGIN")
	return err
}

// GrantPrivileges grants ALL privileges on the `schema` schema
// to the `role` role (suffixed by the `roleSuffix`), so it may create
// or access tables in that schema and run relevant queries.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT ALL ON SCHEMA %s TO %s",
		ident(schema), roleIdent(roleSuffix, role),
	))
	return err
}

// SetSearchPath alters the given database role and sets its default
// search_path to the given schema name alone.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s",
		roleIdent(roleSuffix, role), ident(schema),
	))
	return err
}

// ChangePasswords updates the passwords of the given roles in the
// current transaction. The roles and passwords slices must have the
// same number of entries, so they can be used in pair.
// The `hasher` is used for hashing of the `passwords` before sending
// them to the DBMS, so they are never sent in plaintext. It must be
// a SCRAM-SHA-256 hasher as expected by PostgreSQL.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"got %d roles and %d passwords", len(roles), len(passwords),
		)
	}
	for i, role := range roles {
		h, err := hasher.Hash(passwords[i], "", PasswordIterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		_, err = tx.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD '%s'",
			roleIdent(roleSuffix, role),
			strings.ReplaceAll(h, "'", "''"),
		))
		if err != nil {
			return fmt.Errorf("altering %q role: %w", role, err)
		}
	}
	return nil
}
