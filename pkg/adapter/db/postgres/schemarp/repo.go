// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides a reification of the repo.Schema interface
// making it possible to create or drop the phoenix schema and manage
// the database roles which access it.
package schemarp

import (
	"context"

	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/scram"
)

// Repo represents a schema management repository.
type Repo struct {
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// New instantiates a schema management Repo struct. All role names
// are suffixed by roleSuffix (which may be empty) and the role
// passwords are hashed by hasher before being sent to the DBMS.
func New(roleSuffix repo.Role, hasher scram.Hasher) *Repo {
	return &Repo{
		roleSuffix: roleSuffix,
		hasher:     hasher,
	}
}

// Conn unwraps c which must be a *postgres.Conn. Otherwise, it panics.
func (schema *Repo) Conn(c repo.Conn) repo.SchemaConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn), r: schema}
}

// Tx unwraps tx which must be a *postgres.Tx. Otherwise, it panics.
// Roles may be created and given their passwords in one transaction,
// so they become visible together when it commits.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	return txQueryer{
		queryer: queryer[*postgres.Tx]{q: tx.(*postgres.Tx), r: schema},
	}
}

// queryer implements the repo.SchemaQueryer methods once for both of
// the connections and transactions.
type queryer[Q postgres.Queryer] struct {
	q Q
	r *Repo
}

func (sq queryer[Q]) DropIfExists(ctx context.Context, schema string) error {
	return DropIfExists(ctx, sq.q, schema)
}

func (sq queryer[Q]) CreateSchema(ctx context.Context, schema string) error {
	return CreateSchema(ctx, sq.q, schema)
}

func (sq queryer[Q]) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, sq.q, sq.r.roleSuffix, role)
}

func (sq queryer[Q]) GrantPrivileges(
	ctx context.Context, schema string, role repo.Role,
) error {
	return GrantPrivileges(ctx, sq.q, sq.r.roleSuffix, schema, role)
}

func (sq queryer[Q]) SetSearchPath(
	ctx context.Context, schema string, role repo.Role,
) error {
	return SetSearchPath(ctx, sq.q, sq.r.roleSuffix, schema, role)
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

// ChangePasswords updates the passwords of the given roles in the
// current transaction.
func (tq txQueryer) ChangePasswords(
	ctx context.Context, roles []repo.Role, passwords []string,
) error {
	return ChangePasswords(
		ctx, tq.q, tq.r.roleSuffix, tq.r.hasher, roles, passwords,
	)
}
