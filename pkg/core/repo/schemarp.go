// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer creates the fleet tables in a fresh schema and
// fills them with their initial rows.
type SchemaInitializer interface {
	// InitDevSchema creates the tables and fills them with sample
	// categories, lots, and vehicles which are suitable for the
	// development and manual tests.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema creates the tables and fills them with the
	// vehicle categories alone.
	InitProdSchema(ctx context.Context) error
}

// Schema is the repository of the schema-level administration, that
// is, (re)creating the phoenix schema and managing the roles which may
// access it. Role names are suffixed by the repository (if it was
// configured so), hence, callers pass the unsuffixed repo.Role values.
type Schema interface {
	Conn(Conn) SchemaConnQueryer
	Tx(Tx) SchemaTxQueryer
}

// SchemaConnQueryer runs the schema queries on a connection.
type SchemaConnQueryer interface {
	SchemaQueryer
}

// SchemaTxQueryer runs the schema queries in a transaction. Passwords
// may only be changed in a transaction, so the new passwords file is
// moved over the old one only after a successful commit.
type SchemaTxQueryer interface {
	SchemaQueryer

	// ChangePasswords sets passwords[i] as the password of roles[i].
	// Both slices must have the same length.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}

// SchemaQueryer contains the schema queries. Schema names are put in
// the SQL statements as quoted identifiers, so they must be trusted
// values (like schemauc.SchemaName) and never the user inputs.
type SchemaQueryer interface {
	// DropIfExists drops the schema and all of its tables. A missing
	// schema is not an error.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema creates the schema which must not exist.
	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates a login role without a password
	// unless it exists already.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants all privileges on the schema to role,
	// so it can create the fleet tables and query them afterwards.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath makes schema the only search_path item of role, so
	// the fleet tables may be queried without qualifying their names.
	SetSearchPath(ctx context.Context, schema string, role Role) error
}
