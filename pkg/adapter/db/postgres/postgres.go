// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres is the PostgreSQL database adapter. It implements
// the repo.Pool, repo.Conn, and repo.Tx interfaces using GORM and
// the pgx driver, while the fleetrp, usersrp, and schemarp
// sub-packages implement the repositories on top of them.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes which are handled by the repositories.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// HasCode reports if err wraps a PostgreSQL error with the code
// SQLSTATE. If so, the violated constraint name is returned too.
func HasCode(err error, code string) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return "", false
	}
	return pgErr.ConstraintName, true
}
