// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/phoenix/pkg/core/repo"
	"gorm.io/gorm"
)

// Tx is a READ-COMMITTED PostgreSQL transaction which is created by
// the Conn.Tx method. It embeds the *gorm.DB of that transaction, so
// repositories may run GORM queries on it (see GORM).
type Tx struct {
	*gorm.DB
}

// Exec implements repo.Queryer.
func (tx *Tx) Exec(
	ctx context.Context, stmt string, args ...any,
) (int64, error) {
	return exec(ctx, tx.DB, stmt, args)
}

// Query implements repo.Queryer.
func (tx *Tx) Query(
	ctx context.Context, stmt string, args ...any,
) (repo.Rows, error) {
	return query(ctx, tx.DB, stmt, args)
}

// IsTx implements repo.Tx.
func (tx *Tx) IsTx() {
}

// GORM returns the transaction *gorm.DB in a session for ctx.
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}
