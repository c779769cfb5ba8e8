// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/phoenix/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn represents a database connection which is acquired from a Pool.
// It is unsafe to be used concurrently. Statements which are executed
// directly on a Conn are auto-committed, while the Tx method may be
// used in order to run a series of statements in one transaction.
type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// Tx begins a transaction and passes it to f. The transaction is
// committed if f returns nil and is rolled back if f returns an error
// or panics. A panic is reported as an error, so the dispatcher worker
// which runs a failing persistence task keeps working.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	gtx := c.DB.WithContext(ctx).Begin()
	if err = gtx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if r := recover(); r != nil {
			err = fmt.Errorf("tx handler panicked: %v", r)
		}
		if rerr := gtx.Rollback().Error; rerr != nil {
			err = fmt.Errorf("%w, rollback: %w", err, rerr)
		}
	}()
	if err = f(ctx, &Tx{DB: gtx}); err != nil {
		return fmt.Errorf("tx handler: %w", err)
	}
	committed = true
	if err = gtx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Exec implements repo.Queryer.
func (c *Conn) Exec(
	ctx context.Context, stmt string, args ...any,
) (int64, error) {
	return exec(ctx, c.DB, stmt, args)
}

// Query implements repo.Queryer.
func (c *Conn) Query(
	ctx context.Context, stmt string, args ...any,
) (repo.Rows, error) {
	return query(ctx, c.DB, stmt, args)
}

// IsConn implements repo.Conn.
func (c *Conn) IsConn() {
}

// GORM returns the embedded *gorm.DB in a session for the ctx context.
func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
