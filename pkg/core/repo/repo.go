// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo declares the storage interfaces which the use cases
// depend on. A Pool hands out connections to a handler function, so a
// connection cannot outlive the operation which acquired it, and a Conn
// may run a handler in a transaction. Each repository, like Fleet or
// Users, wraps a Conn or a Tx and returns a queryer which exposes the
// domain level queries. Adapters, such as the PostgreSQL one, implement
// these interfaces, while the in-memory test store implements them for
// the use cases tests.
package repo

import "context"

// ConnHandler is called with a connection which is acquired from a
// Pool and is released as soon as the handler returns.
type ConnHandler func(context.Context, Conn) error

// TxHandler runs in a transaction which is committed if it returns nil
// and is rolled back otherwise.
type TxHandler func(context.Context, Tx) error

// Pool is a set of database connections.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}

// Conn is a database connection. Statements which run on a Conn are
// committed one by one, while Tx groups them in one transaction.
// A Conn must not be used concurrently.
type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn distinguishes a Conn from a Tx with the same methods.
	IsConn()
}

// Tx is a database transaction. It must not be used concurrently.
// Fleet updates which must be persisted together, such as moving a
// vehicle and updating its holder, run in a single Tx.
type Tx interface {
	Queryer

	// IsTx distinguishes a Tx from a Conn with the same methods.
	IsTx()
}

// Queryer runs raw SQL statements. It is used by the schema management
// and initialization repositories, while the fleet and users queries
// are exposed by their own queryer interfaces.
type Queryer interface {
	// Exec runs sql and returns the number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query runs sql and returns its result set. The Rows must be
	// closed before another statement may run on the same Queryer.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows is a result set which is iterated by Next.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}
