// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schinit provides the Initializer type which creates the
// fleet tables in an empty schema and fills them with development or
// production suitable data. It implements repo.SchemaInitializer.
package schinit

import (
	"context"
	"fmt"

	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/core/repo"
)

const createTables = `
CREATE TABLE categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE lots (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	lat DOUBLE PRECISION NOT NULL CHECK (lat BETWEEN -90 AND 90),
	lon DOUBLE PRECISION NOT NULL CHECK (lon BETWEEN -180 AND 180),
	altitude DOUBLE PRECISION NOT NULL DEFAULT 0,
	capacity INTEGER NOT NULL CHECK (capacity >= 0)
);
CREATE TABLE vehicles (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	plate TEXT NOT NULL UNIQUE,
	category_id BIGINT NOT NULL REFERENCES categories(id),
	lot_id BIGINT REFERENCES lots(id)
);
CREATE INDEX vehicles_lot_id_idx ON vehicles (lot_id);
CREATE TABLE users (
	username TEXT PRIMARY KEY,
	email TEXT UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	surname TEXT NOT NULL DEFAULT '',
	hashed_password TEXT NOT NULL,
	salt TEXT NOT NULL,
	vehicle_id BIGINT UNIQUE REFERENCES vehicles(id),
	last_login TIMESTAMPTZ
);
`

// Categories are the vehicle categories of both of the development
// and production initial data.
var Categories = []string{"City", "SUV", "Van"}

// Initializer creates and fills the fleet tables in one transaction.
// The caller is responsible to commit that transaction.
type Initializer struct {
	tx *postgres.Tx
}

// New creates an Initializer instance, wrapping the given tx database
// transaction. The tables are created in the first schema of the
// search_path of the tx role.
func New(tx repo.Tx) *Initializer {
	return &Initializer{tx: tx.(*postgres.Tx)}
}

// InitDevSchema creates the tables and fills them with the categories
// and a set of lots and vehicles around Genoa.
func (si *Initializer) InitDevSchema(ctx context.Context) error {
	if err := si.InitProdSchema(ctx); err != nil {
		return err
	}
	for _, l := range devLots {
		_, err := si.tx.Exec(
			ctx,
			`INSERT INTO lots(id, name, address, lat, lon, capacity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.id, l.name, l.address, l.lat, l.lon, l.capacity,
		)
		if err != nil {
			return fmt.Errorf("inserting lot %q: %w", l.name, err)
		}
	}
	for i, v := range devVehicles {
		_, err := si.tx.Exec(
			ctx,
			`INSERT INTO vehicles(id, name, color, plate, category_id, lot_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			i+1, v.name, v.color, v.plate, v.category, v.lot,
		)
		if err != nil {
			return fmt.Errorf("inserting vehicle %q: %w", v.plate, err)
		}
	}
	return si.resetSequences(ctx, "lots", "vehicles")
}

// InitProdSchema creates the tables and fills the categories table.
func (si *Initializer) InitProdSchema(ctx context.Context) error {
	if _, err := si.tx.Exec(ctx, createTables); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	for i, name := range Categories {
		_, err := si.tx.Exec(
			ctx, "INSERT INTO categories(id, name) VALUES ($1, $2)",
			i+1, name,
		)
		if err != nil {
			return fmt.Errorf("inserting category %q: %w", name, err)
		}
	}
	return si.resetSequences(ctx, "categories")
}

func (si *Initializer) resetSequences(
	ctx context.Context, tables ...string,
) error {
	for _, t := range tables {
		_, err := si.tx.Exec(ctx, fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), "+
				"(SELECT max(id) FROM %s))",
			t, t,
		))
		if err != nil {
			return fmt.Errorf("resetting %s id sequence: %w", t, err)
		}
	}
	return nil
}
