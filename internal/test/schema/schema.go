// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema provides a database schema verifier which can be used
// for testing purposes. It checks the fleet tables and their columns,
// and the presence of the development or production suitable rows
// after a direct database initialization.
// Only presence of the expected data and not the absence of extra data
// rows is checked.
package schema

import (
	"context"
	"sort"
	"testing"

	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Columns lists the expected columns of each fleet table.
var Columns = map[string][]string{
	"categories": {"id", "name"},
	"lots": {
		"address", "altitude", "capacity", "id", "lat", "lon", "name",
	},
	"vehicles": {
		"category_id", "color", "id", "lot_id", "name", "plate",
	},
	"users": {
		"email", "hashed_password", "last_login", "name", "salt",
		"surname", "username", "vehicle_id",
	},
}

// Development data size which is checked by VerifyDevData.
const (
	DevLots       = 7
	DevVehicles   = 13
	DevCategories = 3
)

// Verifier wraps a database connection and verifies the schema which
// is visible through its search_path.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier struct, wrapping the c connection.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// VerifySchema checks that all fleet tables exist with their expected
// columns. Failures are reported using the t testing argument.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for table, expected := range Columns {
		rows, err := v.c.Query(
			ctx,
			`SELECT column_name FROM information_schema.columns
WHERE table_schema=current_schema() AND table_name=$1`,
			table,
		)
		require.NoError(t, err, "querying %q columns", table)
		var cols []string
		for rows.Next() {
			var col string
			require.NoError(t, rows.Scan(&col))
			cols = append(cols, col)
		}
		rows.Close()
		require.NoError(t, rows.Err())
		sort.Strings(cols)
		assert.Equal(t, expected, cols, "columns of %q", table)
	}
}

// VerifyDevData checks for presence of the development suitable initial
// data and marks possible issues using the t testing argument.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	assert.GreaterOrEqual(t, v.count(ctx, t, "categories"), DevCategories)
	assert.GreaterOrEqual(t, v.count(ctx, t, "lots"), DevLots)
	assert.GreaterOrEqual(t, v.count(ctx, t, "vehicles"), DevVehicles)
	var overfull int
	rows, err := v.c.Query(
		ctx,
		`SELECT count(*) FROM lots l
WHERE l.capacity < (SELECT count(*) FROM vehicles v WHERE v.lot_id=l.id)`,
	)
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(&overfull))
	assert.Zero(t, overfull, "lots must not exceed their capacity")
}

// VerifyProdData checks for presence of the production suitable initial
// data, that is, the vehicle categories.
func (v *Verifier) VerifyProdData(ctx context.Context, t *testing.T) {
	assert.GreaterOrEqual(t, v.count(ctx, t, "categories"), DevCategories)
}

func (v *Verifier) count(
	ctx context.Context, t *testing.T, table string,
) int {
	rows, err := v.c.Query(ctx, "SELECT count(*) FROM "+table)
	require.NoError(t, err, "counting %q rows", table)
	defer rows.Close()
	require.True(t, rows.Next(), "count(*) returns one row")
	var n int
	require.NoError(t, rows.Scan(&n))
	return n
}
