// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"database/sql"

	"github.com/momeni/phoenix/pkg/core/repo"
	"gorm.io/gorm"
)

// exec and query implement the repo.Queryer methods of Conn and Tx.
// Parameters may be numbered ($1, $2, ...) as the PostgreSQL protocol
// supports them natively, or be written as ? and @name placeholders
// which are expanded by GORM. Without args, stmt may contain several
// semicolon separated statements (e.g., the tables creation script).

func exec(
	ctx context.Context, gdb *gorm.DB, stmt string, args []any,
) (int64, error) {
	res := gdb.WithContext(ctx).Exec(stmt, args...)
	if err := res.Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

func query(
	ctx context.Context, gdb *gorm.DB, stmt string, args []any,
) (repo.Rows, error) {
	r, err := gdb.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, err
	}
	return rows{r}, nil
}

// rows adapts *sql.Rows to repo.Rows. Close errors are not returned
// since they are reported by Err too.
type rows struct {
	*sql.Rows
}

func (r rows) Close() {
	_ = r.Rows.Close()
}
