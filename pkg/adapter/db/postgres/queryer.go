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

// Queryer is the type constraint of generic query functions which may
// run either on a connection or a transaction. Repositories implement
// each query once for Q and call it from their Conn and Tx queryers.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}
