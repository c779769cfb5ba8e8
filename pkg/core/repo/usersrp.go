// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/momeni/phoenix/pkg/core/model"
)

type UsersConnQueryer interface {
	UsersQueryer
}

type UsersTxQueryer interface {
	UsersQueryer
}

// UsersQueryer contains the users queries.
//
// LoadUsers returns all users alongside the vehicles which they hold.
// FindUser returns a cerr.UnknownUser error if username is not found.
// InsertUser returns a cerr.DuplicateUser error if username (or email)
// is already taken. SetUserVehicle records that username holds the vid
// vehicle, or no vehicle if vid is nil.
type UsersQueryer interface {
	LoadUsers(ctx context.Context) ([]*model.User, []*model.Vehicle, error)
	FindUser(ctx context.Context, username string) (*model.User, error)
	InsertUser(ctx context.Context, u *model.User) error
	SetUserVehicle(ctx context.Context, username string, vid *model.VehicleID) error
	TouchLastLogin(ctx context.Context, username string, t time.Time) error
}

type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}
