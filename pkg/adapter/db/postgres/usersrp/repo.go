// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp implements the repo.Users repository for the
// PostgreSQL database.
package usersrp

import (
	"context"
	"time"

	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) LoadUsers(ctx context.Context) ([]*model.User, []*model.Vehicle, error) {
	return LoadUsers(ctx, cq.Conn)
}

func (cq connQueryer) FindUser(ctx context.Context, username string) (*model.User, error) {
	return FindUser(ctx, cq.Conn, username)
}

func (cq connQueryer) InsertUser(ctx context.Context, u *model.User) error {
	return InsertUser(ctx, cq.Conn, u)
}

func (cq connQueryer) SetUserVehicle(ctx context.Context, username string, vid *model.VehicleID) error {
	return SetUserVehicle(ctx, cq.Conn, username, vid)
}

func (cq connQueryer) TouchLastLogin(ctx context.Context, username string, t time.Time) error {
	return TouchLastLogin(ctx, cq.Conn, username, t)
}

type txQueryer struct {
	*postgres.Tx
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) LoadUsers(ctx context.Context) ([]*model.User, []*model.Vehicle, error) {
	return LoadUsers(ctx, tq.Tx)
}

func (tq txQueryer) FindUser(ctx context.Context, username string) (*model.User, error) {
	return FindUser(ctx, tq.Tx, username)
}

func (tq txQueryer) InsertUser(ctx context.Context, u *model.User) error {
	return InsertUser(ctx, tq.Tx, u)
}

func (tq txQueryer) SetUserVehicle(ctx context.Context, username string, vid *model.VehicleID) error {
	return SetUserVehicle(ctx, tq.Tx, username, vid)
}

func (tq txQueryer) TouchLastLogin(ctx context.Context, username string, t time.Time) error {
	return TouchLastLogin(ctx, tq.Tx, username, t)
}
