// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momeni/phoenix/internal/test/dbcontainer"
	"github.com/momeni/phoenix/internal/test/schema"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres/fleetrp"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/stretchr/testify/suite"
)

type IntegrationReposTestSuite struct {
	suite.Suite

	Ctx   context.Context
	Pool  *postgres.Pool
	Fleet *fleetrp.Repo
	Users *usersrp.Repo
}

func TestIntegrationReposTestSuite(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationReposTestSuite{
		Ctx:   ctx,
		Pool:  pool,
		Fleet: fleetrp.New(),
		Users: usersrp.New(),
	})
}

func (irts *IntegrationReposTestSuite) SetupSuite() {
	err := dbcontainer.InitDev(irts.Ctx, irts.Pool)
	irts.Require().NoError(err, "failed to initialize the dev schema")
}

// conn runs f in a transaction which is always rolled back, so the
// tests do not observe each other changes.
func (irts *IntegrationReposTestSuite) conn(
	f func(ctx context.Context, tx repo.Tx),
) {
	errRollback := errors.New("rollback")
	err := irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				f(ctx, tx)
				return errRollback
			})
		},
	)
	irts.ErrorIs(err, errRollback)
}

func (irts *IntegrationReposTestSuite) TestSchema() {
	err := irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			v := schema.New(c)
			v.VerifySchema(ctx, irts.T())
			v.VerifyDevData(ctx, irts.T())
			return nil
		},
	)
	irts.NoError(err)
}

func (irts *IntegrationReposTestSuite) TestLoadFleet() {
	irts.conn(func(ctx context.Context, tx repo.Tx) {
		q := irts.Fleet.Tx(tx)
		cs, err := q.LoadCategories(ctx)
		irts.Require().NoError(err)
		irts.Equal([]model.Category{
			{ID: 1, Name: "City"}, {ID: 2, Name: "SUV"}, {ID: 3, Name: "Van"},
		}, cs)

		lots, err := q.LoadLots(ctx)
		irts.Require().NoError(err)
		irts.Len(lots, schema.DevLots)
		parked := 0
		for i, lot := range lots {
			irts.Equal(model.LotID(i+1), lot.ID, "ordered by id")
			irts.LessOrEqual(lot.Len(), lot.Capacity)
			parked += lot.Len()
		}
		irts.Positive(parked)
		irts.Equal("Principe", lots[0].Name)
		irts.InDelta(44.414, lots[0].Coordinate.Lat, 1e-9)
	})
}

func (irts *IntegrationReposTestSuite) TestSetVehicleLot() {
	irts.conn(func(ctx context.Context, tx repo.Tx) {
		q := irts.Fleet.Tx(tx)
		lots, err := q.LoadLots(ctx)
		irts.Require().NoError(err)
		v := lots[0].Vehicles()[0]

		irts.Require().NoError(q.SetVehicleLot(ctx, v.ID, nil))
		lots, err = q.LoadLots(ctx)
		irts.Require().NoError(err)
		for _, lot := range lots {
			for _, pv := range lot.Vehicles() {
				irts.NotEqual(v.ID, pv.ID, "vehicle is not parked")
			}
		}

		dst := lots[len(lots)-1].ID
		irts.Require().NoError(q.SetVehicleLot(ctx, v.ID, &dst))
		lots, err = q.LoadLots(ctx)
		irts.Require().NoError(err)
		irts.True(lots[len(lots)-1].Contains(v.Plate))
	})
	irts.conn(func(ctx context.Context, tx repo.Tx) {
		missing := model.LotID(1000)
		err := irts.Fleet.Tx(tx).SetVehicleLot(ctx, 1, &missing)
		irts.ErrorIs(err, cerr.ErrUnknownLot)
	})
	irts.conn(func(ctx context.Context, tx repo.Tx) {
		err := irts.Fleet.Tx(tx).SetVehicleLot(ctx, 1000, nil)
		irts.ErrorIs(err, cerr.ErrUnknownVehicle)
	})
}

func (irts *IntegrationReposTestSuite) TestUsers() {
	irts.conn(func(ctx context.Context, tx repo.Tx) {
		q := irts.Users.Tx(tx)
		u := &model.User{
			Username:       "alice",
			Email:          "alice@example.com",
			Name:           "Alice",
			HashedPassword: "SCRAM-SHA-256$4096:c2FsdA==$a:b",
			Salt:           "c2FsdA==",
		}
		irts.Require().NoError(q.InsertUser(ctx, u))
		// empty emails are stored as NULL, so they do not collide
		irts.Require().NoError(q.InsertUser(ctx, &model.User{
			Username: "bob", HashedPassword: "h", Salt: "s",
		}))
		irts.Require().NoError(q.InsertUser(ctx, &model.User{
			Username: "carol", HashedPassword: "h", Salt: "s",
		}))

		found, err := q.FindUser(ctx, "alice")
		irts.Require().NoError(err)
		irts.Equal(u.Email, found.Email)
		irts.Equal(u.HashedPassword, found.HashedPassword)
		irts.Nil(found.LastLogin)

		_, err = q.FindUser(ctx, "nobody")
		irts.ErrorIs(err, cerr.ErrUnknownUser)

		now := time.Now().UTC().Truncate(time.Millisecond)
		irts.Require().NoError(q.TouchLastLogin(ctx, "alice", now))
		found, err = q.FindUser(ctx, "alice")
		irts.Require().NoError(err)
		irts.Require().NotNil(found.LastLogin)
		irts.True(now.Equal(*found.LastLogin))
	})
	irts.conn(func(ctx context.Context, tx repo.Tx) {
		q := irts.Users.Tx(tx)
		u := &model.User{Username: "dave", HashedPassword: "h", Salt: "s"}
		irts.Require().NoError(q.InsertUser(ctx, u))
		// a failed statement aborts the tx, so it must come last
		irts.ErrorIs(q.InsertUser(ctx, u), cerr.ErrDuplicateUser)
	})
}

func (irts *IntegrationReposTestSuite) TestHeldVehicles() {
	irts.conn(func(ctx context.Context, tx repo.Tx) {
		q := irts.Users.Tx(tx)
		for _, name := range []string{"alice", "bob"} {
			irts.Require().NoError(q.InsertUser(ctx, &model.User{
				Username: name, HashedPassword: "h", Salt: "s",
			}))
		}
		vid := model.VehicleID(1)
		irts.Require().NoError(irts.Fleet.Tx(tx).SetVehicleLot(ctx, vid, nil))
		irts.Require().NoError(q.SetUserVehicle(ctx, "alice", &vid))

		err := q.SetUserVehicle(ctx, "bob", &vid)
		irts.Error(err, "a vehicle is held by one user at most")
	})
	irts.conn(func(ctx context.Context, tx repo.Tx) {
		q := irts.Users.Tx(tx)
		irts.Require().NoError(q.InsertUser(ctx, &model.User{
			Username: "alice", HashedPassword: "h", Salt: "s",
		}))
		vid := model.VehicleID(2)
		irts.Require().NoError(irts.Fleet.Tx(tx).SetVehicleLot(ctx, vid, nil))
		irts.Require().NoError(q.SetUserVehicle(ctx, "alice", &vid))

		users, held, err := q.LoadUsers(ctx)
		irts.Require().NoError(err)
		irts.Require().Len(users, 1)
		irts.Require().NotNil(users[0].Vehicle)
		irts.Equal(vid, *users[0].Vehicle)
		irts.Require().Len(held, 1)
		irts.Equal(vid, held[0].ID)

		irts.Require().NoError(q.SetUserVehicle(ctx, "alice", nil))
		users, held, err = q.LoadUsers(ctx)
		irts.Require().NoError(err)
		irts.Nil(users[0].Vehicle)
		irts.Empty(held)
	})
}
