// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres/fleetrp"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/model"
	"gorm.io/gorm"
)

type gUser struct {
	Username       string `gorm:"primaryKey"`
	Email          *string
	Name           string
	Surname        string
	HashedPassword string
	Salt           string
	VehicleID      *int64
	LastLogin      *time.Time
}

func (gu *gUser) TableName() string {
	return "users"
}

func (gu *gUser) Model() *model.User {
	u := &model.User{
		Username:       gu.Username,
		Name:           gu.Name,
		Surname:        gu.Surname,
		HashedPassword: gu.HashedPassword,
		Salt:           gu.Salt,
		LastLogin:      gu.LastLogin,
	}
	if gu.Email != nil {
		u.Email = *gu.Email
	}
	if gu.VehicleID != nil {
		vid := model.VehicleID(*gu.VehicleID)
		u.Vehicle = &vid
	}
	return u
}

// LoadUsers returns all users ordered by their usernames and the
// vehicles which are held by them ordered by the vehicle ids.
func LoadUsers[Q postgres.Queryer](
	ctx context.Context, q Q,
) ([]*model.User, []*model.Vehicle, error) {
	gdb := q.GORM(ctx)
	var gus []gUser
	if err := gdb.Order("username").Find(&gus).Error; err != nil {
		return nil, nil, fmt.Errorf("querying users: %w", err)
	}
	var gvs []fleetrp.Vehicle
	err := gdb.Where(
		"id IN (SELECT vehicle_id FROM users WHERE vehicle_id IS NOT NULL)",
	).Order("id").Find(&gvs).Error
	if err != nil {
		return nil, nil, fmt.Errorf("querying held vehicles: %w", err)
	}
	users := make([]*model.User, 0, len(gus))
	for i := range gus {
		users = append(users, gus[i].Model())
	}
	held := make([]*model.Vehicle, 0, len(gvs))
	for i := range gvs {
		held = append(held, gvs[i].Model())
	}
	return users, held, nil
}

// FindUser returns the username user, including its password hash
// and salt, or an UnknownUser error if there is no such user.
func FindUser[Q postgres.Queryer](
	ctx context.Context, q Q, username string,
) (*model.User, error) {
	var gu gUser
	err := q.GORM(ctx).Where("username=?", username).Take(&gu).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.UnknownUser()
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gu.Model(), nil
}

// InsertUser creates the u user. A DuplicateUser error is returned if
// its username or email is taken.
func InsertUser[Q postgres.Queryer](
	ctx context.Context, q Q, u *model.User,
) error {
	gu := gUser{
		Username:       u.Username,
		Name:           u.Name,
		Surname:        u.Surname,
		HashedPassword: u.HashedPassword,
		Salt:           u.Salt,
	}
	if u.Email != "" {
		gu.Email = &u.Email
	}
	err := q.GORM(ctx).Create(&gu).Error
	if err != nil {
		if _, ok := postgres.HasCode(err, postgres.UniqueViolation); ok {
			return cerr.DuplicateUser()
		}
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// SetUserVehicle records vid as the vehicle of the username user.
// A nil vid clears it. Updating a missing user is not an error.
func SetUserVehicle[Q postgres.Queryer](
	ctx context.Context, q Q, username string, vid *model.VehicleID,
) error {
	var v any = gorm.Expr("NULL")
	if vid != nil {
		v = int64(*vid)
	}
	err := q.GORM(ctx).Model(&gUser{}).Where(
		"username=?", username,
	).Update("vehicle_id", v).Error
	if err != nil {
		if _, ok := postgres.HasCode(err, postgres.UniqueViolation); ok {
			return cerr.Conflict(fmt.Errorf(
				"vehicle %d is held by another user", *vid,
			))
		}
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// TouchLastLogin sets the last login time of the username user.
func TouchLastLogin[Q postgres.Queryer](
	ctx context.Context, q Q, username string, t time.Time,
) error {
	err := q.GORM(ctx).Model(&gUser{}).Where(
		"username=?", username,
	).Update("last_login", t).Error
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}
