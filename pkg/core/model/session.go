// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated login of a user. It is valid as long as
// it is kept by the session registry.
type Session struct {
	Token    uuid.UUID `json:"token"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// User models a registered user. HashedPassword and Salt are never
// serialized. Vehicle is non-nil when the user holds a vehicle.
type User struct {
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Surname        string     `json:"surname"`
	HashedPassword string     `json:"-"`
	Salt           string     `json:"-"`
	Vehicle        *VehicleID `json:"vehicle,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// Login is the result of a successful login use case.
type Login struct {
	Session Session `json:"session"`
	User    *User   `json:"user"`
}
