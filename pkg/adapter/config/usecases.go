// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"time"

	"github.com/momeni/phoenix/pkg/adapter/config/settings"
	"github.com/momeni/phoenix/pkg/adapter/hash/scram"
	"github.com/momeni/phoenix/pkg/core/dispatch"
	scrami "github.com/momeni/phoenix/pkg/core/scram"
	"github.com/momeni/phoenix/pkg/core/usecase/authuc"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
	"github.com/momeni/phoenix/pkg/core/usecase/matchinguc"
)

// Acceptable ranges of the use cases settings. Out of range values
// are rejected by ValidateAndNormalize.
var (
	workersRange  = settings.Range[int]{Min: 1, Max: 256}
	radiusKmRange = settings.Range[float64]{Min: 0.1, Max: 20000}

	hashItersRange = settings.Range[int]{
		Min: authuc.DefaultHashIterations, Max: 1 << 20,
	}
	awaitTimeoutRange = settings.Range[settings.Duration]{
		Min: settings.Duration(time.Second),
		Max: settings.Duration(time.Hour),
	}
)

// Usecases contains the configuration settings for all use cases.
// Fields of the nested structs are defined as pointers, so it is
// possible to detect if they are or are not initialized. Missing items
// take their default values from the use cases layer.
type Usecases struct {
	Matching Matching // matching engine and dispatcher settings
	Auth     Auth     // registration and login settings
	Fleet    Fleet    // search and return requests settings
}

// Matching contains the matching engine settings.
type Matching struct {
	// Workers is the number of dispatcher workers which run the
	// search, return, login, and registration tasks.
	Workers *int

	// EnforceHoldings enables the holding policy, so only the holder
	// of a vehicle may return it. A user may never hold two vehicles.
	EnforceHoldings *bool `yaml:"enforce-holdings"`

	// MaxRadiusKm is the largest accepted search radius.
	MaxRadiusKm *float64 `yaml:"max-radius-km"`
}

// Auth contains the authentication use cases settings.
type Auth struct {
	// Mechanism is the SCRAM mechanism of the user passwords hashes,
	// either scram-sha-1 or scram-sha-256 (which is the default).
	Mechanism string `yaml:",omitempty"`

	// HashIterations is the PBKDF2 iterations count of the SCRAM
	// hashes which are computed for the new user passwords.
	HashIterations *int `yaml:"hash-iterations"`

	hasher scrami.Hasher
}

// Fleet contains the fleet use cases settings.
type Fleet struct {
	// AwaitTimeout is the waiting duration of a pending search
	// result query which does not specify its own timeout.
	AwaitTimeout *settings.Duration `yaml:"await-timeout"`

	// MaxAwaitTimeout caps the timeout of pending search result
	// queries.
	MaxAwaitTimeout *settings.Duration `yaml:"max-await-timeout"`
}

// ValidateAndNormalize fills the missing settings with their default
// values and verifies that all settings are in their acceptable range.
func (u *Usecases) ValidateAndNormalize() error {
	m := &u.Matching
	settings.Default(&m.Workers, dispatch.DefaultWorkers)
	settings.Nil2Zero(&m.EnforceHoldings)
	settings.Default(&m.MaxRadiusKm, matchinguc.DefaultMaxRadiusKm)
	if err := workersRange.Verify("workers", *m.Workers); err != nil {
		return err
	}
	err := radiusKmRange.Verify("max-radius-km", *m.MaxRadiusKm)
	if err != nil {
		return err
	}
	switch mech := u.Auth.Mechanism; mech {
	case "scram-sha-1":
		u.Auth.hasher = scram.SHA1()
	case "":
		u.Auth.Mechanism = "scram-sha-256"
		fallthrough
	case "scram-sha-256":
		u.Auth.hasher = scram.SHA256()
	default:
		return fmt.Errorf("unsupported auth mechanism: %q", mech)
	}
	settings.Default(&u.Auth.HashIterations, authuc.DefaultHashIterations)
	err = hashItersRange.Verify("hash-iterations", *u.Auth.HashIterations)
	if err != nil {
		return err
	}
	return u.Fleet.validateAndNormalize()
}

func (f *Fleet) validateAndNormalize() error {
	settings.Default(
		&f.AwaitTimeout, settings.Duration(fleetuc.DefaultAwaitTimeout),
	)
	settings.Default(
		&f.MaxAwaitTimeout,
		settings.Duration(fleetuc.DefaultMaxAwaitTimeout),
	)
	err := awaitTimeoutRange.Verify("max-await-timeout", *f.MaxAwaitTimeout)
	if err != nil {
		return err
	}
	r := awaitTimeoutRange
	r.Max = *f.MaxAwaitTimeout
	return r.Verify("await-timeout", *f.AwaitTimeout)
}
