// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"context"

	"github.com/momeni/phoenix/pkg/core/dispatch"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/usecase/authuc"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
	"github.com/momeni/phoenix/pkg/core/usecase/matchinguc"
	"github.com/momeni/phoenix/pkg/core/usecase/sessionuc"
)

// Builder creates the use case objects based on the configuration
// settings. Mandatory collaborators are passed as arguments, while the
// optional settings are turned into functional options by the Builder
// implementation.
type Builder interface {
	// NewSessionRegistry creates an empty session registry.
	NewSessionRegistry() (*sessionuc.Registry, error)

	// NewDispatcher creates a running worker pool.
	NewDispatcher() (*dispatch.Pool, error)

	// NewEngine creates a matching engine having the inv initial
	// inventory. The Builder may attach a candidate lots locator and
	// a metrics recorder to it.
	NewEngine(
		ctx context.Context,
		p repo.Pool, fleet repo.Fleet, users repo.Users,
		sv matchinguc.SessionValidator, inv matchinguc.Inventory,
	) (*matchinguc.Engine, error)

	// NewAuthUseCase creates an authuc UseCase which hashes passwords
	// as configured.
	NewAuthUseCase(
		p repo.Pool, users repo.Users,
		s authuc.Sessions, d authuc.Dispatcher,
	) (*authuc.UseCase, error)

	// NewFleetUseCase creates a fleetuc UseCase object.
	NewFleetUseCase(
		e fleetuc.Engine, s fleetuc.Sessions, d fleetuc.Dispatcher,
	) (*fleetuc.UseCase, error)
}
