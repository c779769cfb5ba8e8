// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/usecase/authuc"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
)

// Loaded reports whether Load was called successfully and the use
// cases are not closed yet.
func (app *UseCase) Loaded() bool {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.fleetUseCase != nil
}

// AuthUseCase returns the loaded authentication use case object.
func (app *UseCase) AuthUseCase() *authuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.authUseCase
}

// FleetUseCase returns the loaded fleet use case object.
func (app *UseCase) FleetUseCase() *fleetuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.fleetUseCase
}

// Stats summarizes the fleet state, including the number of queued
// dispatcher tasks. The second return value is false if the use cases
// are not loaded.
func (app *UseCase) Stats() (st model.FleetStats, queued int, ok bool) {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	if app.fleetUseCase == nil {
		return model.FleetStats{}, 0, false
	}
	return app.fleetUseCase.Stats(), app.dispatcher.Queued(), true
}
