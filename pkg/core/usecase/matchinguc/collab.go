// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package matchinguc

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/model"
)

// SessionValidator is the subset of the session registry which the
// Engine needs in order to authorize requests.
// It must not call back into the Engine.
type SessionValidator interface {
	Validate(token uuid.UUID) bool
}

// Locator finds the lots which may be closer than radiusKm to c.
// It may return a superset of the covering lots, since the Engine
// filters them by their exact distance again. A Locator must not
// return lots which it did not learn about through the Engine
// inventory.
type Locator interface {
	Candidates(
		ctx context.Context, c model.Coordinate, radiusKm float64,
	) ([]model.LotID, error)
}

// Indexer is optionally implemented by a Locator which needs to learn
// the lots positions before answering queries. The Engine calls it
// once, while it is being created.
type Indexer interface {
	Index(ctx context.Context, lots []*model.GeoLot) error
}

// Recorder receives the matching events, so they can be exported as
// metrics. Its methods are called without holding the matching lock.
type Recorder interface {
	SearchDone(
		ctx context.Context,
		outcome model.SearchOutcome,
		category model.CategoryID,
	)
	ReturnDone(
		ctx context.Context,
		outcome model.ReturnOutcome,
		category model.CategoryID,
	)
	Cancelled(ctx context.Context)
	StorageFailed(ctx context.Context, op string)
}

type nopRecorder struct{}

func (nopRecorder) SearchDone(
	context.Context, model.SearchOutcome, model.CategoryID,
) {
}

func (nopRecorder) ReturnDone(
	context.Context, model.ReturnOutcome, model.CategoryID,
) {
}

func (nopRecorder) Cancelled(context.Context) {}

func (nopRecorder) StorageFailed(context.Context, string) {}
