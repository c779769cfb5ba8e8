// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package matchinguc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/model"
)

// Search tries to claim a vehicle of the requested category from the
// lots which are strictly closer than the requested radius. Lots are
// scanned by their ascending ids and vehicles in their parking order,
// so the first matching vehicle is assigned to the request, its handle
// is resolved with it, and SearchAssigned is returned. If no vehicle
// can be claimed, req is queued in the pending registry and
// SearchQueued is returned. A queued request is resolved later by a
// returned vehicle or by a cancellation.
//
// The session of req must be valid and may not have another pending
// or in-flight search, unless req itself was reserved by Reserve.
// A user who already holds a vehicle gets a VehicleAlreadyHeld error.
// Any returned error is also used to fail the req handle. A store
// failure rolls back the claim, so the vehicle stays in its lot.
func (e *Engine) Search(
	ctx context.Context, req *model.SearchRequest,
) (model.SearchOutcome, error) {
	out, err := e.search(ctx, req)
	if err != nil {
		fail(req.Handle, err)
		return model.SearchInvalid, err
	}
	e.recorder.SearchDone(ctx, out, req.Category)
	return out, nil
}

// ValidateSearch checks the fields of req which do not depend on the
// fleet state. It is called by Search, but may also be called by
// callers which queue a search for later execution, so invalid
// requests can be rejected synchronously.
func (e *Engine) ValidateSearch(req *model.SearchRequest) error {
	if err := req.Coordinate.Validate(); err != nil {
		return cerr.BadRequest(err)
	}
	if r := req.RadiusKm; r <= 0 || r > e.maxRadiusKm {
		return cerr.BadRequest(fmt.Errorf(
			"radius (%g km) is not in (0, %g]", r, e.maxRadiusKm,
		))
	}
	if _, err := e.Category(req.Category); err != nil {
		return err
	}
	return nil
}

func (e *Engine) search(
	ctx context.Context, req *model.SearchRequest,
) (model.SearchOutcome, error) {
	if !e.sessions.Validate(req.Token) {
		e.Release(req)
		return model.SearchInvalid, cerr.UnknownSession()
	}
	if err := e.ValidateSearch(req); err != nil {
		e.Release(req)
		return model.SearchInvalid, err
	}
	ids := e.candidates(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	switch r, ok := e.reserved[req.Token]; {
	case ok && r != req:
		return model.SearchInvalid, cerr.DuplicateRequest()
	case !ok:
		e.reserved[req.Token] = req
	}
	// The store records one vehicle per user, so a second holding
	// would overwrite the first one.
	if _, ok := e.holdings[req.Username]; ok {
		delete(e.reserved, req.Token)
		return model.SearchInvalid, cerr.VehicleAlreadyHeld()
	}
	for _, id := range ids {
		lot, ok := e.lots[id]
		if !ok || !req.Covers(lot) {
			continue
		}
		for _, v := range lot.Vehicles() {
			if v.Category != req.Category {
				continue
			}
			claimed, err := e.claim(ctx, req, lot, v)
			if err != nil {
				delete(e.reserved, req.Token)
				return model.SearchInvalid, err
			}
			if claimed {
				return model.SearchAssigned, nil
			}
		}
	}
	e.arrivals++
	req.Arrival = e.arrivals
	req.Since = e.now()
	if err := e.pending.Insert(req); err != nil {
		delete(e.reserved, req.Token)
		return model.SearchInvalid, err
	}
	// The session may have been destroyed after the above validation
	// and before the insertion, so its cascade could not withdraw req.
	if !e.sessions.Validate(req.Token) {
		e.pending.Remove(req.Token)
		delete(e.reserved, req.Token)
		resolve(req.Handle, model.Delivery{Kind: model.DeliveryCancelled})
		return model.SearchQueued, nil
	}
	log.Debug(
		ctx, "search queued",
		log.Token("token", req.Token),
		slog.Int64("category", int64(req.Category)),
		slog.Uint64("arrival", req.Arrival),
	)
	return model.SearchQueued, nil
}

// claim moves v from lot to the req requester. The matching lock must
// be held. It returns false if v is not parked in lot anymore.
// If persisting the assignment fails, v is put back at its former
// position and an error is returned.
func (e *Engine) claim(
	ctx context.Context,
	req *model.SearchRequest, lot *model.GeoLot, v *model.Vehicle,
) (bool, error) {
	_, idx, ok := lot.Take(v.ID)
	if !ok {
		return false, nil
	}
	e.locations[v.ID] = model.InTransit()
	vid := v.ID
	if err := e.persist(ctx, vid, nil, req.Username, &vid); err != nil {
		lot.PutAt(idx, v)
		e.locations[v.ID] = model.AtLot(lot.ID)
		log.Error(
			ctx, "persisting vehicle claim failed",
			log.Err("err", err),
			slog.Int64("vehicle", int64(v.ID)),
			slog.Int64("lot", int64(lot.ID)),
		)
		e.recorder.StorageFailed(ctx, "claim")
		return false, fmt.Errorf("persisting claim of %d: %w", v.ID, err)
	}
	e.locations[v.ID] = model.AssignedTo(req.Token, req.Username)
	e.holdings[req.Username] = v.ID
	delete(e.reserved, req.Token)
	resolve(req.Handle, model.Delivery{
		Kind: model.DeliveryAssigned, Vehicle: v, Lot: lot.ID,
	})
	log.Info(
		ctx, "vehicle assigned",
		log.Token("token", req.Token),
		slog.String("username", req.Username),
		slog.Int64("vehicle", int64(v.ID)),
		slog.Int64("lot", int64(lot.ID)),
	)
	return true, nil
}

// candidates returns the ids of lots which may cover req, ascending.
// The lots list is static, so it may be read without the lock.
func (e *Engine) candidates(
	ctx context.Context, req *model.SearchRequest,
) []model.LotID {
	if e.locator == nil {
		return e.lotIDs
	}
	ids, err := e.locator.Candidates(ctx, req.Coordinate, req.RadiusKm)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn(
				ctx, "locating candidate lots failed, scanning all lots",
				log.Err("err", err),
			)
		}
		return e.lotIDs
	}
	ids = append([]model.LotID(nil), ids...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
