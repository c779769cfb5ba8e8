// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package matchinguc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/model"
)

// Return records that the req vehicle was returned to the req lot.
// The vehicle must be held by a user. It is released from its holder,
// both in the store and in memory, and the req handle is resolved with
// a released delivery. Thereafter, the pending requests are scanned in
// their arrival order and the first one which covers the lot and asks
// for the vehicle category receives the vehicle directly, so
// ReturnReassigned is returned. Otherwise, the vehicle is parked in
// the lot and ReturnStored is returned.
//
// Any returned error is also used to fail the req handle.
func (e *Engine) Return(
	ctx context.Context, req *model.ReturnRequest,
) (model.ReturnOutcome, error) {
	v, out, err := e.ret(ctx, req)
	if err != nil {
		fail(req.Handle, err)
		return model.ReturnInvalid, err
	}
	e.recorder.ReturnDone(ctx, out, v.Category)
	return out, nil
}

// ValidateReturn checks that req refers to known lot and vehicle.
func (e *Engine) ValidateReturn(req *model.ReturnRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.lots[req.Lot]; !ok {
		return cerr.UnknownLot()
	}
	if _, ok := e.vehicles[req.Vehicle]; !ok {
		return cerr.UnknownVehicle()
	}
	return nil
}

func (e *Engine) ret(
	ctx context.Context, req *model.ReturnRequest,
) (*model.Vehicle, model.ReturnOutcome, error) {
	if !e.sessions.Validate(req.Token) {
		return nil, model.ReturnInvalid, cerr.UnknownSession()
	}
	lot, v, prev, holder, err := e.release(req)
	if err != nil {
		return nil, model.ReturnInvalid, err
	}
	lid := lot.ID
	if err := e.persist(ctx, v.ID, &lid, holder, nil); err != nil {
		e.mu.Lock()
		e.locations[v.ID] = prev
		if holder != "" {
			e.holdings[holder] = v.ID
		}
		e.mu.Unlock()
		log.Error(
			ctx, "persisting vehicle return failed",
			log.Err("err", err),
			slog.Int64("vehicle", int64(v.ID)),
			slog.Int64("lot", int64(lot.ID)),
		)
		e.recorder.StorageFailed(ctx, "return")
		err = fmt.Errorf("persisting return of %d: %w", v.ID, err)
		return nil, model.ReturnInvalid, err
	}
	resolve(req.Handle, model.Delivery{
		Kind: model.DeliveryReleased, Vehicle: v, Lot: lot.ID,
	})
	log.Info(
		ctx, "vehicle released",
		slog.String("username", prev.Username),
		slog.Int64("vehicle", int64(v.ID)),
		slog.Int64("lot", int64(lot.ID)),
	)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.reassign(ctx, lot, v) {
		return v, model.ReturnReassigned, nil
	}
	lot.Put(v)
	e.locations[v.ID] = model.AtLot(lot.ID)
	return v, model.ReturnStored, nil
}

// release marks the req vehicle as in transit, so no other return may
// take it, and forgets its holder. The former location is returned, so
// it can be restored if the store could not be updated. The holder is
// the username whose holding record points at the vehicle, or empty if
// no user record has to be cleared.
func (e *Engine) release(
	req *model.ReturnRequest,
) (*model.GeoLot, *model.Vehicle, model.Location, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	lot, ok := e.lots[req.Lot]
	if !ok {
		return nil, nil, model.Location{}, "", cerr.UnknownLot()
	}
	v, ok := e.vehicles[req.Vehicle]
	if !ok {
		return nil, nil, model.Location{}, "", cerr.UnknownVehicle()
	}
	prev := e.locations[v.ID]
	switch {
	case prev.Kind != model.LocationAssigned:
		return nil, nil, model.Location{}, "", cerr.VehicleNotHeld()
	case e.enforceHoldings && prev.Username != req.Username:
		return nil, nil, model.Location{}, "", cerr.VehicleNotHeld()
	}
	e.locations[v.ID] = model.InTransit()
	holder := ""
	if vid, ok := e.holdings[prev.Username]; ok && vid == v.ID {
		holder = prev.Username
		delete(e.holdings, holder)
	}
	return lot, v, prev, holder, nil
}

// reassign hands v, which is returned to lot, to the oldest pending
// request which covers lot and asks for v category. The matching lock
// must be held. It returns false if no request could take v.
func (e *Engine) reassign(
	ctx context.Context, lot *model.GeoLot, v *model.Vehicle,
) bool {
	for _, req := range e.pending.Snapshot() {
		if req.Category != v.Category || !req.Covers(lot) {
			continue
		}
		if _, held := e.holdings[req.Username]; held {
			continue
		}
		idx, ok := e.pending.RemoveIf(req)
		if !ok {
			continue
		}
		vid := v.ID
		if err := e.persist(ctx, vid, nil, req.Username, &vid); err != nil {
			e.pending.Restore(idx, req)
			log.Error(
				ctx, "persisting vehicle reassignment failed",
				log.Err("err", err),
				slog.Int64("vehicle", int64(v.ID)),
				slog.String("username", req.Username),
			)
			e.recorder.StorageFailed(ctx, "reassign")
			return false
		}
		e.locations[v.ID] = model.AssignedTo(req.Token, req.Username)
		e.holdings[req.Username] = v.ID
		delete(e.reserved, req.Token)
		resolve(req.Handle, model.Delivery{
			Kind: model.DeliveryAssigned, Vehicle: v, Lot: lot.ID,
		})
		log.Info(
			ctx, "returned vehicle reassigned",
			log.Token("token", req.Token),
			slog.String("username", req.Username),
			slog.Int64("vehicle", int64(v.ID)),
			slog.Int64("lot", int64(lot.ID)),
		)
		return true
	}
	return false
}
