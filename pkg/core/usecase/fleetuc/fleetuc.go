// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fleetuc contains the fleet UseCase which is the remote
// surface of the matching engine. It authorizes and validates the
// search and return requests synchronously, queues them on the
// dispatcher, and hands their result channels to the callers.
// It also supports awaiting a queued search, cancelling it, and
// listing the fleet state.
package fleetuc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/dispatch"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/result"
)

// Default await timeouts, unless the WithAwaitTimeouts option is used.
const (
	DefaultAwaitTimeout    = 30 * time.Second
	DefaultMaxAwaitTimeout = 5 * time.Minute
)

// ErrNoSearch indicates that a session has not searched yet.
var ErrNoSearch = errors.New("session has no search")

// Engine is the subset of the matching engine which is exposed by the
// fleet use case.
type Engine interface {
	ValidateSearch(req *model.SearchRequest) error
	Reserve(req *model.SearchRequest) error
	Release(req *model.SearchRequest)
	Search(ctx context.Context, req *model.SearchRequest) (model.SearchOutcome, error)
	ValidateReturn(req *model.ReturnRequest) error
	Return(ctx context.Context, req *model.ReturnRequest) (model.ReturnOutcome, error)
	Cancel(ctx context.Context, token uuid.UUID) bool

	Categories() []model.Category
	Lots() []model.LotView
	Lot(id model.LotID) (model.LotView, error)
	Vehicles() []model.VehicleStatus
	Pending() []model.PendingView
	Stats() model.FleetStats
	Users(ctx context.Context) ([]*model.User, error)
}

// Sessions is the subset of the session registry which is used by the
// fleet use case.
type Sessions interface {
	Lookup(token uuid.UUID) (model.Session, error)
	Attach(token uuid.UUID, h *result.Channel[model.Delivery]) bool
	Handle(token uuid.UUID) (*result.Channel[model.Delivery], error)
	List() []model.Session
	Len() int
}

// Dispatcher queues tasks for asynchronous execution.
type Dispatcher interface {
	Submit(name string, t dispatch.Task) error
}

// SearchQuery contains the caller-provided fields of a search.
type SearchQuery struct {
	Category   model.CategoryID
	Coordinate model.Coordinate
	RadiusKm   float64
}

// SearchTicket is returned for an accepted search. The Outcome channel
// reports whether a vehicle was assigned right away or the request was
// queued, while the Delivery channel is resolved with the assigned
// vehicle (possibly much later) or with a cancellation.
type SearchTicket struct {
	Token    uuid.UUID
	Outcome  *result.Channel[model.SearchOutcome]
	Delivery *result.Channel[model.Delivery]
}

// ReturnTicket is returned for an accepted return. The Release channel
// is resolved as soon as the return is recorded, while the Outcome
// channel reports whether the vehicle was parked or reassigned.
type ReturnTicket struct {
	Outcome *result.Channel[model.ReturnOutcome]
	Release *result.Channel[model.Delivery]
}

// UseCase represents the fleet use case.
type UseCase struct {
	engine     Engine
	sessions   Sessions
	dispatcher Dispatcher

	awaitTimeout    time.Duration
	maxAwaitTimeout time.Duration
}

// New instantiates a fleet use case.
func New(
	e Engine, s Sessions, d Dispatcher, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{engine: e, sessions: s, dispatcher: d}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.awaitTimeout == 0 {
		uc.awaitTimeout = DefaultAwaitTimeout
	}
	if uc.maxAwaitTimeout == 0 {
		uc.maxAwaitTimeout = DefaultMaxAwaitTimeout
	}
	if uc.awaitTimeout > uc.maxAwaitTimeout {
		return nil, fmt.Errorf(
			"await timeout (%v) exceeds its max (%v)",
			uc.awaitTimeout, uc.maxAwaitTimeout,
		)
	}
	return uc, nil
}

// Search authorizes the token session, validates q, reserves the
// search for that session, and queues it on the dispatcher. Errors
// which are detected synchronously (UnknownSession, DuplicateRequest,
// UnknownCategory, or invalid coordinate and radius) are returned
// without consuming a worker. The delivery channel is also kept by
// the session registry, so it can be awaited by Await.
func (uc *UseCase) Search(
	ctx context.Context, token uuid.UUID, q SearchQuery,
) (*SearchTicket, error) {
	s, err := uc.sessions.Lookup(token)
	if err != nil {
		return nil, err
	}
	req := &model.SearchRequest{
		Token:      token,
		Username:   s.Username,
		Category:   q.Category,
		Coordinate: q.Coordinate,
		RadiusKm:   q.RadiusKm,
		Handle:     result.New[model.Delivery](),
	}
	if err := uc.engine.ValidateSearch(req); err != nil {
		return nil, err
	}
	if err := uc.engine.Reserve(req); err != nil {
		return nil, err
	}
	t := &SearchTicket{
		Token:    token,
		Outcome:  result.New[model.SearchOutcome](),
		Delivery: req.Handle,
	}
	if !uc.sessions.Attach(token, req.Handle) {
		uc.engine.Release(req)
		return nil, cerr.UnknownSession()
	}
	err = uc.dispatcher.Submit("search", func(ctx context.Context) error {
		out, err := uc.engine.Search(ctx, req)
		if err != nil {
			t.Outcome.Fail(err)
			return err
		}
		t.Outcome.Resolve(out)
		return nil
	})
	if err != nil {
		uc.engine.Release(req)
		req.Handle.Fail(err)
		return nil, fmt.Errorf("queueing search: %w", err)
	}
	return t, nil
}

// Await waits up to wait for the latest search of the token session
// to be resolved. A zero wait means the default await timeout, while
// a negative wait only peeks. The wait is capped by the max await
// timeout. If the search is not resolved in time, ok is false and no
// error is returned. If the session never searched, a NotFound error
// wrapping ErrNoSearch is returned.
func (uc *UseCase) Await(
	ctx context.Context, token uuid.UUID, wait time.Duration,
) (d model.Delivery, ok bool, err error) {
	h, err := uc.sessions.Handle(token)
	if err != nil {
		return model.Delivery{}, false, err
	}
	if h == nil {
		return model.Delivery{}, false, cerr.NotFound(ErrNoSearch)
	}
	switch {
	case wait == 0:
		wait = uc.awaitTimeout
	case wait > uc.maxAwaitTimeout:
		wait = uc.maxAwaitTimeout
	}
	if wait > 0 {
		ctx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		select {
		case <-h.Done():
		case <-ctx.Done():
		}
	}
	d, err, ok = h.Peek()
	return d, ok, err
}

// Return authorizes the token session, validates the lot and vehicle
// ids, and queues the return on the dispatcher.
func (uc *UseCase) Return(
	ctx context.Context,
	token uuid.UUID, lot model.LotID, vid model.VehicleID,
) (*ReturnTicket, error) {
	s, err := uc.sessions.Lookup(token)
	if err != nil {
		return nil, err
	}
	req := &model.ReturnRequest{
		Token:    token,
		Username: s.Username,
		Lot:      lot,
		Vehicle:  vid,
		Handle:   result.New[model.Delivery](),
	}
	if err := uc.engine.ValidateReturn(req); err != nil {
		return nil, err
	}
	t := &ReturnTicket{
		Outcome: result.New[model.ReturnOutcome](),
		Release: req.Handle,
	}
	err = uc.dispatcher.Submit("return", func(ctx context.Context) error {
		out, err := uc.engine.Return(ctx, req)
		if err != nil {
			t.Outcome.Fail(err)
			return err
		}
		t.Outcome.Resolve(out)
		return nil
	})
	if err != nil {
		req.Handle.Fail(err)
		return nil, fmt.Errorf("queueing return: %w", err)
	}
	return t, nil
}

// Cancel withdraws the pending search of the token session. It
// returns false, without any error, if nothing was pending. Only an
// unknown session causes an error.
func (uc *UseCase) Cancel(ctx context.Context, token uuid.UUID) (bool, error) {
	if _, err := uc.sessions.Lookup(token); err != nil {
		return false, err
	}
	return uc.engine.Cancel(ctx, token), nil
}

// Categories lists the vehicle categories.
func (uc *UseCase) Categories() []model.Category {
	return uc.engine.Categories()
}

// Lots lists the lots with their parked vehicles.
func (uc *UseCase) Lots() []model.LotView {
	return uc.engine.Lots()
}

// Lot returns the id lot with its parked vehicles.
func (uc *UseCase) Lot(id model.LotID) (model.LotView, error) {
	return uc.engine.Lot(id)
}

// Vehicles lists the vehicles with their locations.
func (uc *UseCase) Vehicles() []model.VehicleStatus {
	return uc.engine.Vehicles()
}

// Pending lists the pending search requests, oldest first.
func (uc *UseCase) Pending() []model.PendingView {
	return uc.engine.Pending()
}

// Sessions lists the active sessions, oldest first.
func (uc *UseCase) Sessions() []model.Session {
	return uc.sessions.List()
}

// Users lists the registered users without their password hashes and
// salts. It reads the store, so the held vehicles are reported as they
// are persisted.
func (uc *UseCase) Users(ctx context.Context) ([]*model.User, error) {
	return uc.engine.Users(ctx)
}

// Stats summarizes the fleet state.
func (uc *UseCase) Stats() model.FleetStats {
	st := uc.engine.Stats()
	st.Sessions = uc.sessions.Len()
	return st
}
