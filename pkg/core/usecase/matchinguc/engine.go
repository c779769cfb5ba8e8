// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package matchinguc contains the matching engine which pairs the
// pending search requests (demand) with the vehicles which are parked
// in lots or just returned (supply).
//
// A single matching lock protects the lots vehicle sets, the vehicles
// locations, the pending registry, the reservations of in-flight
// searches, and the users holdings. It is held for the whole claim,
// scan, and removal sequences, including their synchronous store
// writes, so no vehicle may be handed to two requesters and no pending
// request may be matched twice. The session registry has its own lock
// which may be acquired while the matching lock is held, but never the
// other way around.
package matchinguc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/result"
)

// DefaultMaxRadiusKm is the largest accepted search radius, unless the
// WithMaxRadiusKm option is used.
const DefaultMaxRadiusKm = 50.0

// Inventory is the initial state of the fleet as loaded from the store.
type Inventory struct {
	Categories []model.Category
	Lots       []*model.GeoLot // with their parked vehicles
	Users      []*model.User
	Held       []*model.Vehicle // vehicles held by Users
}

// Engine is the matching engine. See the package doc for its locking
// discipline.
type Engine struct {
	pool     repo.Pool
	fleet    repo.Fleet
	users    repo.Users
	sessions SessionValidator

	locator         Locator
	recorder        Recorder
	enforceHoldings bool
	maxRadiusKm     float64
	now             func() time.Time

	categories map[model.CategoryID]model.Category

	mu        sync.Mutex
	lots      map[model.LotID]*model.GeoLot
	lotIDs    []model.LotID // ascending
	vehicles  map[model.VehicleID]*model.Vehicle
	locations map[model.VehicleID]model.Location
	holdings  map[string]model.VehicleID // by username
	reserved  map[uuid.UUID]*model.SearchRequest
	pending   *Pending
	arrivals  uint64
}

// New instantiates an Engine with the inv initial inventory. The store
// is accessed through p, using the fleet and users repositories, for
// persisting the assignment outcomes. Sessions are authorized by sv.
//
// The inv is checked for consistency, so a vehicle which is parked in
// two lots, or is both parked and held, causes an error.
func New(
	ctx context.Context,
	p repo.Pool, fleet repo.Fleet, users repo.Users,
	sv SessionValidator, inv Inventory, opts ...Option,
) (*Engine, error) {
	e := &Engine{
		pool:       p,
		fleet:      fleet,
		users:      users,
		sessions:   sv,
		categories: make(map[model.CategoryID]model.Category),
		lots:       make(map[model.LotID]*model.GeoLot),
		vehicles:   make(map[model.VehicleID]*model.Vehicle),
		locations:  make(map[model.VehicleID]model.Location),
		holdings:   make(map[string]model.VehicleID),
		reserved:   make(map[uuid.UUID]*model.SearchRequest),
		pending:    NewPending(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	if e.maxRadiusKm == 0 {
		e.maxRadiusKm = DefaultMaxRadiusKm
	}
	if e.now == nil {
		e.now = time.Now
	}
	if err := e.seed(inv); err != nil {
		return nil, fmt.Errorf("inconsistent inventory: %w", err)
	}
	if ix, ok := e.locator.(Indexer); ok {
		if err := ix.Index(ctx, inv.Lots); err != nil {
			return nil, fmt.Errorf("indexing lots: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) seed(inv Inventory) error {
	for _, c := range inv.Categories {
		e.categories[c.ID] = c
	}
	for _, lot := range inv.Lots {
		if _, dup := e.lots[lot.ID]; dup {
			return fmt.Errorf("lot %d is repeated", lot.ID)
		}
		e.lots[lot.ID] = lot
		e.lotIDs = append(e.lotIDs, lot.ID)
		for _, v := range lot.Vehicles() {
			if loc, dup := e.locations[v.ID]; dup {
				return fmt.Errorf(
					"vehicle %d is parked in lots %d and %d",
					v.ID, loc.Lot, lot.ID,
				)
			}
			e.vehicles[v.ID] = v
			e.locations[v.ID] = model.AtLot(lot.ID)
		}
	}
	sort.Slice(e.lotIDs, func(i, j int) bool {
		return e.lotIDs[i] < e.lotIDs[j]
	})
	held := make(map[model.VehicleID]*model.Vehicle, len(inv.Held))
	for _, v := range inv.Held {
		held[v.ID] = v
	}
	for _, u := range inv.Users {
		if u.Vehicle == nil {
			continue
		}
		vid := *u.Vehicle
		if loc, dup := e.locations[vid]; dup {
			return fmt.Errorf(
				"vehicle %d is held by %q but located %s",
				vid, u.Username, loc,
			)
		}
		v, ok := held[vid]
		if !ok {
			return fmt.Errorf(
				"vehicle %d of %q is not loaded", vid, u.Username,
			)
		}
		e.vehicles[vid] = v
		e.locations[vid] = model.AssignedTo(uuid.Nil, u.Username)
		e.holdings[u.Username] = vid
	}
	return nil
}

// MaxRadiusKm returns the largest accepted search radius.
func (e *Engine) MaxRadiusKm() float64 {
	return e.maxRadiusKm
}

// Category returns the c category or an UnknownCategory error.
func (e *Engine) Category(c model.CategoryID) (model.Category, error) {
	cat, ok := e.categories[c]
	if !ok {
		return model.Category{}, cerr.UnknownCategory()
	}
	return cat, nil
}

// Reserve marks req as the in-flight search of its session. It is used
// by callers which queue the search for later execution, so a second
// search of the same session is rejected with a DuplicateRequest error
// synchronously. The reservation is dropped when the search is
// assigned, cancelled, or fails. Release drops it explicitly.
func (e *Engine) Reserve(req *model.SearchRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.reserved[req.Token]; ok {
		return cerr.DuplicateRequest()
	}
	e.reserved[req.Token] = req
	return nil
}

// Release drops the reservation of req, if it is still reserved and
// not pending. It is useful when a reserved request could not be
// queued for execution.
func (e *Engine) Release(req *model.SearchRequest) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.reserved[req.Token] != req {
		return
	}
	if _, ok := e.pending.Get(req.Token); ok {
		return
	}
	delete(e.reserved, req.Token)
}

// Cancel withdraws the pending search of token and resolves its handle
// with a cancelled delivery. It is idempotent and returns false if no
// search was pending, for example, because it is in-flight or was
// already matched. In the latter case, the caller observes the match
// on the search handle.
func (e *Engine) Cancel(ctx context.Context, token uuid.UUID) bool {
	e.mu.Lock()
	req, ok := e.pending.Remove(token)
	if ok {
		delete(e.reserved, token)
	}
	e.mu.Unlock()
	if !ok {
		return false
	}
	resolve(req.Handle, model.Delivery{Kind: model.DeliveryCancelled})
	log.Info(
		ctx, "pending search cancelled",
		log.Token("token", token),
		slog.String("username", req.Username),
	)
	e.recorder.Cancelled(ctx)
	return true
}

// Categories returns all vehicle categories, ordered by their ids.
func (e *Engine) Categories() []model.Category {
	cats := make([]model.Category, 0, len(e.categories))
	for _, c := range e.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		return cats[i].ID < cats[j].ID
	})
	return cats
}

// Lots returns a snapshot of all lots, ordered by their ids.
func (e *Engine) Lots() []model.LotView {
	e.mu.Lock()
	defer e.mu.Unlock()
	views := make([]model.LotView, 0, len(e.lotIDs))
	for _, id := range e.lotIDs {
		views = append(views, e.lots[id].Clone().View())
	}
	return views
}

// Lot returns a snapshot of the id lot or an UnknownLot error.
func (e *Engine) Lot(id model.LotID) (model.LotView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	lot, ok := e.lots[id]
	if !ok {
		return model.LotView{}, cerr.UnknownLot()
	}
	return lot.Clone().View(), nil
}

// Vehicles returns all known vehicles with their current locations,
// ordered by the vehicles ids.
func (e *Engine) Vehicles() []model.VehicleStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	ss := make([]model.VehicleStatus, 0, len(e.vehicles))
	for id, v := range e.vehicles {
		ss = append(ss, model.VehicleStatus{
			Vehicle: v, Location: e.locations[id],
		})
	}
	sort.Slice(ss, func(i, j int) bool {
		return ss[i].Vehicle.ID < ss[j].Vehicle.ID
	})
	return ss
}

// Location returns the current location of the vid vehicle or an
// UnknownVehicle error.
func (e *Engine) Location(vid model.VehicleID) (model.Location, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	loc, ok := e.locations[vid]
	if !ok {
		return model.Location{}, cerr.UnknownVehicle()
	}
	return loc, nil
}

// Pending returns the pending requests, oldest first.
func (e *Engine) Pending() []model.PendingView {
	e.mu.Lock()
	defer e.mu.Unlock()
	views := make([]model.PendingView, 0, e.pending.Len())
	e.pending.Each(func(req *model.SearchRequest) bool {
		views = append(views, req.View())
		return true
	})
	return views
}

// Stats counts the pending requests and the vehicles per location
// kind. The Sessions field is left for the caller to fill.
func (e *Engine) Stats() model.FleetStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := model.FleetStats{Pending: e.pending.Len()}
	for _, loc := range e.locations {
		switch loc.Kind {
		case model.LocationAtLot:
			st.Parked++
		case model.LocationAssigned:
			st.Assigned++
		case model.LocationInTransit:
			st.InTransit++
		}
	}
	return st
}

// Users loads the registered users from the store, ordered by their
// usernames. Their password hashes and salts are cleared.
func (e *Engine) Users(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := e.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		users, _, err = e.users.Conn(c).LoadUsers(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	for _, u := range users {
		u.HashedPassword, u.Salt = "", ""
	}
	return users, nil
}

// persist records that vid vehicle is parked in lot (or is not parked
// if lot is nil) and that username holds held vehicle (or nothing if
// held is nil), in a single transaction. An empty username leaves the
// users records intact.
func (e *Engine) persist(
	ctx context.Context,
	vid model.VehicleID, lot *model.LotID,
	username string, held *model.VehicleID,
) error {
	return e.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if err := e.fleet.Tx(tx).SetVehicleLot(ctx, vid, lot); err != nil {
				return fmt.Errorf("setting vehicle lot: %w", err)
			}
			if username == "" {
				return nil
			}
			err := e.users.Tx(tx).SetUserVehicle(ctx, username, held)
			if err != nil {
				return fmt.Errorf("setting user vehicle: %w", err)
			}
			return nil
		})
	})
}

func resolve(h *result.Channel[model.Delivery], d model.Delivery) {
	if h != nil {
		h.Resolve(d)
	}
}

func fail(h *result.Channel[model.Delivery], err error) {
	if h != nil {
		h.Fail(err)
	}
}
