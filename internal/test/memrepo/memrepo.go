// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo provides an in-memory store which implements the
// repo.Pool, repo.Fleet, and repo.Users interfaces, so use cases can be
// tested without a database. Writes of a transaction are staged and
// applied only when its handler returns nil. Failures can be injected
// per operation name with the FailOn method.
package memrepo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
)

// ErrInjected is returned by operations which were asked to fail.
var ErrInjected = errors.New("injected storage failure")

// Operation names which may be passed to FailOn.
const (
	OpSetVehicleLot  = "SetVehicleLot"
	OpSetUserVehicle = "SetUserVehicle"
	OpInsertUser     = "InsertUser"
	OpFindUser       = "FindUser"
	OpTouchLastLogin = "TouchLastLogin"
	OpLoadLots       = "LoadLots"
	OpLoadUsers      = "LoadUsers"
)

type failure struct {
	skip, n int
}

type vehicleRow struct {
	v   model.Vehicle
	lot *model.LotID
}

// Store is an in-memory database. Its zero value is not usable, so New
// must be used.
type Store struct {
	mu         sync.Mutex
	categories []model.Category
	lots       []model.GeoLot
	vehicles   map[model.VehicleID]*vehicleRow
	order      []model.VehicleID
	users      map[string]*model.User
	failures   map[string]*failure
	commits    int
}

// New instantiates an empty Store.
func New() *Store {
	return &Store{
		vehicles: make(map[model.VehicleID]*vehicleRow),
		users:    make(map[string]*model.User),
		failures: make(map[string]*failure),
	}
}

// AddCategory adds c as a category.
func (s *Store) AddCategory(c model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

// AddLot adds an empty lot. Its vehicles (if any) are ignored.
func (s *Store) AddLot(lot *model.GeoLot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := *lot.Clone()
	for _, v := range l.Vehicles() {
		l.Take(v.ID)
	}
	s.lots = append(s.lots, l)
}

// AddVehicle adds v, parked in lot or not parked if lot is nil.
func (s *Store) AddVehicle(v model.Vehicle, lot *model.LotID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = &vehicleRow{v: v, lot: lot}
	s.order = append(s.order, v.ID)
}

// AddUser adds u, without checking its username uniqueness.
func (s *Store) AddUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = &u
}

// FailOn makes the next n calls of the op operation fail with
// ErrInjected.
func (s *Store) FailOn(op string, n int) {
	s.FailAfter(op, 0, n)
}

// FailAfter lets skip calls of the op operation succeed and then makes
// the next n calls fail with ErrInjected.
func (s *Store) FailAfter(op string, skip, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = &failure{skip: skip, n: n}
}

// VehicleLot returns the committed lot of vid vehicle.
func (s *Store) VehicleLot(vid model.VehicleID) (*model.LotID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.vehicles[vid]
	if !ok {
		return nil, false
	}
	return r.lot, true
}

// User returns a copy of the committed username user.
func (s *Store) User(username string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return model.User{}, false
	}
	return *u, true
}

// Commits returns the number of committed transactions.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) shouldFail(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.failures[op]
	switch {
	case !ok || f.n == 0:
		return false
	case f.skip > 0:
		f.skip--
		return false
	}
	f.n--
	return true
}

// Conn implements the repo.Pool interface.
func (s *Store) Conn(ctx context.Context, h repo.ConnHandler) error {
	return h(ctx, &Conn{s: s})
}

// Fleet returns the fleet repository of s.
func (s *Store) Fleet() repo.Fleet {
	return fleetRepo{s: s}
}

// Users returns the users repository of s.
func (s *Store) Users() repo.Users {
	return usersRepo{s: s}
}

// Conn is an in-memory connection. Its writes are applied right away.
type Conn struct {
	s *Store
}

// Tx runs h with a staging transaction and applies its writes if h
// returns nil.
func (c *Conn) Tx(ctx context.Context, h repo.TxHandler) error {
	tx := &Tx{s: c.s}
	if err := h(ctx, tx); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, op := range tx.staged {
		op()
	}
	c.s.commits++
	return nil
}

// Exec is not supported by the in-memory store.
func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.ErrUnsupported
}

// Query is not supported by the in-memory store.
func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errors.ErrUnsupported
}

// IsConn marks Conn as a repo.Conn.
func (c *Conn) IsConn() {
}

// Tx is an in-memory transaction which stages its writes.
type Tx struct {
	s      *Store
	staged []func()
}

// Exec is not supported by the in-memory store.
func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.ErrUnsupported
}

// Query is not supported by the in-memory store.
func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errors.ErrUnsupported
}

// IsTx marks Tx as a repo.Tx.
func (tx *Tx) IsTx() {
}

// queryer applies writes directly when it wraps a Conn and stages them
// when it wraps a Tx.
type queryer struct {
	s  *Store
	tx *Tx
}

func (q queryer) write(op func()) {
	if q.tx != nil {
		q.tx.staged = append(q.tx.staged, op)
		return
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	op()
}

type fleetRepo struct {
	s *Store
}

func (r fleetRepo) Conn(c repo.Conn) repo.FleetConnQueryer {
	return queryer{s: c.(*Conn).s}
}

func (r fleetRepo) Tx(tx repo.Tx) repo.FleetTxQueryer {
	t := tx.(*Tx)
	return queryer{s: t.s, tx: t}
}

type usersRepo struct {
	s *Store
}

func (r usersRepo) Conn(c repo.Conn) repo.UsersConnQueryer {
	return queryer{s: c.(*Conn).s}
}

func (r usersRepo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	t := tx.(*Tx)
	return queryer{s: t.s, tx: t}
}

func (q queryer) LoadLots(context.Context) ([]*model.GeoLot, error) {
	if q.s.shouldFail(OpLoadLots) {
		return nil, ErrInjected
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	lots := make([]*model.GeoLot, 0, len(q.s.lots))
	byID := make(map[model.LotID]*model.GeoLot, len(q.s.lots))
	for i := range q.s.lots {
		lot := q.s.lots[i].Clone()
		lots = append(lots, lot)
		byID[lot.ID] = lot
	}
	for _, vid := range q.s.order {
		r := q.s.vehicles[vid]
		if r.lot == nil {
			continue
		}
		if lot, ok := byID[*r.lot]; ok {
			v := r.v
			lot.Put(&v)
		}
	}
	return lots, nil
}

func (q queryer) LoadCategories(context.Context) ([]model.Category, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	return append([]model.Category(nil), q.s.categories...), nil
}

func (q queryer) SetVehicleLot(
	_ context.Context, vid model.VehicleID, lot *model.LotID,
) error {
	if q.s.shouldFail(OpSetVehicleLot) {
		return ErrInjected
	}
	q.s.mu.Lock()
	_, ok := q.s.vehicles[vid]
	q.s.mu.Unlock()
	if !ok {
		return cerr.UnknownVehicle()
	}
	q.write(func() {
		q.s.vehicles[vid].lot = lot
	})
	return nil
}

func (q queryer) LoadUsers(
	context.Context,
) ([]*model.User, []*model.Vehicle, error) {
	if q.s.shouldFail(OpLoadUsers) {
		return nil, nil, ErrInjected
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var users []*model.User
	var held []*model.Vehicle
	for _, u := range q.s.users {
		u := *u
		users = append(users, &u)
		if u.Vehicle != nil {
			if r, ok := q.s.vehicles[*u.Vehicle]; ok {
				v := r.v
				held = append(held, &v)
			}
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, held, nil
}

func (q queryer) FindUser(
	_ context.Context, username string,
) (*model.User, error) {
	if q.s.shouldFail(OpFindUser) {
		return nil, ErrInjected
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	u, ok := q.s.users[username]
	if !ok {
		return nil, cerr.UnknownUser()
	}
	cp := *u
	return &cp, nil
}

func (q queryer) InsertUser(_ context.Context, u *model.User) error {
	if q.s.shouldFail(OpInsertUser) {
		return ErrInjected
	}
	q.s.mu.Lock()
	_, dup := q.s.users[u.Username]
	q.s.mu.Unlock()
	if dup {
		return cerr.DuplicateUser()
	}
	cp := *u
	q.write(func() {
		q.s.users[cp.Username] = &cp
	})
	return nil
}

func (q queryer) SetUserVehicle(
	_ context.Context, username string, vid *model.VehicleID,
) error {
	if q.s.shouldFail(OpSetUserVehicle) {
		return ErrInjected
	}
	q.s.mu.Lock()
	_, ok := q.s.users[username]
	q.s.mu.Unlock()
	if !ok {
		// users with no row (e.g., created by tests directly in the
		// session registry) are tolerated like an UPDATE of no rows
		return nil
	}
	q.write(func() {
		q.s.users[username].Vehicle = vid
	})
	return nil
}

func (q queryer) TouchLastLogin(
	_ context.Context, username string, t time.Time,
) error {
	if q.s.shouldFail(OpTouchLastLogin) {
		return ErrInjected
	}
	q.write(func() {
		if u, ok := q.s.users[username]; ok {
			u.LastLogin = &t
		}
	})
	return nil
}
