// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which boots the
// other use cases. It loads the fleet inventory from the database,
// asks a Builder (which is realized by the effective Config instance)
// to create the session registry, the dispatcher, the matching engine,
// and the authentication and fleet use cases, wires them together,
// and provides them to the resources packages.
package appuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/momeni/phoenix/pkg/core/dispatch"
	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/usecase/authuc"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
	"github.com/momeni/phoenix/pkg/core/usecase/matchinguc"
	"github.com/momeni/phoenix/pkg/core/usecase/sessionuc"
)

// ErrNotLoaded indicates that Load was not called successfully yet.
var ErrNotLoaded = errors.New("application is not loaded")

// UseCase represents an application use case. It holds a database
// connection pool and all repository instances which are required by
// other supported use cases. Therefore, it can pass these repository
// instances to a Builder in order to create those use cases.
type UseCase struct {
	pool      repo.Pool
	fleetRepo repo.Fleet
	usersRepo repo.Users
	builder   Builder

	// mutex serializes Load and Close calls.
	mutex sync.Mutex

	// rwlock is locked for writing whenever the loaded use cases are
	// published or dropped, while it is locked by all getter methods
	// for reading in order to access them.
	rwlock sync.RWMutex

	dispatcher   *dispatch.Pool
	engine       *matchinguc.Engine
	sessions     *sessionuc.Registry
	authUseCase  *authuc.UseCase
	fleetUseCase *fleetuc.UseCase
}

// New instantiates an application use case object. The Load method
// of this object should be called once, so it can create other
// supported use case objects, before their corresponding getter
// methods are invoked (otherwise, they return nil).
func New(
	p repo.Pool, fleetRepo repo.Fleet, usersRepo repo.Users, b Builder,
) *UseCase {
	return &UseCase{
		pool:      p,
		fleetRepo: fleetRepo,
		usersRepo: usersRepo,
		builder:   b,
	}
}

// Load reads the categories, lots (with their parked vehicles), and
// users (with their held vehicles) in one database connection and then
// builds all use cases based on them. Destroying a session is wired to
// cancel its pending search. Load may not be called twice, unless the
// former loaded state is closed.
func (app *UseCase) Load(ctx context.Context) error {
	app.mutex.Lock()
	defer app.mutex.Unlock()
	if app.Loaded() {
		return errors.New("application is already loaded")
	}
	inv, err := app.loadInventory(ctx)
	if err != nil {
		return fmt.Errorf("loading inventory: %w", err)
	}
	b := app.builder
	sessions, err := b.NewSessionRegistry()
	if err != nil {
		return fmt.Errorf("creating session registry: %w", err)
	}
	engine, err := b.NewEngine(
		ctx, app.pool, app.fleetRepo, app.usersRepo, sessions, inv,
	)
	if err != nil {
		return fmt.Errorf("creating matching engine: %w", err)
	}
	sessions.OnDestroy(func(ctx context.Context, s model.Session) {
		engine.Cancel(ctx, s.Token)
	})
	dispatcher, err := b.NewDispatcher()
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	authUseCase, err := b.NewAuthUseCase(
		app.pool, app.usersRepo, sessions, dispatcher,
	)
	if err != nil {
		_ = dispatcher.Close(ctx)
		return fmt.Errorf("creating auth use case: %w", err)
	}
	fleetUseCase, err := b.NewFleetUseCase(engine, sessions, dispatcher)
	if err != nil {
		_ = dispatcher.Close(ctx)
		return fmt.Errorf("creating fleet use case: %w", err)
	}
	app.rwlock.Lock()
	app.dispatcher = dispatcher
	app.engine = engine
	app.sessions = sessions
	app.authUseCase = authUseCase
	app.fleetUseCase = fleetUseCase
	app.rwlock.Unlock()

	st := engine.Stats()
	log.Info(
		ctx, "application loaded",
		slog.Int("categories", len(inv.Categories)),
		slog.Int("lots", len(inv.Lots)),
		slog.Int("parked", st.Parked),
		slog.Int("held", st.Assigned),
		slog.Int("workers", dispatcher.Workers()),
	)
	return nil
}

func (app *UseCase) loadInventory(
	ctx context.Context,
) (inv matchinguc.Inventory, err error) {
	err = app.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		fq := app.fleetRepo.Conn(c)
		if inv.Categories, err = fq.LoadCategories(ctx); err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		if inv.Lots, err = fq.LoadLots(ctx); err != nil {
			return fmt.Errorf("lots: %w", err)
		}
		uq := app.usersRepo.Conn(c)
		if inv.Users, inv.Held, err = uq.LoadUsers(ctx); err != nil {
			return fmt.Errorf("users: %w", err)
		}
		return nil
	})
	return inv, err
}

// Close stops the dispatcher, letting its queued tasks run unless ctx
// is done sooner, and drops the loaded use cases.
func (app *UseCase) Close(ctx context.Context) error {
	app.mutex.Lock()
	defer app.mutex.Unlock()
	app.rwlock.Lock()
	d := app.dispatcher
	app.dispatcher = nil
	app.engine = nil
	app.sessions = nil
	app.authUseCase = nil
	app.fleetUseCase = nil
	app.rwlock.Unlock()
	if d == nil {
		return ErrNotLoaded
	}
	return d.Close(ctx)
}
