package appuc_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/internal/test/memrepo"
	"github.com/momeni/phoenix/pkg/adapter/hash/scram"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/dispatch"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/usecase/appuc"
	"github.com/momeni/phoenix/pkg/core/usecase/authuc"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
	"github.com/momeni/phoenix/pkg/core/usecase/matchinguc"
	"github.com/momeni/phoenix/pkg/core/usecase/sessionuc"
	"github.com/stretchr/testify/suite"
)

type builder struct{}

func (builder) NewSessionRegistry() (*sessionuc.Registry, error) {
	return sessionuc.New()
}

func (builder) NewDispatcher() (*dispatch.Pool, error) {
	return dispatch.New(dispatch.WithWorkers(2))
}

func (builder) NewEngine(
	ctx context.Context,
	p repo.Pool, fleet repo.Fleet, users repo.Users,
	sv matchinguc.SessionValidator, inv matchinguc.Inventory,
) (*matchinguc.Engine, error) {
	return matchinguc.New(ctx, p, fleet, users, sv, inv)
}

func (builder) NewAuthUseCase(
	p repo.Pool, users repo.Users, s authuc.Sessions, d authuc.Dispatcher,
) (*authuc.UseCase, error) {
	return authuc.New(p, users, scram.SHA256(), s, d)
}

func (builder) NewFleetUseCase(
	e fleetuc.Engine, s fleetuc.Sessions, d fleetuc.Dispatcher,
) (*fleetuc.UseCase, error) {
	return fleetuc.New(e, s, d)
}

type AppTestSuite struct {
	suite.Suite

	ctx   context.Context
	store *memrepo.Store
	app   *appuc.UseCase
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memrepo.New()
	s.store.AddCategory(model.Category{ID: 1, Name: "City"})
	s.store.AddLot(&model.GeoLot{ID: 1, Name: "Center", Capacity: 3})
	lot := model.LotID(1)
	s.store.AddVehicle(model.Vehicle{ID: 1, Plate: "AA111", Category: 1}, &lot)
	s.store.AddVehicle(model.Vehicle{ID: 2, Plate: "BB222", Category: 1}, nil)
	v2 := model.VehicleID(2)
	s.store.AddUser(model.User{Username: "bob", Vehicle: &v2})
	s.app = appuc.New(s.store, s.store.Fleet(), s.store.Users(), builder{})
}

func (s *AppTestSuite) TestNotLoaded() {
	s.False(s.app.Loaded())
	s.Nil(s.app.FleetUseCase())
	s.Nil(s.app.AuthUseCase())
	_, _, ok := s.app.Stats()
	s.False(ok)
	s.ErrorIs(s.app.Close(s.ctx), appuc.ErrNotLoaded)
}

func (s *AppTestSuite) TestLoadAndClose() {
	s.Require().NoError(s.app.Load(s.ctx))
	s.True(s.app.Loaded())
	s.Error(s.app.Load(s.ctx), "second load must fail")
	s.NotNil(s.app.AuthUseCase())
	s.NotNil(s.app.FleetUseCase())

	st, queued, ok := s.app.Stats()
	s.Require().True(ok)
	s.Equal(1, st.Parked)
	s.Equal(1, st.Assigned)
	s.Equal(0, queued)

	s.Require().NoError(s.app.Close(s.ctx))
	s.False(s.app.Loaded())
	s.Require().NoError(s.app.Load(s.ctx), "reload after close")
	s.Require().NoError(s.app.Close(s.ctx))
}

func (s *AppTestSuite) TestLogoutCancelsPendingSearch() {
	s.Require().NoError(s.app.Load(s.ctx))
	defer func() {
		s.NoError(s.app.Close(s.ctx))
	}()
	uc := s.app.FleetUseCase()
	ss := uc.Sessions()
	s.Empty(ss)

	alice := s.login("alice")
	first, err := uc.Search(s.ctx, alice, fleetuc.SearchQuery{
		Category: 1, RadiusKm: 1,
	})
	s.Require().NoError(err)
	out, err := first.Outcome.Await(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.SearchAssigned, out)

	// alice holds vehicle 1, so she may not take another one
	again, err := uc.Search(s.ctx, alice, fleetuc.SearchQuery{
		Category: 1, RadiusKm: 1,
	})
	s.Require().NoError(err)
	_, err = again.Outcome.Await(s.ctx)
	s.ErrorIs(err, cerr.ErrVehicleAlreadyHeld)
	s.Empty(uc.Pending())

	// vehicle 1 is taken now and vehicle 2 is held by bob
	carol := s.login("carol")
	second, err := uc.Search(s.ctx, carol, fleetuc.SearchQuery{
		Category: 1, RadiusKm: 1,
	})
	s.Require().NoError(err)
	out, err = second.Outcome.Await(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.SearchQueued, out)
	s.Len(uc.Pending(), 1)

	s.Require().NoError(s.app.AuthUseCase().Logout(s.ctx, carol))
	d, err := second.Delivery.Await(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.DeliveryCancelled, d.Kind)
	s.Empty(uc.Pending())
}

func (s *AppTestSuite) login(username string) uuid.UUID {
	auth := s.app.AuthUseCase()
	reg, err := auth.Register(s.ctx, authuc.Registration{
		Username: username, Password: "secret",
	})
	s.Require().NoError(err)
	_, err = reg.Await(s.ctx)
	s.Require().NoError(err)
	login, err := auth.Login(s.ctx, username, "secret")
	s.Require().NoError(err)
	l, err := login.Await(s.ctx)
	s.Require().NoError(err)
	return l.Session.Token
}

func (s *AppTestSuite) TestLoadFailure() {
	s.store.FailOn(memrepo.OpLoadLots, 1)
	s.ErrorIs(s.app.Load(s.ctx), memrepo.ErrInjected)
	s.False(s.app.Loaded())
	s.Require().NoError(s.app.Load(s.ctx))
	s.NoError(s.app.Close(s.ctx))
}
