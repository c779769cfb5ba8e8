package fleetuc_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/internal/test/memrepo"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/dispatch"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
	"github.com/momeni/phoenix/pkg/core/usecase/matchinguc"
	"github.com/momeni/phoenix/pkg/core/usecase/sessionuc"
	"github.com/stretchr/testify/suite"
)

type FleetTestSuite struct {
	suite.Suite

	ctx      context.Context
	store    *memrepo.Store
	sessions *sessionuc.Registry
	pool     *dispatch.Pool
	engine   *matchinguc.Engine
	uc       *fleetuc.UseCase
}

func TestFleetTestSuite(t *testing.T) {
	suite.Run(t, new(FleetTestSuite))
}

func (s *FleetTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memrepo.New()
	s.store.AddCategory(model.Category{ID: 1, Name: "City"})
	s.store.AddCategory(model.Category{ID: 2, Name: "SUV"})
	s.store.AddLot(&model.GeoLot{ID: 7, Name: "Center", Capacity: 5})
	lot := model.LotID(7)
	s.store.AddVehicle(model.Vehicle{ID: 1, Plate: "AA111", Category: 1}, &lot)
	s.store.AddVehicle(model.Vehicle{ID: 2, Plate: "BB222", Category: 2}, nil)
	v2 := model.VehicleID(2)
	s.store.AddUser(model.User{Username: "bob", Vehicle: &v2})
	s.store.AddUser(model.User{Username: "alice"})

	var err error
	s.sessions, err = sessionuc.New()
	s.Require().NoError(err)
	s.pool, err = dispatch.New()
	s.Require().NoError(err)
	var inv matchinguc.Inventory
	s.Require().NoError(s.store.Conn(
		s.ctx, func(ctx context.Context, c repo.Conn) error {
			fq := s.store.Fleet().Conn(c)
			inv.Categories, _ = fq.LoadCategories(ctx)
			inv.Lots, err = fq.LoadLots(ctx)
			if err != nil {
				return err
			}
			inv.Users, inv.Held, err = s.store.Users().Conn(c).LoadUsers(ctx)
			return err
		},
	))
	s.engine, err = matchinguc.New(
		s.ctx, s.store, s.store.Fleet(), s.store.Users(), s.sessions, inv,
	)
	s.Require().NoError(err)
	s.sessions.OnDestroy(func(ctx context.Context, ss model.Session) {
		s.engine.Cancel(ctx, ss.Token)
	})
	s.uc, err = fleetuc.New(
		s.engine, s.sessions, s.pool,
		fleetuc.WithAwaitTimeouts(time.Second, 2*time.Second),
	)
	s.Require().NoError(err)
}

func (s *FleetTestSuite) TearDownTest() {
	s.NoError(s.pool.Close(s.ctx))
}

func (s *FleetTestSuite) TestSearchAssigned() {
	ss := s.sessions.Create("alice")
	t, err := s.uc.Search(s.ctx, ss.Token, fleetuc.SearchQuery{
		Category: 1, RadiusKm: 1,
	})
	s.Require().NoError(err)
	out, err := t.Outcome.Await(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.SearchAssigned, out)

	d, ok, err := s.uc.Await(s.ctx, ss.Token, -1)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(model.DeliveryAssigned, d.Kind)
	s.Equal(model.VehicleID(1), d.Vehicle.ID)
}

func (s *FleetTestSuite) TestSearchRejectsSynchronously() {
	_, err := s.uc.Search(s.ctx, uuid.New(), fleetuc.SearchQuery{
		Category: 1, RadiusKm: 1,
	})
	s.ErrorIs(err, cerr.ErrUnknownSession)

	ss := s.sessions.Create("alice")
	_, err = s.uc.Search(s.ctx, ss.Token, fleetuc.SearchQuery{
		Category: 9, RadiusKm: 1,
	})
	s.ErrorIs(err, cerr.ErrUnknownCategory)

	t, err := s.uc.Search(s.ctx, ss.Token, fleetuc.SearchQuery{
		Category: 2, RadiusKm: 1,
	})
	s.Require().NoError(err)
	_, err = s.uc.Search(s.ctx, ss.Token, fleetuc.SearchQuery{
		Category: 1, RadiusKm: 1,
	})
	s.ErrorIs(err, cerr.ErrDuplicateRequest)
	out, err := t.Outcome.Await(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.SearchQueued, out)
}

func (s *FleetTestSuite) TestAwaitQueuedThenCancel() {
	ss := s.sessions.Create("alice")
	_, _, err := s.uc.Await(s.ctx, ss.Token, -1)
	s.ErrorIs(err, fleetuc.ErrNoSearch)

	t, err := s.uc.Search(s.ctx, ss.Token, fleetuc.SearchQuery{
		Category: 2, RadiusKm: 1,
	})
	s.Require().NoError(err)
	_, err = t.Outcome.Await(s.ctx)
	s.Require().NoError(err)

	_, ok, err := s.uc.Await(s.ctx, ss.Token, 10*time.Millisecond)
	s.Require().NoError(err)
	s.False(ok)

	cancelled, err := s.uc.Cancel(s.ctx, ss.Token)
	s.Require().NoError(err)
	s.True(cancelled)
	cancelled, err = s.uc.Cancel(s.ctx, ss.Token)
	s.Require().NoError(err)
	s.False(cancelled)

	d, ok, err := s.uc.Await(s.ctx, ss.Token, 0)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.DeliveryCancelled, d.Kind)
}

func (s *FleetTestSuite) TestReturnReassigns() {
	alice := s.sessions.Create("alice")
	t, err := s.uc.Search(s.ctx, alice.Token, fleetuc.SearchQuery{
		Category: 2, RadiusKm: 1,
	})
	s.Require().NoError(err)
	queued, err := t.Outcome.Await(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(model.SearchQueued, queued)

	bob := s.sessions.Create("bob")
	_, err = s.uc.Return(s.ctx, bob.Token, 99, 2)
	s.ErrorIs(err, cerr.ErrUnknownLot)
	rt, err := s.uc.Return(s.ctx, bob.Token, 7, 2)
	s.Require().NoError(err)
	rel, err := rt.Release.Await(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.DeliveryReleased, rel.Kind)
	out, err := rt.Outcome.Await(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.ReturnReassigned, out)

	d, ok, err := s.uc.Await(s.ctx, alice.Token, 0)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(model.VehicleID(2), d.Vehicle.ID)

	st := s.uc.Stats()
	s.Equal(0, st.Pending)
	s.Equal(1, st.Parked)
	s.Equal(1, st.Assigned)
	s.Equal(2, st.Sessions)
}

func (s *FleetTestSuite) TestListings() {
	s.Len(s.uc.Categories(), 2)
	lots := s.uc.Lots()
	s.Require().Len(lots, 1)
	s.Len(lots[0].Parked, 1)
	vs := s.uc.Vehicles()
	s.Require().Len(vs, 2)
	s.Equal(model.AtLot(7), vs[0].Location)
	s.Equal(model.LocationAssigned, vs[1].Location.Kind)
	s.Empty(s.uc.Pending())
	s.sessions.Create("alice")
	s.Len(s.uc.Sessions(), 1)
}

func (s *FleetTestSuite) TestUsers() {
	s.store.AddUser(model.User{
		Username: "carol", HashedPassword: "SCRAM-SHA-256$4096:x$y:z",
		Salt: "x",
	})
	users, err := s.uc.Users(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
		s.Empty(u.HashedPassword)
		s.Empty(u.Salt)
	}
	s.Equal([]string{"alice", "bob", "carol"}, names)
	s.Require().NotNil(users[1].Vehicle)
	s.Equal(model.VehicleID(2), *users[1].Vehicle)
	s.Nil(users[0].Vehicle)

	s.store.FailOn(memrepo.OpLoadUsers, 1)
	_, err = s.uc.Users(s.ctx)
	s.ErrorIs(err, memrepo.ErrInjected)
}

func (s *FleetTestSuite) TestReturnAfterClose() {
	s.Require().NoError(s.pool.Close(s.ctx))
	bob := s.sessions.Create("bob")
	_, err := s.uc.Return(s.ctx, bob.Token, 7, 2)
	s.ErrorIs(err, dispatch.ErrClosed)
	loc, err := s.engine.Location(2)
	s.Require().NoError(err)
	s.Equal(model.LocationAssigned, loc.Kind)
	s.Equal("bob", loc.Username)
}
