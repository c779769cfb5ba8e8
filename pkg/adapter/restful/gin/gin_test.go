// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/phoenix/internal/test/dbcontainer"
	"github.com/momeni/phoenix/internal/test/memrepo"
	"github.com/momeni/phoenix/pkg/adapter/config"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres/fleetrp"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/routes"
	"github.com/momeni/phoenix/pkg/adapter/telemetry/prommx"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/usecase/appuc"
	"github.com/stretchr/testify/suite"
)

const settings = `
database:
  host: 127.0.0.1
  name: phoenix
  pass-dir: /nonexistent
usecases:
  matching:
    workers: 2
`

const prefix = routes.Prefix + "/"

type delivery struct {
	Kind    string         `json:"kind"`
	Vehicle *model.Vehicle `json:"vehicle"`
	Lot     model.LotID    `json:"lot"`
}

type searchResp struct {
	Outcome  string    `json:"outcome"`
	Token    uuid.UUID `json:"token"`
	Delivery *delivery `json:"delivery"`
}

type returnResp struct {
	Outcome  string   `json:"outcome"`
	Delivery delivery `json:"delivery"`
}

// client keeps the helpers which are shared by the in-memory and the
// database backed suites.
type client struct {
	suite.Suite

	Ctx context.Context
	Gin *gin.Engine
}

func (c *client) newEngine(app *appuc.UseCase) {
	c.Gin = gin.New(gin.Recovery())
	c.Require().NotNil(c.Gin, "cannot instantiate Gin engine")
	h, err := prommx.Handler(app)
	c.Require().NoError(err, "cannot create the metrics handler")
	routes.Register(c.Gin, app, h)
}

// do sends a request with the optional JSON body to path and decodes
// the response into resp (if it is not nil), returning the status.
func (c *client) do(
	method, path string, token *uuid.UUID, body, resp any,
) int {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		c.Require().NoError(err, "cannot marshal request body")
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(c.Ctx, method, path, r)
	c.Require().NoError(err, "cannot create %s request", method)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != nil {
		req.Header.Set("Authorization", "Bearer "+token.String())
	}
	w := httptest.NewRecorder()
	c.sendReqRecvResp(w, req, resp)
	return w.Code
}

func (c *client) sendReqRecvResp(
	w *httptest.ResponseRecorder, req *http.Request, res any,
) {
	c.Gin.ServeHTTP(w, req)
	if res == nil || w.Body.Len() == 0 {
		return
	}
	err := json.Unmarshal(w.Body.Bytes(), res)
	c.Require().NoError(err, "cannot unmarshal response: %s", w.Body)
}

func (c *client) signUp(username string) uuid.UUID {
	code := c.do(http.MethodPost, prefix+"users", nil, gin.H{
		"username": username,
		"password": "secret-" + username,
		"email":    username + "@example.com",
		"name":     strings.ToUpper(username[:1]) + username[1:],
	}, nil)
	c.Require().Equal(http.StatusCreated, code, "registering %q", username)
	var l model.Login
	code = c.do(http.MethodPost, prefix+"sessions", nil, gin.H{
		"username": username,
		"password": "secret-" + username,
	}, &l)
	c.Require().Equal(http.StatusCreated, code, "logging in %q", username)
	c.Require().Equal(username, l.Session.Username)
	c.Require().NotEqual(uuid.Nil, l.Session.Token)
	return l.Session.Token
}

func stringAddr(s string) *string {
	return &s
}

func (c *client) assertOptContains(
	expected *string, actual []string, msg string,
) bool {
	if expected == nil {
		return c.Empty(actual, msg)
	}
	for _, a := range actual {
		if strings.Contains(a, *expected) {
			return true
		}
	}
	return c.Failf(msg, "%q is not found in %q", *expected, actual)
}

type GinTestSuite struct {
	client

	store *memrepo.Store
	cfg   *config.Config
	app   *appuc.UseCase
}

func TestGinTestSuite(t *testing.T) {
	suite.Run(t, &GinTestSuite{client: client{Ctx: context.Background()}})
}

var (
	center = model.Coordinate{Lat: 44.41400, Lon: 8.92052}
	harbor = model.Coordinate{Lat: 44.40630, Lon: 8.94600}
)

func (s *GinTestSuite) SetupTest() {
	s.store = memrepo.New()
	s.store.AddCategory(model.Category{ID: 1, Name: "City"})
	s.store.AddCategory(model.Category{ID: 2, Name: "Van"})
	s.store.AddLot(&model.GeoLot{
		ID: 1, Name: "Center", Coordinate: center, Capacity: 3,
	})
	s.store.AddLot(&model.GeoLot{
		ID: 2, Name: "Harbor", Coordinate: harbor, Capacity: 2,
	})
	lot := model.LotID(1)
	s.store.AddVehicle(model.Vehicle{
		ID: 1, Name: "Panda", Plate: "AA111", Category: 1,
	}, &lot)

	var err error
	s.cfg, err = config.Parse([]byte(settings))
	s.Require().NoError(err, "cannot parse the test settings")
	s.app = appuc.New(s.store, s.store.Fleet(), s.store.Users(), s.cfg)
	s.Require().NoError(s.app.Load(s.Ctx), "cannot load the app")
	s.newEngine(s.app)
}

func (s *GinTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(s.Ctx, 5*time.Second)
	defer cancel()
	s.NoError(s.app.Close(ctx))
	s.NoError(s.cfg.Close())
}

func search(c model.Coordinate, category int, radius float64) gin.H {
	return gin.H{
		"category":  category,
		"lat":       c.Lat,
		"lon":       c.Lon,
		"radius_km": radius,
	}
}

func (s *GinTestSuite) TestHealthz() {
	res := map[string]string{}
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/healthz", nil, nil, &res))
	s.Equal("ok", res["status"])
}

func (s *GinTestSuite) TestNotLoaded() {
	app := appuc.New(s.store, s.store.Fleet(), s.store.Users(), s.cfg)
	s.newEngine(app)
	res := map[string]string{}
	code := s.do(http.MethodGet, "/healthz", nil, nil, &res)
	s.Equal(http.StatusServiceUnavailable, code)
	s.Equal("loading", res["status"])
	for _, path := range []string{"lots", "categories", "stats"} {
		code = s.do(http.MethodGet, prefix+path, nil, nil, nil)
		s.Equal(http.StatusServiceUnavailable, code, "GET %s", path)
	}
	code = s.do(http.MethodPost, prefix+"sessions", nil, gin.H{
		"username": "alice", "password": "secret",
	}, nil)
	s.Equal(http.StatusServiceUnavailable, code)
	token := uuid.New()
	code = s.do(
		http.MethodPost, prefix+"searches", &token,
		search(center, 1, 1), nil,
	)
	s.Equal(http.StatusServiceUnavailable, code)
}

func (s *GinTestSuite) TestUnauthenticated() {
	unknown := uuid.New()
	for _, tc := range []struct {
		method, path string
		token        *uuid.UUID
		body         any
	}{
		{http.MethodPost, "searches", nil, search(center, 1, 1)},
		{http.MethodPost, "searches", &unknown, search(center, 1, 1)},
		{http.MethodGet, "searches/current", nil, nil},
		{http.MethodGet, "searches/current", &unknown, nil},
		{http.MethodDelete, "searches/current", &unknown, nil},
		{http.MethodPost, "returns", &unknown, gin.H{"lot": 1, "vehicle": 1}},
		{http.MethodDelete, "sessions/current", nil, nil},
		{http.MethodDelete, "sessions/current", &unknown, nil},
	} {
		res := map[string]string{}
		code := s.do(tc.method, prefix+tc.path, tc.token, tc.body, &res)
		s.Equal(http.StatusUnauthorized, code, "%s %s", tc.method, tc.path)
		s.Equal("unknown session", res["detail"])
	}
}

func (s *GinTestSuite) TestMalformedBearer() {
	req, err := http.NewRequest(
		http.MethodGet, prefix+"searches/current", nil,
	)
	s.Require().NoError(err, "cannot create GET request")
	req.Header.Set("Authorization", "Bearer not-a-uuid")
	w := httptest.NewRecorder()
	s.sendReqRecvResp(w, req, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *GinTestSuite) TestBadRequest() {
	token := s.signUp("alice")
	for _, tc := range []struct {
		name     string
		path     string
		token    *uuid.UUID
		body     any
		detail   *string
		username *string
		password *string
		email    *string
		lat, lon *string
		radius   *string
		status   int
	}{
		{
			name:   "register without body",
			path:   "users",
			detail: stringAddr("invalid request"),
		},
		{
			name:     "register empty",
			path:     "users",
			body:     gin.H{},
			username: stringAddr("failed on the 'required' tag"),
			password: stringAddr("failed on the 'required' tag"),
		},
		{
			name: "register short password",
			path: "users",
			body: gin.H{
				"username": "bob", "password": "abc",
			},
			password: stringAddr("failed on the 'min' tag"),
		},
		{
			name: "register invalid email",
			path: "users",
			body: gin.H{
				"username": "bob", "password": "secret", "email": "bob",
			},
			email: stringAddr("failed on the 'email' tag"),
		},
		{
			name:     "login empty",
			path:     "sessions",
			body:     gin.H{},
			username: stringAddr("failed on the 'required' tag"),
			password: stringAddr("failed on the 'required' tag"),
		},
		{
			name:  "search no coordinate",
			path:  "searches",
			token: &token,
			body:  gin.H{"category": 1, "radius_km": 1},
			lat:   stringAddr("failed on the 'required' tag"),
			lon:   stringAddr("failed on the 'required' tag"),
		},
		{
			name:  "search out of range",
			path:  "searches",
			token: &token,
			body: gin.H{
				"category": 1, "lat": 91, "lon": -181, "radius_km": 1,
			},
			lat: stringAddr("failed on the 'max' tag"),
			lon: stringAddr("failed on the 'min' tag"),
		},
		{
			name:   "search no radius",
			path:   "searches",
			token:  &token,
			body:   gin.H{"category": 1, "lat": 0, "lon": 0},
			radius: stringAddr("failed on the 'required' tag"),
		},
		{
			name:   "search too wide",
			path:   "searches",
			token:  &token,
			body:   search(center, 1, 100),
			detail: stringAddr("radius (100 km) is not in (0, 50]"),
		},
		{
			name:   "search unknown category",
			path:   "searches",
			token:  &token,
			body:   search(center, 9, 1),
			detail: stringAddr("unknown vehicle category"),
			status: http.StatusNotFound,
		},
	} {
		s.Run(tc.name, func() {
			res := &struct {
				Detail   string
				Username []string
				Password []string
				Email    []string
				Lat, Lon []string
				RadiusKm []string
			}{}
			code := s.do(
				http.MethodPost, prefix+tc.path, tc.token, tc.body, res,
			)
			if tc.status == 0 {
				tc.status = http.StatusBadRequest
			}
			s.Equal(tc.status, code)
			if tc.detail != nil {
				s.Equal(*tc.detail, res.Detail, "wrong detail")
			}
			s.assertOptContains(tc.username, res.Username, "wrong username")
			s.assertOptContains(tc.password, res.Password, "wrong password")
			s.assertOptContains(tc.email, res.Email, "wrong email")
			s.assertOptContains(tc.lat, res.Lat, "wrong lat")
			s.assertOptContains(tc.lon, res.Lon, "wrong lon")
			s.assertOptContains(tc.radius, res.RadiusKm, "wrong radius")
		})
	}
}

func (s *GinTestSuite) TestInvalidWait() {
	token := s.signUp("alice")
	res := map[string][]string{}
	code := s.do(
		http.MethodGet, prefix+"searches/current?wait=soon", &token,
		nil, &res,
	)
	s.Equal(http.StatusBadRequest, code)
	s.Contains(res, "wait")
}

func (s *GinTestSuite) TestRegisterAndLogin() {
	token := s.signUp("alice")
	u, ok := s.store.User("alice")
	s.Require().True(ok, "alice is not persisted")
	s.Equal("alice@example.com", u.Email)
	s.NotEqual("secret-alice", u.HashedPassword)

	res := map[string]string{}
	code := s.do(http.MethodPost, prefix+"users", nil, gin.H{
		"username": "alice", "password": "another",
	}, &res)
	s.Equal(http.StatusConflict, code)
	s.Equal("user is already registered", res["detail"])

	code = s.do(http.MethodPost, prefix+"sessions", nil, gin.H{
		"username": "alice", "password": "wrong-password",
	}, &res)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("invalid credentials", res["detail"])

	code = s.do(http.MethodPost, prefix+"sessions", nil, gin.H{
		"username": "nobody", "password": "secret",
	}, &res)
	s.Equal(http.StatusNotFound, code)
	s.Equal("unknown user", res["detail"])

	var sessions []map[string]any
	code = s.do(http.MethodGet, prefix+"sessions", nil, nil, &sessions)
	s.Equal(http.StatusOK, code)
	s.Require().Len(sessions, 1)
	s.Equal("alice", sessions[0]["username"])
	s.NotContains(sessions[0], "token")

	code = s.do(http.MethodDelete, prefix+"sessions/current", &token, nil, nil)
	s.Equal(http.StatusNoContent, code)
	code = s.do(http.MethodDelete, prefix+"sessions/current", &token, nil, nil)
	s.Equal(http.StatusUnauthorized, code)
	code = s.do(http.MethodGet, prefix+"sessions", nil, nil, &sessions)
	s.Equal(http.StatusOK, code)
	s.Empty(sessions)
}

func (s *GinTestSuite) TestSearchAndReturn() {
	token := s.signUp("alice")

	var sr searchResp
	code := s.do(
		http.MethodPost, prefix+"searches", &token,
		search(center, 1, 1), &sr,
	)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("assigned", sr.Outcome)
	s.Equal(token, sr.Token)
	s.Require().NotNil(sr.Delivery)
	s.Equal("assigned", sr.Delivery.Kind)
	s.Require().NotNil(sr.Delivery.Vehicle)
	s.Equal(model.VehicleID(1), sr.Delivery.Vehicle.ID)

	var d delivery
	code = s.do(
		http.MethodGet, prefix+"searches/current?wait=-1s", &token,
		nil, &d,
	)
	s.Equal(http.StatusOK, code)
	s.Equal("assigned", d.Kind)

	var vehicles []map[string]any
	code = s.do(http.MethodGet, prefix+"vehicles", nil, nil, &vehicles)
	s.Equal(http.StatusOK, code)
	s.Require().Len(vehicles, 1)
	loc, _ := vehicles[0]["location"].(map[string]any)
	s.Equal("assigned", loc["kind"])
	s.Equal("alice", loc["username"])
	s.NotContains(loc, "token")

	var rr returnResp
	code = s.do(http.MethodPost, prefix+"returns", &token, gin.H{
		"lot": 2, "vehicle": 1,
	}, &rr)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("stored", rr.Outcome)
	s.Equal("released", rr.Delivery.Kind)
	s.Equal(model.LotID(2), rr.Delivery.Lot)
	lid, ok := s.store.VehicleLot(1)
	s.Require().True(ok)
	s.Require().NotNil(lid)
	s.Equal(model.LotID(2), *lid)

	var lot model.LotView
	code = s.do(http.MethodGet, prefix+"lots/2", nil, nil, &lot)
	s.Equal(http.StatusOK, code)
	s.Require().NotNil(lot.GeoLot)
	s.Equal("Harbor", lot.Name)
	s.Require().Len(lot.Parked, 1)
	s.Equal(model.VehicleID(1), lot.Parked[0].ID)

	res := map[string]string{}
	code = s.do(http.MethodPost, prefix+"returns", &token, gin.H{
		"lot": 1, "vehicle": 1,
	}, &res)
	s.Equal(http.StatusConflict, code, "returning a parked vehicle")
}

func (s *GinTestSuite) TestQueuedSearchCancellation() {
	token := s.signUp("bob")

	var sr searchResp
	code := s.do(
		http.MethodPost, prefix+"searches", &token,
		search(center, 2, 5), &sr,
	)
	s.Require().Equal(http.StatusAccepted, code)
	s.Equal("queued", sr.Outcome)
	s.Nil(sr.Delivery)

	res := map[string]any{}
	code = s.do(
		http.MethodPost, prefix+"searches", &token,
		search(center, 2, 5), &res,
	)
	s.Equal(http.StatusConflict, code, "searching twice")

	code = s.do(
		http.MethodGet, prefix+"searches/current?wait=-1s", &token,
		nil, &res,
	)
	s.Equal(http.StatusAccepted, code)
	s.Equal("pending", res["status"])

	var pending []map[string]any
	code = s.do(http.MethodGet, prefix+"requests", nil, nil, &pending)
	s.Equal(http.StatusOK, code)
	s.Require().Len(pending, 1)
	s.Equal("bob", pending[0]["username"])
	s.NotContains(pending[0], "token")

	code = s.do(http.MethodDelete, prefix+"searches/current", &token, nil, &res)
	s.Equal(http.StatusOK, code)
	s.Equal(true, res["cancelled"])
	code = s.do(http.MethodDelete, prefix+"searches/current", &token, nil, &res)
	s.Equal(http.StatusOK, code)
	s.Equal(false, res["cancelled"])

	var d delivery
	code = s.do(
		http.MethodGet, prefix+"searches/current?wait=-1s", &token,
		nil, &d,
	)
	s.Equal(http.StatusOK, code)
	s.Equal("cancelled", d.Kind)
	code = s.do(http.MethodGet, prefix+"requests", nil, nil, &pending)
	s.Equal(http.StatusOK, code)
	s.Empty(pending)
}

func (s *GinTestSuite) TestReturnReassigns() {
	alice := s.signUp("alice")
	carol := s.signUp("carol")

	var sr searchResp
	code := s.do(
		http.MethodPost, prefix+"searches", &alice,
		search(center, 1, 1), &sr,
	)
	s.Require().Equal(http.StatusOK, code)
	code = s.do(
		http.MethodPost, prefix+"searches", &carol,
		search(harbor, 1, 1), &sr,
	)
	s.Require().Equal(http.StatusAccepted, code)

	var rr returnResp
	code = s.do(http.MethodPost, prefix+"returns", &alice, gin.H{
		"lot": 2, "vehicle": 1,
	}, &rr)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("reassigned", rr.Outcome)
	s.Equal("released", rr.Delivery.Kind)

	var d delivery
	code = s.do(
		http.MethodGet, prefix+"searches/current?wait=5s", &carol,
		nil, &d,
	)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("assigned", d.Kind)
	s.Require().NotNil(d.Vehicle)
	s.Equal(model.VehicleID(1), d.Vehicle.ID)

	var stats map[string]int
	code = s.do(http.MethodGet, prefix+"stats", nil, nil, &stats)
	s.Equal(http.StatusOK, code)
	s.Equal(1, stats["assigned"])
	s.Equal(0, stats["pending"])
	s.Equal(2, stats["sessions"])
}

func (s *GinTestSuite) TestListings() {
	var cats []model.Category
	code := s.do(http.MethodGet, prefix+"categories", nil, nil, &cats)
	s.Equal(http.StatusOK, code)
	s.Len(cats, 2)

	var lots []model.LotView
	code = s.do(http.MethodGet, prefix+"lots", nil, nil, &lots)
	s.Equal(http.StatusOK, code)
	s.Len(lots, 2)

	res := map[string]any{}
	code = s.do(http.MethodGet, prefix+"lots/999", nil, nil, &res)
	s.Equal(http.StatusNotFound, code)
	s.Equal("unknown parking lot", res["detail"])
	res = map[string]any{}
	code = s.do(http.MethodGet, prefix+"lots/zero", nil, nil, &res)
	s.Equal(http.StatusBadRequest, code)
}

func (s *GinTestSuite) TestUsersListing() {
	var users []map[string]any
	code := s.do(http.MethodGet, prefix+"users", nil, nil, &users)
	s.Equal(http.StatusOK, code)
	s.Empty(users)

	token := s.signUp("alice")
	s.signUp("bob")
	var sr searchResp
	code = s.do(
		http.MethodPost, prefix+"searches", &token,
		search(center, 1, 1), &sr,
	)
	s.Require().Equal(http.StatusOK, code)

	code = s.do(http.MethodGet, prefix+"users", nil, nil, &users)
	s.Equal(http.StatusOK, code)
	s.Require().Len(users, 2)
	s.Equal("alice", users[0]["username"])
	s.Equal("alice@example.com", users[0]["email"])
	s.Equal(float64(1), users[0]["vehicle"])
	s.Contains(users[0], "last_login")
	s.Equal("bob", users[1]["username"])
	s.NotContains(users[1], "vehicle")
	for _, u := range users {
		for _, k := range []string{"password", "hashed_password", "salt"} {
			s.NotContains(u, k)
		}
	}
}

func (s *GinTestSuite) TestMetrics() {
	s.signUp("alice")
	req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
	s.Require().NoError(err, "cannot create GET request")
	w := httptest.NewRecorder()
	s.Gin.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "phoenix_active_sessions 1")
}

type IntegrationGinTestSuite struct {
	client

	Pool *postgres.Pool
	app  *appuc.UseCase
	cfg  *config.Config
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		client: client{Ctx: ctx},
		Pool:   pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	err := dbcontainer.InitDev(igts.Ctx, igts.Pool)
	igts.Require().NoError(err, "failed to initialize the dev schema")
	igts.cfg, err = config.Parse([]byte(settings))
	igts.Require().NoError(err, "cannot parse the test settings")
	igts.app = appuc.New(igts.Pool, fleetrp.New(), usersrp.New(), igts.cfg)
	igts.Require().NoError(igts.app.Load(igts.Ctx), "cannot load the app")
	igts.newEngine(igts.app)
}

func (igts *IntegrationGinTestSuite) TearDownSuite() {
	ctx, cancel := context.WithTimeout(igts.Ctx, 5*time.Second)
	defer cancel()
	igts.NoError(igts.app.Close(ctx))
	igts.NoError(igts.cfg.Close())
}

func (igts *IntegrationGinTestSuite) TestSearchAndReturn() {
	token := igts.signUp("alice")

	var sr searchResp
	code := igts.do(
		http.MethodPost, prefix+"searches", &token,
		search(center, 1, 20), &sr,
	)
	igts.Require().Equal(http.StatusOK, code)
	igts.Require().NotNil(sr.Delivery)
	igts.Require().NotNil(sr.Delivery.Vehicle)
	vid := sr.Delivery.Vehicle.ID

	var rr returnResp
	code = igts.do(http.MethodPost, prefix+"returns", &token, gin.H{
		"lot": 1, "vehicle": vid,
	}, &rr)
	igts.Require().Equal(http.StatusOK, code)
	igts.Equal("stored", rr.Outcome)

	var lot model.LotView
	code = igts.do(http.MethodGet, prefix+"lots/1", nil, nil, &lot)
	igts.Equal(http.StatusOK, code)
	found := false
	for _, v := range lot.Parked {
		found = found || v.ID == vid
	}
	igts.True(found, "returned vehicle is not parked in lot 1")

	res := map[string]string{}
	code = igts.do(http.MethodPost, prefix+"users", nil, gin.H{
		"username": "alice", "password": "another",
	}, &res)
	igts.Equal(http.StatusConflict, code)
}
