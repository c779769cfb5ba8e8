// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authuc contains the authentication UseCase which supports
// the login, logout, and registration use cases. Login and
// registration only touch the store and the session registry, so they
// run on the dispatcher workers in parallel with the matching tasks,
// and their results are delivered through result channels.
package authuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/dispatch"
	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/result"
	"github.com/momeni/phoenix/pkg/core/scram"
)

// DefaultHashIterations is the PBKDF2 iterations count of the new
// password hashes, unless the WithHashIterations option is used.
const DefaultHashIterations = 4096

// Dispatcher queues tasks for asynchronous execution.
type Dispatcher interface {
	Submit(name string, t dispatch.Task) error
}

// Sessions is the subset of the session registry which is used by the
// authentication use cases.
type Sessions interface {
	Create(username string) model.Session
	Destroy(ctx context.Context, token uuid.UUID) error
}

// Registration contains the fields of a new user account.
type Registration struct {
	Username string
	Password string
	Email    string
	Name     string
	Surname  string
}

// UseCase represents the authentication use case.
type UseCase struct {
	pool       repo.Pool
	usersrp    repo.Users
	hasher     scram.Hasher
	sessions   Sessions
	dispatcher Dispatcher

	iters int
	now   func() time.Time
}

// New instantiates an authentication use case.
func New(
	p repo.Pool, u repo.Users, h scram.Hasher,
	s Sessions, d Dispatcher, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:       p,
		usersrp:    u,
		hasher:     h,
		sessions:   s,
		dispatcher: d,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.iters == 0 {
		uc.iters = DefaultHashIterations
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Login queues a task which checks the username credentials and, in
// case of success, creates a session for that user. The returned
// channel is resolved with the session and the user record (without
// its password fields), or fails with an UnknownUser or an
// InvalidCredentials error.
func (uc *UseCase) Login(
	ctx context.Context, username, password string,
) (*result.Channel[model.Login], error) {
	if username == "" || password == "" {
		return nil, cerr.BadRequest(
			errors.New("username and password are required"),
		)
	}
	ch := result.New[model.Login]()
	err := uc.dispatcher.Submit("login", func(ctx context.Context) error {
		l, err := uc.login(ctx, username, password)
		if err != nil {
			ch.Fail(err)
			return err
		}
		ch.Resolve(*l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("queueing login: %w", err)
	}
	return ch, nil
}

func (uc *UseCase) login(
	ctx context.Context, username, password string,
) (*model.Login, error) {
	var u *model.User
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.usersrp.Conn(c)
		var err error
		u, err = q.FindUser(ctx, username)
		if err != nil {
			return err
		}
		ok, err := uc.hasher.Verify(password, u.HashedPassword)
		if err != nil {
			return fmt.Errorf("verifying password: %w", err)
		}
		if !ok {
			return cerr.InvalidCredentials()
		}
		now := uc.now()
		if err := q.TouchLastLogin(ctx, username, now); err != nil {
			return fmt.Errorf("touching last login: %w", err)
		}
		u.LastLogin = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.HashedPassword, u.Salt = "", ""
	s := uc.sessions.Create(username)
	log.Info(
		ctx, "user logged in",
		slog.String("username", username),
		log.Token("token", s.Token),
	)
	return &model.Login{Session: s, User: u}, nil
}

// Logout destroys the token session. Any search which is pending for
// that session is cancelled by the session registry hooks.
func (uc *UseCase) Logout(ctx context.Context, token uuid.UUID) error {
	return uc.sessions.Destroy(ctx, token)
}

// Register queues a task which hashes the reg password with a fresh
// salt and inserts a new user. The returned channel is resolved with
// the created user (without its password fields) or fails with a
// DuplicateUser error if the username is taken.
func (uc *UseCase) Register(
	ctx context.Context, reg Registration,
) (*result.Channel[model.User], error) {
	if reg.Username == "" || reg.Password == "" {
		return nil, cerr.BadRequest(
			errors.New("username and password are required"),
		)
	}
	ch := result.New[model.User]()
	err := uc.dispatcher.Submit("register", func(ctx context.Context) error {
		u, err := uc.register(ctx, reg)
		if err != nil {
			ch.Fail(err)
			return err
		}
		ch.Resolve(*u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("queueing registration: %w", err)
	}
	return ch, nil
}

func (uc *UseCase) register(
	ctx context.Context, reg Registration,
) (*model.User, error) {
	salt, err := uc.hasher.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("creating salt: %w", err)
	}
	h, err := uc.hasher.Hash(reg.Password, salt, uc.iters)
	if err != nil {
		return nil, cerr.BadRequest(fmt.Errorf("hashing password: %w", err))
	}
	u := &model.User{
		Username:       reg.Username,
		Email:          reg.Email,
		Name:           reg.Name,
		Surname:        reg.Surname,
		HashedPassword: h,
		Salt:           salt,
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.usersrp.Conn(c).InsertUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "user registered", slog.String("username", u.Username))
	u.HashedPassword, u.Salt = "", ""
	return u, nil
}
