// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sessionuc contains the session registry which maps opaque
// session tokens to their sessions. A session is valid if and only if
// it is kept by the registry. The registry is used by every entry
// point in order to authorize its caller.
//
// The registry has its own lock and never calls other components while
// holding it, so it may be consulted from within the matching lock.
// Destroying a session runs the configured destroy hooks after that
// lock is released (see WithDestroyHook), so the matching use case can
// withdraw the pending search of the destroyed session.
package sessionuc

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
	"github.com/momeni/phoenix/pkg/core/result"
)

// DestroyHook is called after a session is destroyed.
type DestroyHook func(ctx context.Context, s model.Session)

type entry struct {
	session model.Session
	handle  *result.Channel[model.Delivery]
}

// Registry is the session registry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry

	hooks []DestroyHook
	now   func() time.Time
}

// New instantiates an empty Registry.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{sessions: make(map[uuid.UUID]*entry)}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// OnDestroy registers one more destroy hook. It is meant to be called
// while wiring the use cases, before the registry is shared.
func (r *Registry) OnDestroy(h DestroyHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Create records a fresh session for username and returns it.
// Tokens are random (version 4) UUIDs, so they are unique by
// construction and need no duplicate detection.
func (r *Registry) Create(username string) model.Session {
	s := model.Session{
		Token:    uuid.New(),
		Username: username,
		IssuedAt: r.now(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = &entry{session: s}
	return s
}

// Validate reports whether token belongs to a live session.
func (r *Registry) Validate(token uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[token]
	return ok
}

// Lookup returns the session of token or an UnknownSession error.
func (r *Registry) Lookup(token uuid.UUID) (model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[token]
	if !ok {
		return model.Session{}, cerr.UnknownSession()
	}
	return e.session, nil
}

// Destroy removes the token session and then runs the destroy hooks,
// so any search which is pending on behalf of it is withdrawn. If the
// session does not exist, an UnknownSession error is returned.
func (r *Registry) Destroy(ctx context.Context, token uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.sessions[token]
	if ok {
		delete(r.sessions, token)
	}
	hooks := r.hooks
	r.mu.Unlock()
	if !ok {
		return cerr.UnknownSession()
	}
	log.Info(
		ctx, "session destroyed",
		log.Token("token", token),
		slog.String("username", e.session.Username),
	)
	for _, h := range hooks {
		h(ctx, e.session)
	}
	return nil
}

// Attach keeps h as the latest search handle of the token session, so
// it can be awaited by later calls. It returns false if the session
// does not exist.
func (r *Registry) Attach(
	token uuid.UUID, h *result.Channel[model.Delivery],
) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[token]
	if ok {
		e.handle = h
	}
	return ok
}

// Handle returns the latest search handle of the token session. The
// handle is nil if the session never searched.
func (r *Registry) Handle(
	token uuid.UUID,
) (*result.Channel[model.Delivery], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[token]
	if !ok {
		return nil, cerr.UnknownSession()
	}
	return e.handle, nil
}

// List returns the live sessions, oldest first.
func (r *Registry) List() []model.Session {
	r.mu.RLock()
	ss := make([]model.Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		ss = append(ss, e.session)
	}
	r.mu.RUnlock()
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].IssuedAt.Equal(ss[j].IssuedAt) {
			return ss[i].Token.String() < ss[j].Token.String()
		}
		return ss[i].IssuedAt.Before(ss[j].IssuedAt)
	})
	return ss
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
