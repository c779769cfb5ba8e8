// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package matchinguc

import (
	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/model"
)

// Pending is the registry of search requests which are waiting for a
// vehicle. Requests are keyed by their session token and are kept in
// their arrival order, so the oldest request is offered a returned
// vehicle first.
//
// Pending is not safe for concurrent use. The Engine guards it with
// its matching lock.
type Pending struct {
	order []*model.SearchRequest
	byTok map[uuid.UUID]*model.SearchRequest
}

// NewPending instantiates an empty Pending registry.
func NewPending() *Pending {
	return &Pending{byTok: make(map[uuid.UUID]*model.SearchRequest)}
}

// Insert appends req as the newest pending request. If another request
// is already pending for the same session, a DuplicateRequest error is
// returned and nothing changes.
func (p *Pending) Insert(req *model.SearchRequest) error {
	if _, ok := p.byTok[req.Token]; ok {
		return cerr.DuplicateRequest()
	}
	p.byTok[req.Token] = req
	p.order = append(p.order, req)
	return nil
}

// Get returns the pending request of token, if any.
func (p *Pending) Get(token uuid.UUID) (*model.SearchRequest, bool) {
	req, ok := p.byTok[token]
	return req, ok
}

// Remove removes the pending request of token and returns it.
func (p *Pending) Remove(token uuid.UUID) (*model.SearchRequest, bool) {
	req, ok := p.byTok[token]
	if !ok {
		return nil, false
	}
	p.removeAt(p.indexOf(req))
	return req, true
}

// RemoveIf removes req only if it is the exact pending request of its
// session. The removed position is returned, so the removal can be
// reverted by Restore.
func (p *Pending) RemoveIf(req *model.SearchRequest) (int, bool) {
	cur, ok := p.byTok[req.Token]
	if !ok || cur != req {
		return -1, false
	}
	idx := p.indexOf(req)
	p.removeAt(idx)
	return idx, true
}

// Restore puts req back at idx, undoing a former RemoveIf call. The idx
// is clamped into the valid range. If the session of req has a pending
// request again, Restore does nothing and returns false.
func (p *Pending) Restore(idx int, req *model.SearchRequest) bool {
	if _, ok := p.byTok[req.Token]; ok {
		return false
	}
	switch {
	case idx < 0:
		idx = 0
	case idx > len(p.order):
		idx = len(p.order)
	}
	p.order = append(p.order, nil)
	copy(p.order[idx+1:], p.order[idx:])
	p.order[idx] = req
	p.byTok[req.Token] = req
	return true
}

// Each calls f for pending requests, oldest first, until f returns
// false. The f callback must not modify the registry.
func (p *Pending) Each(f func(req *model.SearchRequest) bool) {
	for _, req := range p.order {
		if !f(req) {
			return
		}
	}
}

// Snapshot returns the pending requests, oldest first.
func (p *Pending) Snapshot() []*model.SearchRequest {
	reqs := make([]*model.SearchRequest, len(p.order))
	copy(reqs, p.order)
	return reqs
}

// Len returns the number of pending requests.
func (p *Pending) Len() int {
	return len(p.order)
}

func (p *Pending) indexOf(req *model.SearchRequest) int {
	for i, r := range p.order {
		if r == req {
			return i
		}
	}
	return -1
}

func (p *Pending) removeAt(idx int) {
	req := p.order[idx]
	copy(p.order[idx:], p.order[idx+1:])
	p.order[len(p.order)-1] = nil
	p.order = p.order[:len(p.order)-1]
	delete(p.byTok, req.Token)
}
