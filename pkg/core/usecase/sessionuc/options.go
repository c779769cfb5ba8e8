// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionuc

import (
	"errors"
	"time"
)

// Option is a functional option for the session Registry.
type Option func(r *Registry) error

// WithDestroyHook option registers h to be called after each session
// is destroyed. It may be passed multiple times.
func WithDestroyHook(h DestroyHook) Option {
	return func(r *Registry) error {
		if h == nil {
			return errors.New("nil destroy hook")
		}
		r.hooks = append(r.hooks, h)
		return nil
	}
}

// WithClock option replaces time.Now as the source of issue times.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) error {
		if now == nil {
			return errors.New("nil clock")
		}
		if r.now != nil {
			return errors.New("clock is already configured")
		}
		r.now = now
		return nil
	}
}
