// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package matchinguc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the matching Engine.
type Option func(e *Engine) error

// WithLocator option configures the Engine to ask l for the candidate
// lots of each search, instead of scanning all lots.
func WithLocator(l Locator) Option {
	return func(e *Engine) error {
		if l == nil {
			return errors.New("nil locator")
		}
		if e.locator != nil {
			return errors.New("locator is already configured")
		}
		e.locator = l
		return nil
	}
}

// WithRecorder option configures the Engine to report its matching
// events to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) error {
		if r == nil {
			return errors.New("nil recorder")
		}
		if e.recorder != nil {
			return errors.New("recorder is already configured")
		}
		e.recorder = r
		return nil
	}
}

// WithHoldingChecks option enables the holding policy, so a vehicle
// may only be returned by the user who holds it. Without it, any
// logged in user may return an assigned vehicle on behalf of its
// holder. A user may never hold two vehicles, with or without this
// option.
func WithHoldingChecks() Option {
	return func(e *Engine) error {
		if e.enforceHoldings {
			return errors.New("holding checks are already enabled")
		}
		e.enforceHoldings = true
		return nil
	}
}

// WithMaxRadiusKm option limits the search radius which is accepted
// by the Engine. Without this option, DefaultMaxRadiusKm is used.
func WithMaxRadiusKm(r float64) Option {
	return func(e *Engine) error {
		if r <= 0 {
			return fmt.Errorf("max radius (%f) is not positive", r)
		}
		if e.maxRadiusKm != 0 {
			return errors.New("max radius is already configured")
		}
		e.maxRadiusKm = r
		return nil
	}
}

// WithClock option replaces time.Now as the source of the pending
// requests arrival times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		if now == nil {
			return errors.New("nil clock")
		}
		if e.now != nil {
			return errors.New("clock is already configured")
		}
		e.now = now
		return nil
	}
}
