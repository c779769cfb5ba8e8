// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package authuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the authentication use case.
type Option func(uc *UseCase) error

// WithHashIterations option configures the PBKDF2 iterations count of
// the new password hashes. It must be at least 4096.
func WithHashIterations(iters int) Option {
	return func(uc *UseCase) error {
		if iters < 4096 {
			return fmt.Errorf("iterations (%d) is less than 4096", iters)
		}
		if uc.iters != 0 {
			return errors.New("iterations is already configured")
		}
		uc.iters = iters
		return nil
	}
}

// WithClock option replaces time.Now as the source of login times.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("nil clock")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}
