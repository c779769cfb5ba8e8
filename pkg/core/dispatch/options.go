// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dispatch

import (
	"errors"
	"fmt"
)

// Option is a functional option for the dispatcher Pool.
type Option func(p *Pool) error

// WithWorkers option configures a Pool to run n workers.
func WithWorkers(n int) Option {
	return func(p *Pool) error {
		if n <= 0 {
			return fmt.Errorf("workers (%d) is not positive", n)
		}
		if p.workers != 0 {
			return errors.New("workers count is already configured")
		}
		p.workers = n
		return nil
	}
}
