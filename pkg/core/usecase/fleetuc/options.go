// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fleetuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the fleet use case.
type Option func(uc *UseCase) error

// WithAwaitTimeouts option configures the default and max durations
// which Await may block.
func WithAwaitTimeouts(def, maxWait time.Duration) Option {
	return func(uc *UseCase) error {
		if def <= 0 || maxWait <= 0 {
			return fmt.Errorf(
				"await timeouts (%v, %v) are not positive", def, maxWait,
			)
		}
		if uc.awaitTimeout != 0 {
			return errors.New("await timeouts are already configured")
		}
		uc.awaitTimeout, uc.maxAwaitTimeout = def, maxWait
		return nil
	}
}
