// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package redisgeo

import "errors"

// Option represents a functional option for the Locator.
type Option func(l *Locator) error

// WithKey sets the sorted set key which holds the lots positions.
func WithKey(key string) Option {
	return func(l *Locator) error {
		if key == "" {
			return errors.New("key must be non-empty")
		}
		if l.key != "" {
			return errors.New("key is already set")
		}
		l.key = key
		return nil
	}
}
