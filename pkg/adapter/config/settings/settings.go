// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the helpers which are shared by the
// config structs. Optional settings are kept as pointers, so a missing
// item can be told apart from its zero value and be filled by Default,
// while Range checks the items which have an acceptable interval.
package settings

// Default makes the (*t) pointer, if it is nil, to point to a newly
// allocated T instance which is initialized by def.
// If the (*t) pointer was not nil, Default will perform no action.
func Default[T any](t **T, def T) {
	if (*t) != nil {
		return
	}
	(*t) = &def
}

// Nil2Zero is like Default, but initializes the (*t) pointer with the
// zero value of the T type.
func Nil2Zero[T any](t **T) {
	var zero T
	Default(t, zero)
}
