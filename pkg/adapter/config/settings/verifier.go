// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// Range is the closed interval of acceptable values of a setting.
type Range[T cmp.Ordered] struct {
	Min, Max T
}

// OutOfRangeError indicates that the Name setting had a Value which
// was out of its acceptable Range.
type OutOfRangeError[T cmp.Ordered] struct {
	Name  string
	Value T
	Range Range[T]
}

// Error implements the error interface.
func (e *OutOfRangeError[T]) Error() string {
	return fmt.Sprintf(
		"%s (%v) is not in [%v, %v]",
		e.Name, e.Value, e.Range.Min, e.Range.Max,
	)
}

// Verify returns an *OutOfRangeError if v is less than r.Min or
// greater than r.Max. The name identifies the setting in the error.
func (r Range[T]) Verify(name string, v T) error {
	if v < r.Min || v > r.Max {
		return &OutOfRangeError[T]{Name: name, Value: v, Range: r}
	}
	return nil
}

// VerifyOpt is like Verify, but accepts a nil v too.
func (r Range[T]) VerifyOpt(name string, v *T) error {
	if v == nil {
		return nil
	}
	return r.Verify(name, *v)
}
