// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr defines the core errors. Each use case error which has
// to be reported to an end-user is wrapped by an *Error value carrying
// the HTTP status code which describes it best, so the adapters layer
// can translate errors without knowing all use cases. The fleet.go file
// lists the sentinel errors of the matching and authentication use
// cases together with their *Error constructors.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a use case error which should be reported to the users
// with the HTTPStatusCode status.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err)
}

// StatusOf finds the first *Error in the err chain and returns it with
// its status code. Otherwise, the 500 status code and a nil *Error are
// returned.
func StatusOf(err error) (int, *Error) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode, ce
	}
	return http.StatusInternalServerError, nil
}

func newError(code int, err error) *Error {
	return &Error{Err: err, HTTPStatusCode: code}
}

// BadRequest reports an invalid input, like an out of range radius.
func BadRequest(err error) *Error {
	return newError(http.StatusBadRequest, err)
}

// Authentication reports a missing session or wrong credentials.
func Authentication(err error) *Error {
	return newError(http.StatusUnauthorized, err)
}

func NotFound(err error) *Error {
	return newError(http.StatusNotFound, err)
}

// Conflict reports an operation which contradicts the current fleet
// or session state, like searching twice.
func Conflict(err error) *Error {
	return newError(http.StatusConflict, err)
}

// Unavailable reports a service which is not loaded yet or is being
// closed.
func Unavailable(err error) *Error {
	return newError(http.StatusServiceUnavailable, err)
}
