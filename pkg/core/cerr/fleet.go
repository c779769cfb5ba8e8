// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import "errors"

// These sentinel errors describe the fleet use cases failures. They
// are returned after being wrapped by the matching *Error constructor
// (see the functions below), so errors.Is can still detect them while
// the adapters layer can find their HTTP status code.
var (
	ErrUnknownSession     = errors.New("unknown session")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUser        = errors.New("unknown user")
	ErrDuplicateUser      = errors.New("user is already registered")
	ErrDuplicateRequest   = errors.New("session has an outstanding search")
	ErrUnknownLot         = errors.New("unknown parking lot")
	ErrUnknownVehicle     = errors.New("unknown vehicle")
	ErrUnknownCategory    = errors.New("unknown vehicle category")
	ErrVehicleAlreadyHeld = errors.New("user already holds a vehicle")
	ErrVehicleNotHeld     = errors.New("vehicle is not held")
)

// UnknownSession returns ErrUnknownSession as an authentication error.
func UnknownSession() *Error {
	return Authentication(ErrUnknownSession)
}

// InvalidCredentials returns ErrInvalidCredentials as an authentication
// error.
func InvalidCredentials() *Error {
	return Authentication(ErrInvalidCredentials)
}

// UnknownUser returns ErrUnknownUser as a not found error.
func UnknownUser() *Error {
	return NotFound(ErrUnknownUser)
}

// DuplicateUser returns ErrDuplicateUser as a conflict error.
func DuplicateUser() *Error {
	return Conflict(ErrDuplicateUser)
}

// DuplicateRequest returns ErrDuplicateRequest as a conflict error.
func DuplicateRequest() *Error {
	return Conflict(ErrDuplicateRequest)
}

// UnknownLot returns ErrUnknownLot as a not found error.
func UnknownLot() *Error {
	return NotFound(ErrUnknownLot)
}

// UnknownVehicle returns ErrUnknownVehicle as a not found error.
func UnknownVehicle() *Error {
	return NotFound(ErrUnknownVehicle)
}

// UnknownCategory returns ErrUnknownCategory as a not found error.
func UnknownCategory() *Error {
	return NotFound(ErrUnknownCategory)
}

// VehicleAlreadyHeld returns ErrVehicleAlreadyHeld as a conflict error.
func VehicleAlreadyHeld() *Error {
	return Conflict(ErrVehicleAlreadyHeld)
}

// VehicleNotHeld returns ErrVehicleNotHeld as a conflict error.
func VehicleNotHeld() *Error {
	return Conflict(ErrVehicleNotHeld)
}
