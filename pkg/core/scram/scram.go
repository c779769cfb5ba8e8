// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interfaces for Salted Challenge
// Response Authentication Mechanism (SCRAM) hashing. For the
// corresponding implementation, check the adapter layer.
//
// The use cases only need to derive a storable hash string from a
// plaintext password, a salt, and an iteration count, and later verify
// a candidate password against that stored string. The challenge and
// response conversations of the SCRAM protocol are not needed, so they
// are kept out of the core layer.
//
// See the Hasher interface for the expected SCRAM implementation
// features. This interface is used by the authuc package in order to
// register users and verify their credentials without ever persisting
// a plaintext password. It is also used by the schemauc package in
// order to change the database role passwords without sending the
// plaintext passwords in the relevant DDL queries.
package scram

// Hasher represents the expectations from a SCRAM hasher implementation
// which for a specific underlying hash function (e.g., SHA1 or SHA256)
// computes the storedKey and serverKey values whenever its Hash method
// is called with the relevant pass, salt, and iters arguments. A PBKDF2
// algorithm is computed in order to slow down a dictionary attack as
// detailed in RFC 5802.
type Hasher interface {
	// Hash computes a hash string following the standard scram hash
	// format, so it can be stored and used later for authentication.
	//
	// The pass argument must be non-empty and is normalized by the
	// SASLprep profile (RFC 4013) before hashing.
	// The salt must contain a base64 encoding of the desired salt
	// bytes, otherwise, if an empty value is passed, a random salt will
	// be generated and used instead.
	// The iters must be at least equal to 4096.
	//
	// In absence of errors, a hashed string will be returned which
	// conforms to the following format.
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	Hash(pass, salt string, iters int) (string, error)

	// Verify reports whether pass matches the hashed string which was
	// produced by Hash before. The iterations count and salt are taken
	// from hashed itself. A malformed hashed string or a hash of
	// another mechanism causes an error, while a wrong password just
	// returns false.
	Verify(pass, hashed string) (bool, error)

	// NewSalt returns a fresh random salt, encoded in base64, which
	// may be passed to Hash.
	NewSalt() (string, error)
}
