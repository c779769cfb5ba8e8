// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// The error value is resolved as a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// Stringer returns an Attr which is resolved lazily by value.String().
// A nil value is logged as the constant "nil" string.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	if value == nil {
		return slog.String(key, "nil")
	}
	return slog.Any(key, stringerValuer{value})
}

// Token returns an Attr for a session token. Only its first eight hex
// digits are logged because a full token is a credential.
func Token(key string, token uuid.UUID) slog.Attr {
	return slog.String(key, token.String()[:8])
}

type stringerValuer struct {
	fmt.Stringer
}

func (sv stringerValuer) LogValue() slog.Value {
	return slog.StringValue(sv.String())
}
