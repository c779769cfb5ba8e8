// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"fmt"
	"log/slog"
	"time"
)

// Duration is a time.Duration which is read from and written to the
// config files in the time.ParseDuration format, like 1m30s, instead
// of a nanoseconds count.
type Duration time.Duration

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// The d receiver is updated only if data could be parsed.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return fmt.Errorf("parsing duration: %w", err)
	}
	*d = Duration(dd)
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Duration) String() string {
	return d.Std().String()
}

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// LogValue implements slog.LogValuer.
func (d Duration) LogValue() slog.Value {
	return slog.DurationValue(d.Std())
}
