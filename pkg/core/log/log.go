// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package log is a thin layer over log/slog for the core packages.
// Its Debug, Info, Warn, and Error functions take a context and typed
// slog.Attr values and pass the record to the slog.Default() handler,
// reporting the caller of those functions as the source location.
// See attrs.go for the Attr constructors, e.g., Token which logs the
// session tokens partially.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelDebug, msg, attrs)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelError, msg, attrs)
}

// callerFrames is the number of frames which are skipped in order to
// find the caller of Debug, Info, Warn, or Error: runtime.Callers,
// emit, and the exported function itself.
const callerFrames = 3

// emit must only be called by the exported functions of this package.
func emit(
	ctx context.Context, level slog.Level, msg string, attrs []slog.Attr,
) {
	h := slog.Default().Handler()
	if !h.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(callerFrames, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = h.Handle(ctx, r)
}
