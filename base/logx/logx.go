// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the default structured logger setup and
// colored terminal output for user-facing messages.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging and printing messages should be shown. Messages at levels at
// or above this level will be shown. It should typically be set through
// the config file or command line flags. The default is [slog.LevelInfo],
// or [slog.LevelDebug] with the debug build tag and [slog.LevelWarn]
// with the release build tag.
var UserLevel = defaultUserLevel

// level is the leveler shared by every handler made by [SetDefaultLogger],
// so that [SetLevel] takes effect without replacing the logger.
var level = new(slog.LevelVar)

// SetDefaultLogger sets the default logger to a text handler writing to
// stderr at [UserLevel], with colored level names when the terminal
// supports them.
func SetDefaultLogger() {
	SetDefaultLoggerTo(os.Stderr)
}

// SetDefaultLoggerTo is [SetDefaultLogger] writing to the given writer.
func SetDefaultLoggerTo(w io.Writer) {
	level.Set(UserLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			lv, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			return slog.String(slog.LevelKey, LevelColor(lv, lv.String()))
		},
	})))
}

// SetLevel sets [UserLevel] and updates the default logger made
// by [SetDefaultLogger] to use it.
func SetLevel(lv slog.Level) {
	UserLevel = lv
	level.Set(lv)
}

// ParseLevel returns the [slog.Level] for the given name
// (debug, info, warn, error), case insensitive.
func ParseLevel(name string) (slog.Level, error) {
	var lv slog.Level
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		lv = slog.LevelDebug
	case "info", "":
		lv = slog.LevelInfo
	case "warn", "warning":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		return lv, fmt.Errorf("logx.ParseLevel: unknown level %q", name)
	}
	return lv, nil
}
