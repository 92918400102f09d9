// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UseColor is whether to use color in log messages. It is on by default,
// and colors are only used when the output supports them.
var UseColor = true

// output is the termenv output used for color profile detection.
var output = termenv.NewOutput(os.Stderr)

func colored(s string, hex string) string {
	if !UseColor {
		return s
	}
	p := output.ColorProfile()
	if p == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(p.Color(hex)).String()
}

// ErrorColor returns the given string in the error color.
func ErrorColor(s string) string {
	return colored(s, "#e06c75")
}

// WarnColor returns the given string in the warning color.
func WarnColor(s string) string {
	return colored(s, "#e5c07b")
}

// SuccessColor returns the given string in the success color.
func SuccessColor(s string) string {
	return colored(s, "#98c379")
}

// DebugColor returns the given string in the debug color.
func DebugColor(s string) string {
	return colored(s, "#7f848e")
}

// LevelColor returns the given string in the color for the given level.
func LevelColor(lv slog.Level, s string) string {
	switch {
	case lv >= slog.LevelError:
		return ErrorColor(s)
	case lv >= slog.LevelWarn:
		return WarnColor(s)
	case lv >= slog.LevelInfo:
		return s
	default:
		return DebugColor(s)
	}
}
