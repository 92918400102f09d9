// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package key contains the modifier key state carried by events.
package key

import "strings"

// Modifiers are used as bitflags representing a set of modifier keys.
type Modifiers int64

const (
	// Control is the "Control" (Ctrl) key.
	Control Modifiers = 1 << iota

	// Meta is the system meta key (the "Command" key on macOS
	// and the "Windows" key on Windows).
	Meta

	// Alt is the "Alt" ("Option" on macOS) key.
	Alt

	// Shift is the "Shift" key.
	Shift
)

// HasFlag returns whether the given modifier is set.
func (m Modifiers) HasFlag(f Modifiers) bool {
	return m&f != 0
}

// ModifiersString returns the string representation of the modifiers
// using plus symbols as separators.
func (m Modifiers) ModifiersString() string {
	var parts []string
	if m.HasFlag(Control) {
		parts = append(parts, "Control")
	}
	if m.HasFlag(Meta) {
		parts = append(parts, "Meta")
	}
	if m.HasFlag(Alt) {
		parts = append(parts, "Alt")
	}
	if m.HasFlag(Shift) {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}
