// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

// Types determines the type of input event delivered to operators.
// The standard [JavaScript Event](https://developer.mozilla.org/en-US/docs/Web/Events)
// names provide the basis for the names here.
type Types int64 //enums:enum

const (
	// zero value is an unknown type
	UnknownType Types = iota

	// MouseDown happens when a mouse button is pressed down. See Button() for which.
	MouseDown

	// MouseUp happens when a mouse button is released. See Button() for which.
	// A MouseUp at the same position as the preceding MouseDown is a click.
	MouseUp

	// MouseMove is sent when the mouse is moving but no button is down.
	MouseMove

	// MouseDrag is sent when the mouse is moving and a button is down.
	MouseDrag

	// Scroll is for scroll wheel events.
	Scroll

	// KeyDown is when a key is pressed down.
	KeyDown

	// KeyUp is when a key is released.
	KeyUp

	// TouchStart is when a touch event starts, for the low-level touch
	// event processing.
	TouchStart

	// TouchMove is when a touch event moves.
	TouchMove

	// TouchEnd is when a touch event ends.
	TouchEnd
)

var typesNames = [...]string{
	UnknownType: "UnknownType",
	MouseDown:   "MouseDown",
	MouseUp:     "MouseUp",
	MouseMove:   "MouseMove",
	MouseDrag:   "MouseDrag",
	Scroll:      "Scroll",
	KeyDown:     "KeyDown",
	KeyUp:       "KeyUp",
	TouchStart:  "TouchStart",
	TouchMove:   "TouchMove",
	TouchEnd:    "TouchEnd",
}

// String returns the string representation of this Types value.
func (tp Types) String() string {
	if tp < 0 || int(tp) >= len(typesNames) {
		return "UnknownType"
	}
	return typesNames[tp]
}

// IsMouse returns true if this is a mouse or scroll event type.
func (tp Types) IsMouse() bool {
	return tp >= MouseDown && tp <= Scroll
}
