// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the input events that the host viewer
// delivers to the interaction operators.
package events

import (
	"fmt"
	"image"
	"time"

	"cogentcore.org/xyzsync/events/key"
)

// Event is the interface for input events. Operators receive events
// from the operator stack, top-most operator first, until one of them
// marks the event as handled.
type Event interface {
	fmt.Stringer

	// Type returns the type of event.
	Type() Types

	// Pos returns the position of the event in the coordinates of the
	// view surface, for events that have a position.
	Pos() image.Point

	// HasPos returns true if the event has a position.
	HasPos() bool

	// Modifiers returns the modifier keys present at the time of the event.
	Modifiers() key.Modifiers

	// Time returns the time at which the event was generated.
	Time() time.Time

	// IsHandled returns whether this event has already been processed.
	IsHandled() bool

	// SetHandled marks the event as having been processed, so that
	// lower operators on the stack do not receive it.
	SetHandled()
}

// Base is the base type for events. It implements the
// [Event] interface and is embedded in all concrete event types.
type Base struct {

	// Typ is the type of event.
	Typ Types

	// Where is the position of the event, if relevant.
	Where image.Point

	// Mods are the modifier keys present at the time of the event.
	Mods key.Modifiers

	// GenTime records the time when the event was first generated.
	GenTime time.Time

	// handled indicates that the event has been handled.
	handled bool
}

func (ev *Base) Init() {
	ev.GenTime = time.Now()
}

func (ev *Base) Type() Types {
	return ev.Typ
}

func (ev *Base) Pos() image.Point {
	return ev.Where
}

func (ev *Base) HasPos() bool {
	return false
}

func (ev *Base) Modifiers() key.Modifiers {
	return ev.Mods
}

func (ev *Base) Time() time.Time {
	return ev.GenTime
}

func (ev *Base) IsHandled() bool {
	return ev.handled
}

func (ev *Base) SetHandled() {
	ev.handled = true
}

func (ev *Base) String() string {
	return fmt.Sprintf("%v{Time: %v, Handled: %v}", ev.Typ, ev.GenTime.Format("04:05"), ev.handled)
}
