// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"fmt"
	"image"

	"cogentcore.org/xyzsync/events/key"
	"cogentcore.org/xyzsync/math32"
)

// Buttons is a mouse button.
type Buttons int32 //enums:enum

const (
	NoButton Buttons = iota
	Left
	Middle
	Right
)

// Mouse is a basic mouse event for all mouse events except Scroll
type Mouse struct {
	Base

	// Button is the mouse button being pressed or released.
	Button Buttons
}

// NewMouse returns a new [Mouse] event of the given type
// at the given position.
func NewMouse(typ Types, but Buttons, where image.Point, mods key.Modifiers) *Mouse {
	ev := &Mouse{}
	ev.Init()
	ev.Typ = typ
	ev.Button = but
	ev.Where = where
	ev.Mods = mods
	return ev
}

// NewMouseDown returns a new left button [MouseDown] event.
func NewMouseDown(where image.Point) *Mouse {
	return NewMouse(MouseDown, Left, where, 0)
}

// NewMouseUp returns a new left button [MouseUp] event.
func NewMouseUp(where image.Point) *Mouse {
	return NewMouse(MouseUp, Left, where, 0)
}

func (ev *Mouse) String() string {
	return fmt.Sprintf("%v{Button: %v, Pos: %v, Mods: %v, Time: %v}", ev.Type(), ev.Button, ev.Where, ev.Mods.ModifiersString(), ev.Time().Format("04:05"))
}

func (ev *Mouse) HasPos() bool {
	return true
}

// MouseScroll is for mouse scrolling, recording the delta of the scroll
type MouseScroll struct {
	Mouse

	// Delta is the amount of scrolling in each axis.
	Delta math32.Vector2
}

func (ev *MouseScroll) String() string {
	return fmt.Sprintf("%v{Delta: %v, Pos: %v, Mods: %v, Time: %v}", ev.Type(), ev.Delta, ev.Where, ev.Mods.ModifiersString(), ev.Time().Format("04:05"))
}

// NewScroll returns a new [Scroll] event.
func NewScroll(where image.Point, delta math32.Vector2, mods key.Modifiers) *MouseScroll {
	ev := &MouseScroll{}
	ev.Init()
	ev.Typ = Scroll
	ev.Where = where
	ev.Delta = delta
	ev.Mods = mods
	return ev
}

// Key is a key press or release event.
type Key struct {
	Base

	// Rune is the meaning of the key event as determined by the
	// operating system, or -1 if it does not produce a rune.
	Rune rune
}

// NewKey returns a new [Key] event of the given type.
func NewKey(typ Types, r rune, mods key.Modifiers) *Key {
	ev := &Key{}
	ev.Init()
	ev.Typ = typ
	ev.Rune = r
	ev.Mods = mods
	return ev
}

func (ev *Key) String() string {
	return fmt.Sprintf("%v{Rune: %q, Mods: %v, Time: %v}", ev.Type(), ev.Rune, ev.Mods.ModifiersString(), ev.Time().Format("04:05"))
}

// Touch is a low-level touch event.
type Touch struct {
	Base

	// Sequence is the sequence number of the touch, identifying
	// a single finger over a TouchStart, TouchMove, TouchEnd series.
	Sequence int
}

// NewTouch returns a new [Touch] event of the given type.
func NewTouch(typ Types, seq int, where image.Point) *Touch {
	ev := &Touch{}
	ev.Init()
	ev.Typ = typ
	ev.Sequence = seq
	ev.Where = where
	return ev
}

func (ev *Touch) HasPos() bool {
	return true
}
