// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"image"
	"testing"

	"cogentcore.org/xyzsync/events/key"
	"github.com/stretchr/testify/assert"
)

func TestMouse(t *testing.T) {
	ev := NewMouse(MouseDown, Left, image.Pt(3, 4), key.Shift)
	assert.Equal(t, MouseDown, ev.Type())
	assert.Equal(t, image.Pt(3, 4), ev.Pos())
	assert.True(t, ev.HasPos())
	assert.True(t, ev.Modifiers().HasFlag(key.Shift))
	assert.False(t, ev.IsHandled())
	ev.SetHandled()
	assert.True(t, ev.IsHandled())
	assert.Contains(t, ev.String(), "MouseDown")
	assert.Contains(t, ev.String(), "Shift")
}

func TestTypes(t *testing.T) {
	assert.Equal(t, "TouchEnd", TouchEnd.String())
	assert.Equal(t, "UnknownType", Types(99).String())
	assert.True(t, Scroll.IsMouse())
	assert.False(t, KeyDown.IsMouse())
	assert.False(t, NewKey(KeyDown, 'a', 0).HasPos())
}

func TestModifiersString(t *testing.T) {
	assert.Equal(t, "Control+Shift", (key.Control | key.Shift).ModifiersString())
	assert.Equal(t, "", key.Modifiers(0).ModifiersString())
}
