// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"context"
	"image"
	"testing"

	"cogentcore.org/xyzsync/events"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name   string
	handle bool
	log    *[]string
	ctx    context.Context
}

func (rc *recorder) Name() string { return rc.name }

func (rc *recorder) HandleEvent(e events.Event) {
	*rc.log = append(*rc.log, rc.name+" "+e.Type().String())
	if rc.handle {
		e.SetHandled()
	}
}

func (rc *recorder) Activate(ctx context.Context) {
	rc.ctx = ctx
	*rc.log = append(*rc.log, rc.name+" activate")
}

func (rc *recorder) Deactivate() {
	*rc.log = append(*rc.log, rc.name+" deactivate")
}

func TestStack(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	s := NewStack(context.Background())
	assert.Nil(t, s.Top())

	s.Push(a)
	s.Push(b)
	s.Push(a)
	assert.Equal(t, []Operator{a, b}, s.Operators())
	assert.Equal(t, b, s.Top())
	assert.True(t, s.Has(a))
	assert.Equal(t, []string{"a activate", "b activate"}, log)

	log = nil
	s.HandleEvent(events.NewMouseDown(image.Pt(1, 1)))
	assert.Equal(t, []string{"b MouseDown", "a MouseDown"}, log)

	log = nil
	b.handle = true
	e := events.NewMouseUp(image.Pt(1, 1))
	s.HandleEvent(e)
	assert.True(t, e.IsHandled())
	assert.Equal(t, []string{"b MouseUp"}, log)

	log = nil
	assert.True(t, s.Remove(b))
	assert.False(t, s.Remove(b))
	assert.False(t, s.Has(b))
	assert.Equal(t, a, s.Top())
	assert.Equal(t, []string{"b deactivate"}, log)

	log = nil
	s.HandleEvent(events.NewMouseUp(image.Pt(1, 1)))
	assert.Equal(t, []string{"a MouseUp"}, log)
}

func TestStackClose(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	s := NewStack(context.Background())
	s.Push(a)
	s.Push(b)
	log = nil

	s.Close()
	assert.Equal(t, []string{"b deactivate", "a deactivate"}, log)
	assert.Empty(t, s.Operators())
	assert.ErrorIs(t, a.ctx.Err(), context.Canceled)
}
