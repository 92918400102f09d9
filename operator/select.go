// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"context"
	"image"
	"log/slog"
	"slices"
	"sync"

	"cogentcore.org/xyzsync/base/errors"
	"cogentcore.org/xyzsync/events"
	"cogentcore.org/xyzsync/events/key"
	"cogentcore.org/xyzsync/viewer"
)

// Select is the operator that selects nodes of a view by clicking on
// them. Clicking the build surface never selects it, and clicking
// nothing clears the selection. Shift extends the selection.
type Select struct {

	// SurfaceName is the name of the build surface node, which can
	// not be selected; [DefaultSurfaceName] if empty.
	SurfaceName string

	// OnSelect is called from the pick goroutine with the new
	// selection whenever it changes.
	OnSelect func(nodes []viewer.NodeID)

	view viewer.View

	mu        sync.Mutex
	pending   bool
	down      image.Point
	selection []viewer.NodeID
	ctx       context.Context
	wg        sync.WaitGroup
}

var _ Operator = (*Select)(nil)

// NewSelect returns a new select operator for the given view.
func NewSelect(vw viewer.View) *Select {
	return &Select{view: vw}
}

func (op *Select) Name() string {
	return "select"
}

func (op *Select) Activate(ctx context.Context) {
	op.mu.Lock()
	op.ctx = ctx
	op.mu.Unlock()
}

func (op *Select) Deactivate() {
	op.mu.Lock()
	op.pending = false
	op.mu.Unlock()
}

// Selection returns the selected nodes, in selection order.
func (op *Select) Selection() []viewer.NodeID {
	op.mu.Lock()
	defer op.mu.Unlock()
	return slices.Clone(op.selection)
}

// SetSelection replaces the selection with the given nodes,
// dropping duplicates.
func (op *Select) SetSelection(nodes []viewer.NodeID) {
	var sel []viewer.NodeID
	for _, n := range nodes {
		if !slices.Contains(sel, n) {
			sel = append(sel, n)
		}
	}
	op.mu.Lock()
	op.selection = sel
	op.mu.Unlock()
}

// Clear clears the selection.
func (op *Select) Clear() {
	op.SetSelection(nil)
}

// Wait blocks until all picks in progress have completed.
func (op *Select) Wait() {
	op.wg.Wait()
}

func (op *Select) HandleEvent(e events.Event) {
	switch e.Type() {
	case events.MouseDown:
		op.mu.Lock()
		op.pending = true
		op.down = e.Pos()
		op.mu.Unlock()
	case events.MouseUp:
		op.mu.Lock()
		click := op.pending && e.Pos() == op.down
		op.pending = false
		ctx := op.ctx
		op.mu.Unlock()
		if !click {
			return
		}
		e.SetHandled()
		if ctx == nil {
			ctx = context.Background()
		}
		extend := e.Modifiers().HasFlag(key.Shift)
		op.wg.Add(1)
		go func() {
			defer op.wg.Done()
			op.pick(ctx, e.Pos(), extend)
		}()
	}
}

func (op *Select) pick(ctx context.Context, where image.Point, extend bool) {
	sel, err := op.view.PickFromPoint(ctx, where, viewer.PickConfig{Mask: viewer.FaceMask})
	if errors.Log(err) != nil {
		return
	}
	surface := op.SurfaceName
	if surface == "" {
		surface = DefaultSurfaceName
	}
	hit := sel.IsEntitySelection()
	if hit && op.view.Model().NodeName(sel.Node) == surface {
		return
	}

	op.mu.Lock()
	switch {
	case !hit && extend:
		op.mu.Unlock()
		return
	case !hit:
		op.selection = nil
	case extend:
		if !slices.Contains(op.selection, sel.Node) {
			op.selection = append(op.selection, sel.Node)
		}
	default:
		op.selection = []viewer.NodeID{sel.Node}
	}
	nodes := slices.Clone(op.selection)
	op.mu.Unlock()

	if hit {
		slog.Debug("operator.Select: selected", "node", sel.Node, "name", op.view.Model().NodeName(sel.Node))
	}
	if op.OnSelect != nil {
		op.OnSelect(nodes)
	}
}
