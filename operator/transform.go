// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"cogentcore.org/xyzsync/events"
	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
	"cogentcore.org/xyzsync/viewsync"
)

// Arranger moves the given nodes of a model so that they lie
// side by side on a square plane of the given size.
type Arranger interface {
	Arrange(ctx context.Context, m viewer.Model, nodes []viewer.NodeID, planeSize float32) error
}

// ShelfArranger is an [Arranger] that places nodes left to right in
// rows, starting a new row when a node does not fit in the current one.
// Nodes are moved so their bounding box rests on Z = 0.
type ShelfArranger struct {

	// Margin is the gap between nodes and around the plane edges.
	Margin float32
}

func (sa ShelfArranger) Arrange(ctx context.Context, m viewer.Model, nodes []viewer.NodeID, planeSize float32) error {
	x, y := sa.Margin, sa.Margin
	var rowDepth float32
	for _, n := range nodes {
		bb, err := m.NodesBounding(ctx, []viewer.NodeID{n})
		if err != nil {
			return err
		}
		if bb.IsEmpty() {
			continue
		}
		sz := bb.Size()
		if x+sz.X+sa.Margin > planeSize && x > sa.Margin {
			x = sa.Margin
			y += rowDepth + sa.Margin
			rowDepth = 0
		}
		if x+sz.X+sa.Margin > planeSize || y+sz.Y+sa.Margin > planeSize {
			return fmt.Errorf("operator.ShelfArranger: node %d (%v) does not fit on a plane of size %g", n, sz, planeSize)
		}
		mat := m.NodeMatrix(n)
		tr := mat.Translation().Add(math32.Vec3(x, y, 0).Sub(bb.Min))
		mat.SetTranslation(tr.X, tr.Y, tr.Z)
		if err := m.SetNodeMatrix(n, mat); err != nil {
			return err
		}
		x += sz.X + sa.Margin
		rowDepth = math32.Max(rowDepth, sz.Y)
	}
	return nil
}

// Transform is the operator that holds the nodes with transform handles
// and arranges nodes on the build surface of the primary view. Moving
// nodes marks the registry dirty; the application then synchronizes the
// attached views.
type Transform struct {

	// SurfaceName is the name of the build surface node, which is
	// never arranged; [DefaultSurfaceName] if empty.
	SurfaceName string

	// Arranger arranges the nodes; a [ShelfArranger] if nil.
	Arranger Arranger

	registry *viewsync.Registry

	mu      sync.Mutex
	handles []viewer.NodeID
	active  bool
}

var _ Operator = (*Transform)(nil)

// NewTransform returns a new transform operator for the given registry.
func NewTransform(reg *viewsync.Registry) *Transform {
	return &Transform{registry: reg}
}

func (op *Transform) Name() string {
	return "transform"
}

func (op *Transform) Activate(ctx context.Context) {
	op.mu.Lock()
	op.active = true
	op.mu.Unlock()
}

// Deactivate removes the handles.
func (op *Transform) Deactivate() {
	op.mu.Lock()
	op.active = false
	op.handles = nil
	op.mu.Unlock()
}

// Active returns whether the operator is on a stack.
func (op *Transform) Active() bool {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.active
}

// HandleEvent does nothing: dragging the handles is done by the viewer.
func (op *Transform) HandleEvent(e events.Event) {}

// AddHandles adds transform handles to the given nodes.
func (op *Transform) AddHandles(nodes []viewer.NodeID) {
	op.mu.Lock()
	defer op.mu.Unlock()
	for _, n := range nodes {
		if !slices.Contains(op.handles, n) {
			op.handles = append(op.handles, n)
		}
	}
}

// Handles returns the nodes with transform handles.
func (op *Transform) Handles() []viewer.NodeID {
	op.mu.Lock()
	defer op.mu.Unlock()
	return slices.Clone(op.handles)
}

// Arrange arranges the top-level model nodes of the primary view,
// other than the build surface, on a plane of the given size.
// On success the registry is marked dirty.
func (op *Transform) Arrange(ctx context.Context, planeSize float32) error {
	m := op.registry.Primary().Model()
	surface := op.SurfaceName
	if surface == "" {
		surface = DefaultSurfaceName
	}
	var nodes []viewer.NodeID
	for _, n := range m.NodeChildren(m.RootNode()) {
		if m.NodeName(n) != surface {
			nodes = append(nodes, n)
		}
	}
	arr := op.Arranger
	if arr == nil {
		arr = ShelfArranger{Margin: 5}
	}
	if err := arr.Arrange(ctx, m, nodes, planeSize); err != nil {
		return err
	}
	op.registry.MarkDirty(true)
	return nil
}
