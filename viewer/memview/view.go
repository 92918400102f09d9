// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memview

import (
	"context"
	"image"

	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
)

// Projection maps 2D surface positions onto the world X-Y plane,
// looking straight down the Z axis.
type Projection struct {

	// Origin is the world X-Y position of the surface origin.
	Origin math32.Vector2

	// Scale is the world distance per surface pixel.
	Scale float32
}

// World returns the world X-Y position under the given surface position.
func (pj Projection) World(where image.Point) math32.Vector2 {
	sc := pj.Scale
	if sc == 0 {
		sc = 1
	}
	return pj.Origin.Add(math32.Vec2(float32(where.X)*sc, float32(where.Y)*sc))
}

// View is an in-memory [viewer.View] showing a [Store].
type View struct {

	// Nm is the name of the view.
	Nm string

	// Store is the model tree shown by the view.
	Store *Store

	// Projection is used to resolve picks.
	Projection Projection
}

var _ viewer.View = (*View)(nil)

// NewView returns a new view of the given name with its own new [Store].
func NewView(name string) *View {
	return &View{Nm: name, Store: NewStore(), Projection: Projection{Scale: 1}}
}

func (vw *View) Name() string {
	return vw.Nm
}

func (vw *View) Model() viewer.Model {
	return vw.Store
}

// PickFromPoint returns the face with the highest top under the given
// position. Only faces are pickable, so the result is empty when the
// mask does not include [viewer.FaceMask].
func (vw *View) PickFromPoint(ctx context.Context, where image.Point, config viewer.PickConfig) (viewer.Selection, error) {
	sel := viewer.Selection{Node: viewer.InvalidNode}
	st := vw.Store
	if st.Hooks.Pick != nil {
		if err := st.Hooks.Pick(ctx); err != nil {
			return sel, err
		}
	}
	if err := ctx.Err(); err != nil {
		return sel, err
	}
	if !config.Mask.HasFlag(viewer.FaceMask) {
		return sel, nil
	}
	pt := vw.Projection.World(where)

	st.mu.RLock()
	defer st.mu.RUnlock()
	top := -math32.Infinity
	for id, nd := range st.nodes {
		ms, ok := st.meshes[nd.Mesh]
		if !ok {
			continue
		}
		bb := ms.Bounds.MulMatrix4(st.netMatrixLocked(id))
		if bb.IsEmpty() || !bb.ContainsXY(pt.X, pt.Y) {
			continue
		}
		if bb.Max.Z > top || (bb.Max.Z == top && id < sel.Node) {
			top = bb.Max.Z
			sel.Node = id
		}
	}
	if sel.Node == viewer.InvalidNode {
		return sel, nil
	}
	sel.Position = math32.Vec3(pt.X, pt.Y, top)
	sel.Entity = viewer.FaceMask
	return sel, nil
}
