// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buildplate creates the build surface that geometry is
// placed and arranged on.
package buildplate

import (
	"context"
	"fmt"
	"image/color"

	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
)

// Color is the face color of the build plate.
var Color = color.RGBA{218, 220, 222, 255}

// Plate is a build plate in one view.
type Plate struct {

	// Node is the plate node.
	Node viewer.NodeID

	// Size is the width and depth of the plate.
	Size float32

	// Thickness is the height of the plate below Z = 0.
	Thickness float32
}

// Bounds returns the extent of the plate.
func (pl *Plate) Bounds() math32.Box3 {
	return math32.B3(0, 0, -pl.Thickness, pl.Size, pl.Size, 0)
}

// New creates a square plate of the given size and thickness, named
// name, under the root of the given view's model. The plate covers
// [0, size] in X and Y and its top face lies at Z = 0.
func New(ctx context.Context, vw viewer.View, name string, size, thickness float32) (*Plate, error) {
	if size <= 0 || thickness < 0 {
		return nil, fmt.Errorf("buildplate.New: invalid size %g and thickness %g", size, thickness)
	}
	pl := &Plate{Size: size, Thickness: thickness}
	corners := pl.Bounds().Corners()
	m := vw.Model()
	mesh, err := m.CreateMesh(ctx, viewer.MeshData{Name: name, Positions: corners[:]})
	if err != nil {
		return nil, fmt.Errorf("buildplate.New: view %q: %w", vw.Name(), err)
	}
	pl.Node, err = m.CreateMeshInstance(ctx, viewer.MeshInstanceData{
		Mesh:      mesh,
		Matrix:    math32.Identity4(),
		Name:      name,
		FaceColor: Color,
		LineColor: color.RGBA{0, 0, 0, 255},
	})
	if err != nil {
		return nil, fmt.Errorf("buildplate.New: view %q: %w", vw.Name(), err)
	}
	return pl, nil
}
