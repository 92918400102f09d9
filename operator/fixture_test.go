// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"context"
	"fmt"
	"image"
	"testing"

	"cogentcore.org/xyzsync/buildplate"
	"cogentcore.org/xyzsync/viewer"
	"cogentcore.org/xyzsync/viewer/memview"
	"cogentcore.org/xyzsync/viewsync"
	"github.com/stretchr/testify/require"
)

// testModel has a leaf nodeA, and nodeB with two leaf children.
// All of it lies on the plate, with the highest top at Z = 4.
var testModel = &memview.ModelFile{
	Name: "parts",
	Meshes: []memview.MeshFile{
		{Name: "cube", Max: [3]float32{1, 1, 1}},
		{Name: "tall", Max: [3]float32{2, 2, 4}},
	},
	Nodes: []memview.NodeFile{
		{Name: "nodeA", Mesh: "cube", Color: "#00ff00", Translate: [3]float32{10, 10, 0}},
		{Name: "nodeB", Color: "#0000ff", Children: []memview.NodeFile{
			{Name: "b1", Mesh: "tall", Translate: [3]float32{20, 20, 0}, RotateZ: 90},
			{Name: "b2", Mesh: "cube", Translate: [3]float32{30, 20, 0}, Scale: &[3]float32{2, 2, 2}},
		}},
	},
}

// plateClick is a point on the plate away from all model nodes.
var plateClick = image.Pt(100, 120)

type fixture struct {
	views    []*memview.View
	registry *viewsync.Registry
	models   []viewer.NodeID
}

func newFixture(t *testing.T, attached int) *fixture {
	t.Helper()
	ctx := context.Background()
	fx := &fixture{}
	for i := 0; i <= attached; i++ {
		vw := memview.NewView(fmt.Sprintf("view-%d", i))
		if i == 0 {
			vw.Nm = "main"
		}
		_, err := buildplate.New(ctx, vw, DefaultSurfaceName, 300, 10)
		require.NoError(t, err)
		model, err := vw.Store.CreateNode(viewer.InvalidNode, "Model-1")
		require.NoError(t, err)
		require.NoError(t, vw.Store.AddModel(model, "parts", testModel))
		fx.views = append(fx.views, vw)
		fx.models = append(fx.models, model)
	}
	var att []viewer.View
	for _, vw := range fx.views[1:] {
		att = append(att, vw)
	}
	fx.registry = viewsync.New(fx.views[0], att...)
	return fx
}

func (fx *fixture) main() *memview.Store {
	return fx.views[0].Store
}

func (fx *fixture) node(t *testing.T, name string) viewer.NodeID {
	t.Helper()
	id, ok := fx.main().FindNode(name)
	require.True(t, ok, name)
	return id
}

func (fx *fixture) instances() []int {
	var n []int
	for _, vw := range fx.views {
		n = append(n, vw.Store.Instances())
	}
	return n
}
