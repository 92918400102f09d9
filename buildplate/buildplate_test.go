// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildplate

import (
	"context"
	"image"
	"testing"

	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
	"cogentcore.org/xyzsync/viewer/memview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	vw := memview.NewView("main")
	pl, err := New(ctx, vw, "printingPlane", 300, 10)
	require.NoError(t, err)

	st := vw.Store
	assert.Equal(t, "printingPlane", st.NodeName(pl.Node))
	bb, err := st.NodesBounding(ctx, []viewer.NodeID{pl.Node})
	require.NoError(t, err)
	assert.Equal(t, math32.B3(0, 0, -10, 300, 300, 0), bb)
	assert.Equal(t, pl.Bounds(), bb)

	clr, err := st.NodeEffectiveFaceColor(ctx, pl.Node)
	require.NoError(t, err)
	assert.Equal(t, Color, clr)

	sel, err := vw.PickFromPoint(ctx, image.Pt(150, 20), viewer.PickConfig{Mask: viewer.FaceMask})
	require.NoError(t, err)
	assert.Equal(t, pl.Node, sel.Node)
	assert.Equal(t, math32.Vec3(150, 20, 0), sel.Position)
}

func TestNewInvalid(t *testing.T) {
	_, err := New(context.Background(), memview.NewView("main"), "printingPlane", 0, 10)
	assert.Error(t, err)
}
