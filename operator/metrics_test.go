// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"context"
	"errors"
	"image"
	"testing"

	"cogentcore.org/xyzsync/viewer"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementMetrics(t *testing.T) {
	fx := newFixture(t, 1)
	fx.views[1].Nm = "metrics-side"
	ctx := context.Background()
	op := NewInstance(fx.registry)
	op.Alert = func(string) {}
	op.SetNodesToInstance(ctx, []viewer.NodeID{fx.node(t, "nodeA"), fx.node(t, "nodeB")})

	placed := testutil.ToFloat64(placements.WithLabelValues("placed"))
	partial := testutil.ToFloat64(placements.WithLabelValues("partial"))
	rejected := testutil.ToFloat64(placements.WithLabelValues("rejected"))
	created := testutil.ToFloat64(instanceRequests.WithLabelValues("metrics-side", "created"))
	failed := testutil.ToFloat64(instanceRequests.WithLabelValues("metrics-side", "failed"))

	_, err := op.Place(ctx, plateClick)
	require.NoError(t, err)
	_, err = op.Place(ctx, image.Pt(-1, -1))
	assert.ErrorIs(t, err, ErrInvalidSurface)

	fx.views[1].Store.Hooks.CreateMeshInstance = func(ctx context.Context, data viewer.MeshInstanceData) error {
		return errors.New("offline")
	}
	_, err = op.Place(ctx, image.Pt(250, 250))
	assert.Error(t, err)

	assert.Equal(t, placed+1, testutil.ToFloat64(placements.WithLabelValues("placed")))
	assert.Equal(t, partial+1, testutil.ToFloat64(placements.WithLabelValues("partial")))
	assert.Equal(t, rejected+1, testutil.ToFloat64(placements.WithLabelValues("rejected")))
	assert.Equal(t, created+3, testutil.ToFloat64(instanceRequests.WithLabelValues("metrics-side", "created")))
	assert.Equal(t, failed+3, testutil.ToFloat64(instanceRequests.WithLabelValues("metrics-side", "failed")))
}

func TestInstanceRequestsPerView(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()
	op := NewInstance(fx.registry)
	op.SetNodesToInstance(ctx, []viewer.NodeID{fx.node(t, "nodeA")})

	created := make([]float64, len(fx.views))
	for i, vw := range fx.views {
		created[i] = testutil.ToFloat64(instanceRequests.WithLabelValues(vw.Name(), "created"))
	}
	_, err := op.Place(ctx, plateClick)
	require.NoError(t, err)
	for i, vw := range fx.views {
		assert.Equal(t, created[i]+1, testutil.ToFloat64(instanceRequests.WithLabelValues(vw.Name(), "created")), vw.Name())
	}
}
