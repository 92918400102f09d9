// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"context"
	"errors"
	"image"
	"image/color"
	"slices"
	"sync"
	"testing"

	"cogentcore.org/xyzsync/events"
	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherLeaves(t *testing.T) {
	fx := newFixture(t, 0)
	m := fx.main()
	a, b := fx.node(t, "nodeA"), fx.node(t, "nodeB")
	b1, b2 := fx.node(t, "b1"), fx.node(t, "b2")

	leaves := GatherLeaves(m, []viewer.NodeID{a, b})
	assert.Equal(t, []viewer.NodeID{a, b1, b2}, leaves)

	assert.ElementsMatch(t, leaves, GatherLeaves(m, []viewer.NodeID{b, a}))
	assert.Equal(t, []viewer.NodeID{b1, b2}, GatherLeaves(m, []viewer.NodeID{b1, b, b1}))
	assert.ElementsMatch(t, []viewer.NodeID{a, b1, b2}, GatherLeaves(m, []viewer.NodeID{fx.models[0]}))
	assert.Empty(t, GatherLeaves(m, nil))
}

// cyclicModel is a model whose children loop back to an ancestor.
type cyclicModel struct {
	viewer.Model
	kids map[viewer.NodeID][]viewer.NodeID
}

func (cm *cyclicModel) NodeChildren(n viewer.NodeID) []viewer.NodeID {
	return cm.kids[n]
}

func TestGatherLeavesCycle(t *testing.T) {
	cm := &cyclicModel{kids: map[viewer.NodeID][]viewer.NodeID{
		1: {2, 3},
		2: {1, 4},
	}}
	assert.Equal(t, []viewer.NodeID{3, 4}, GatherLeaves(cm, []viewer.NodeID{1}))
}

func TestSetNodesToInstance(t *testing.T) {
	fx := newFixture(t, 0)
	ctx := context.Background()
	op := NewInstance(fx.registry)
	a, b := fx.node(t, "nodeA"), fx.node(t, "nodeB")

	op.SetNodesToInstance(ctx, []viewer.NodeID{a, b})
	z, err := op.ZOffset(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(4), z)
	assert.Equal(t, []viewer.NodeID{a, b}, op.Nodes())
	assert.Len(t, op.Leaves(), 3)

	op.SetNodesToInstance(ctx, []viewer.NodeID{a})
	z, err = op.ZOffset(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(1), z)

	op.SetNodesToInstance(ctx, nil)
	z, err = op.ZOffset(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(0), z)
	assert.Empty(t, op.Leaves())
}

func TestPlaceReplicatesToEveryView(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()
	op := NewInstance(fx.registry)
	a := fx.node(t, "nodeA")
	before := fx.instances()

	op.SetNodesToInstance(ctx, []viewer.NodeID{a})
	assert.False(t, fx.registry.Dirty())
	p, err := op.Place(ctx, plateClick)
	require.NoError(t, err)
	require.Len(t, p.Requests, 3)
	assert.True(t, fx.registry.Dirty())
	assert.Equal(t, 3, p.Created())
	assert.Equal(t, math32.Vec3(100, 120, 0), p.Point)
	assert.Equal(t, float32(1), p.ZOffset)

	var views []viewer.View
	for _, r := range p.Requests {
		require.NoError(t, r.Err)
		assert.Equal(t, a, r.Leaf)
		assert.Equal(t, p.Requests[0].Data, r.Data)
		assert.False(t, slices.Contains(views, r.View), r.View.Name())
		views = append(views, r.View)
	}
	assert.Same(t, fx.views[0], p.Requests[0].View)

	data := p.Requests[0].Data
	assert.Equal(t, math32.Vec3(100, 120, 1), data.Matrix.Translation())
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, data.FaceColor)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, data.LineColor)
	assert.Equal(t, "Node 3 Instance", data.Name)

	after := fx.instances()
	for i := range after {
		assert.Equal(t, before[i]+1, after[i])
	}

	for _, r := range p.Requests[1:] {
		node, ok := fx.registry.Linked(r.View, p.Requests[0].Node)
		require.True(t, ok)
		assert.Equal(t, r.Node, node)
	}
}

func TestPlaceKeepsRotationAndScale(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	op := NewInstance(fx.registry)
	a, b := fx.node(t, "nodeA"), fx.node(t, "nodeB")
	b1 := fx.node(t, "b1")

	op.SetNodesToInstance(ctx, []viewer.NodeID{a, b})
	p, err := op.Place(ctx, image.Pt(200, 50))
	require.NoError(t, err)
	// three leaves in two views
	require.Len(t, p.Requests, 6)
	assert.Equal(t, float32(4), p.ZOffset)

	orig := fx.main().NodeNetMatrix(b1)
	for _, r := range p.Requests {
		assert.Equal(t, math32.Vec3(200, 50, 4), r.Data.Matrix.Translation())
		assert.Equal(t, "Node 3,5,6 Instance", r.Data.Name)
		if r.Leaf != b1 {
			continue
		}
		for i := 0; i < 12; i++ {
			assert.Equal(t, orig[i], r.Data.Matrix[i])
		}
		assert.Equal(t, color.RGBA{0, 0, 255, 255}, r.Data.FaceColor)
	}
}

func TestPlaceRejected(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	op := NewInstance(fx.registry)
	var alerts []string
	op.Alert = func(msg string) {
		alerts = append(alerts, msg)
	}
	op.SetNodesToInstance(ctx, []viewer.NodeID{fx.node(t, "nodeA")})
	before := fx.instances()

	// on a model node instead of the plate
	p, err := op.Place(ctx, image.Pt(10, 10))
	assert.ErrorIs(t, err, ErrInvalidSurface)
	assert.Nil(t, p)

	// off everything
	_, err = op.Place(ctx, image.Pt(-50, -50))
	assert.ErrorIs(t, err, ErrInvalidSurface)

	assert.Equal(t, []string{RejectMessage, RejectMessage}, alerts)
	assert.Equal(t, before, fx.instances())
	assert.False(t, fx.registry.Dirty())
}

func TestPlaceWithoutLeaves(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	op := NewInstance(fx.registry)
	before := fx.instances()

	p, err := op.Place(ctx, plateClick)
	require.NoError(t, err)
	assert.Empty(t, p.Requests)
	assert.Equal(t, before, fx.instances())
	assert.False(t, fx.registry.Dirty())
}

func TestPlacePartialFailure(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()
	boom := errors.New("boom")
	fx.views[1].Store.Hooks.CreateMeshInstance = func(ctx context.Context, data viewer.MeshInstanceData) error {
		return boom
	}
	op := NewInstance(fx.registry)
	op.MaxRequests = 1
	op.SetNodesToInstance(ctx, []viewer.NodeID{fx.node(t, "nodeA")})
	before := fx.instances()

	p, err := op.Place(ctx, plateClick)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var rerr *ReplicationError
	require.ErrorAs(t, err, &rerr)
	require.Len(t, rerr.Failed, 1)
	assert.Same(t, fx.views[1], rerr.Failed[0].View)
	assert.Contains(t, err.Error(), "1 of 3")

	assert.Equal(t, 2, p.Created())
	assert.True(t, fx.registry.Dirty())
	after := fx.instances()
	assert.Equal(t, []int{before[0] + 1, before[1], before[2] + 1}, after)

	_, ok := fx.registry.Linked(fx.views[1], p.Requests[0].Node)
	assert.False(t, ok)
	_, ok = fx.registry.Linked(fx.views[2], p.Requests[0].Node)
	assert.True(t, ok)
}

func TestPlaceFaceColorFailure(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	b1 := fx.node(t, "b1")
	boom := errors.New("boom")
	fx.main().Hooks.FaceColor = func(ctx context.Context, node viewer.NodeID) error {
		if node == b1 {
			return boom
		}
		return nil
	}
	op := NewInstance(fx.registry)
	op.SetNodesToInstance(ctx, []viewer.NodeID{fx.node(t, "nodeA"), fx.node(t, "nodeB")})
	before := fx.instances()

	p, err := op.Place(ctx, plateClick)
	assert.ErrorIs(t, err, boom)
	require.Len(t, p.Requests, 6)
	assert.Equal(t, 4, p.Created())
	for _, r := range p.Failed() {
		assert.Equal(t, b1, r.Leaf)
		assert.Equal(t, viewer.InvalidNode, r.Node)
	}
	assert.Len(t, p.Failed(), 2)
	after := fx.instances()
	assert.Equal(t, []int{before[0] + 2, before[1] + 2}, after)
	assert.Equal(t, 2, fx.registry.NumLinks(fx.views[1]))
}

func TestClickAndDrag(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	op := NewInstance(fx.registry)
	placed := make(chan *Placement, 4)
	op.OnPlaced = func(p *Placement, err error) {
		assert.NoError(t, err)
		placed <- p
	}
	stack := NewStack(ctx)
	stack.Push(op)
	op.SetNodesToInstance(ctx, []viewer.NodeID{fx.node(t, "nodeA")})
	before := fx.instances()

	stack.HandleEvent(events.NewMouseDown(plateClick))
	assert.Equal(t, Pending, op.State())
	stack.HandleEvent(events.NewMouseUp(plateClick.Add(image.Pt(5, 0))))
	assert.Equal(t, Idle, op.State())
	op.Wait()
	assert.Equal(t, before, fx.instances())
	assert.Empty(t, placed)

	// an up without a down is not a click
	stack.HandleEvent(events.NewMouseUp(plateClick))
	op.Wait()
	assert.Empty(t, placed)

	stack.HandleEvent(events.NewMouseDown(plateClick))
	up := events.NewMouseUp(plateClick)
	stack.HandleEvent(up)
	assert.True(t, up.IsHandled())
	op.Wait()
	require.Len(t, placed, 1)
	p := <-placed
	assert.Len(t, p.Requests, 2)
	assert.Equal(t, []int{before[0] + 1, before[1] + 1}, fx.instances())
}

func TestIgnoredEvents(t *testing.T) {
	fx := newFixture(t, 0)
	op := NewInstance(fx.registry)
	op.Activate(context.Background())
	evs := []events.Event{
		events.NewMouse(events.MouseMove, events.NoButton, plateClick, 0),
		events.NewMouse(events.MouseDrag, events.Left, plateClick, 0),
		events.NewScroll(plateClick, math32.Vec2(0, 1), 0),
		events.NewKey(events.KeyDown, 'a', 0),
		events.NewKey(events.KeyUp, 'a', 0),
		events.NewTouch(events.TouchStart, 0, plateClick),
		events.NewTouch(events.TouchEnd, 0, plateClick),
	}
	for _, e := range evs {
		op.HandleEvent(e)
		assert.False(t, e.IsHandled(), e.String())
		assert.Equal(t, Idle, op.State())
	}
	op.Wait()
	assert.Equal(t, 1, fx.main().Instances())
}

func TestDeactivate(t *testing.T) {
	fx := newFixture(t, 0)
	ctx := context.Background()
	op := NewInstance(fx.registry)
	a := fx.node(t, "nodeA")
	stack := NewStack(ctx)
	stack.Push(op)
	op.SetNodesToInstance(ctx, []viewer.NodeID{a})

	stack.HandleEvent(events.NewMouseDown(plateClick))
	assert.Equal(t, Pending, op.State())
	assert.True(t, stack.Remove(op))
	assert.Equal(t, Idle, op.State())
	assert.Equal(t, []viewer.NodeID{a}, op.Leaves())
	assert.Equal(t, []viewer.NodeID{a}, op.Nodes())
}

func TestDeactivateCancelsInFlight(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()
	entered := make(chan struct{}, 2)
	for _, vw := range fx.views[1:] {
		vw.Store.Hooks.CreateMeshInstance = func(ctx context.Context, data viewer.MeshInstanceData) error {
			entered <- struct{}{}
			<-ctx.Done()
			return ctx.Err()
		}
	}
	op := NewInstance(fx.registry)
	var (
		mu     sync.Mutex
		result *Placement
		rerr   error
	)
	op.OnPlaced = func(p *Placement, err error) {
		mu.Lock()
		result, rerr = p, err
		mu.Unlock()
	}
	stack := NewStack(ctx)
	stack.Push(op)
	op.SetNodesToInstance(ctx, []viewer.NodeID{fx.node(t, "nodeA")})

	stack.HandleEvent(events.NewMouseDown(plateClick))
	stack.HandleEvent(events.NewMouseUp(plateClick))
	<-entered
	<-entered
	stack.Remove(op)
	op.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, rerr, context.Canceled)
	require.NotNil(t, result)
	failed := result.Failed()
	require.Len(t, failed, 2)
	for _, r := range failed {
		assert.True(t, slices.Contains([]viewer.View{fx.views[1], fx.views[2]}, r.View))
	}
	assert.Equal(t, 1, fx.views[1].Store.Instances())
	assert.Equal(t, 1, fx.views[2].Store.Instances())
}
