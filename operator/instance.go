// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"cogentcore.org/xyzsync/base/errors"
	"cogentcore.org/xyzsync/events"
	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
	"cogentcore.org/xyzsync/viewsync"
	"golang.org/x/sync/errgroup"
)

// DefaultSurfaceName is the name of the node instances are placed on.
const DefaultSurfaceName = "printingPlane"

// RejectMessage is the alert shown for clicks off the build surface.
const RejectMessage = "Please select a point on the Printing Plane"

// States are the interaction states of the [Instance] operator.
type States int32 //enums:enum

const (
	// Idle means no pointer is down.
	Idle States = iota

	// Pending means the pointer went down and the operator
	// is waiting for it to come up.
	Pending
)

func (st States) String() string {
	if st == Pending {
		return "Pending"
	}
	return "Idle"
}

// leafSet is the result of one [Instance.SetNodesToInstance] call.
// It is never changed after ready is closed.
type leafSet struct {
	leaves  []viewer.NodeID
	ready   chan struct{}
	zOffset float32
	err     error
}

// Instance is the operator that places copies of the selected geometry
// on the build surface of the primary view with a click, creating the
// same instances in every view of the registry.
type Instance struct {

	// SurfaceName is the name of the only node instances can be
	// placed on; [DefaultSurfaceName] if empty.
	SurfaceName string

	// MaxRequests limits the number of concurrent creation requests
	// of one placement; zero means no limit.
	MaxRequests int

	// Alert reports a rejected placement to the user.
	// Rejections are logged as warnings if it is nil.
	Alert func(msg string)

	// OnPlaced is called from the placement goroutine with
	// the result of every click placement.
	OnPlaced func(p *Placement, err error)

	registry *viewsync.Registry

	mu     sync.Mutex
	state  States
	down   image.Point
	nodes  []viewer.NodeID
	leaves *leafSet
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Operator = (*Instance)(nil)

// NewInstance returns a new instance operator for the given registry.
func NewInstance(reg *viewsync.Registry) *Instance {
	op := &Instance{registry: reg}
	op.leaves = op.emptyLeafSet()
	return op
}

func (op *Instance) emptyLeafSet() *leafSet {
	ls := &leafSet{ready: make(chan struct{})}
	close(ls.ready)
	return ls
}

func (op *Instance) Name() string {
	return "instance"
}

func (op *Instance) surfaceName() string {
	if op.SurfaceName == "" {
		return DefaultSurfaceName
	}
	return op.SurfaceName
}

// State returns the current interaction state.
func (op *Instance) State() States {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.state
}

// Nodes returns the nodes most recently set to be instanced.
func (op *Instance) Nodes() []viewer.NodeID {
	op.mu.Lock()
	defer op.mu.Unlock()
	return append([]viewer.NodeID(nil), op.nodes...)
}

// Leaves returns the leaf nodes that are instanced by a placement.
func (op *Instance) Leaves() []viewer.NodeID {
	op.mu.Lock()
	defer op.mu.Unlock()
	return append([]viewer.NodeID(nil), op.leaves.leaves...)
}

// SetNodesToInstance replaces the nodes to instance with the given ones.
// It gathers their leaves in the primary view and starts fetching the
// combined bounding box of the leaves, whose height becomes the Z offset
// of the instances. Placements wait for the fetch to complete.
func (op *Instance) SetNodesToInstance(ctx context.Context, nodes []viewer.NodeID) {
	model := op.registry.Primary().Model()
	ls := &leafSet{leaves: GatherLeaves(model, nodes), ready: make(chan struct{})}

	op.mu.Lock()
	op.nodes = append([]viewer.NodeID(nil), nodes...)
	op.leaves = ls
	op.mu.Unlock()

	if len(ls.leaves) == 0 {
		close(ls.ready)
		return
	}
	op.wg.Add(1)
	go func() {
		defer op.wg.Done()
		defer close(ls.ready)
		bb, err := model.NodesBounding(ctx, ls.leaves)
		if err != nil {
			ls.err = errors.Log(fmt.Errorf("operator.Instance: bounding box of %d leaves: %w", len(ls.leaves), err))
			return
		}
		ls.zOffset = bb.Height()
	}()
}

// ZOffset waits for the bounding box fetch started by the last
// [Instance.SetNodesToInstance] call and returns the Z offset.
func (op *Instance) ZOffset(ctx context.Context) (float32, error) {
	ls, err := op.waitLeaves(ctx)
	if err != nil {
		return 0, err
	}
	return ls.zOffset, nil
}

func (op *Instance) waitLeaves(ctx context.Context) (*leafSet, error) {
	op.mu.Lock()
	ls := op.leaves
	op.mu.Unlock()
	select {
	case <-ls.ready:
		return ls, ls.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (op *Instance) Activate(ctx context.Context) {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.ctx, op.cancel = context.WithCancel(ctx)
}

// Deactivate resets the interaction state and cancels placements in
// progress. The nodes to instance are kept, so the operator can be
// activated again without setting them.
func (op *Instance) Deactivate() {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.state = Idle
	if op.cancel != nil {
		op.cancel()
		op.cancel = nil
	}
}

// Wait blocks until all placements and bounding box fetches
// in progress have completed.
func (op *Instance) Wait() {
	op.wg.Wait()
}

func (op *Instance) HandleEvent(e events.Event) {
	switch e.Type() {
	case events.MouseDown:
		op.mu.Lock()
		op.down = e.Pos()
		op.state = Pending
		op.mu.Unlock()
	case events.MouseUp:
		op.mu.Lock()
		click := op.state == Pending && e.Pos() == op.down
		op.state = Idle
		ctx := op.ctx
		op.mu.Unlock()
		if !click {
			return
		}
		e.SetHandled()
		if ctx == nil {
			ctx = context.Background()
		}
		op.startPlacement(ctx, e.Pos())
	}
}

func (op *Instance) startPlacement(ctx context.Context, where image.Point) {
	op.wg.Add(1)
	go func() {
		defer op.wg.Done()
		p, err := op.Place(ctx, where)
		if op.OnPlaced != nil {
			op.OnPlaced(p, err)
		}
	}()
}

func (op *Instance) alert(msg string) {
	if op.Alert != nil {
		op.Alert(msg)
		return
	}
	slog.Warn(msg)
}

// Place runs the placement pipeline for a click at the given position of
// the primary view: the click must hit the build surface, and then every
// leaf is instanced in every view at the picked point. Requests for
// different views are independent; the returned placement holds the
// outcome of each, and a [*ReplicationError] is returned if any failed.
func (op *Instance) Place(ctx context.Context, where image.Point) (*Placement, error) {
	main := op.registry.Primary()
	sel, err := main.PickFromPoint(ctx, where, viewer.PickConfig{Mask: viewer.FaceMask})
	if err != nil {
		return nil, errors.Log(fmt.Errorf("operator.Instance: pick at %v: %w", where, err))
	}
	if !sel.IsEntitySelection() || main.Model().NodeName(sel.Node) != op.surfaceName() {
		placements.WithLabelValues("rejected").Inc()
		op.alert(RejectMessage)
		return nil, ErrInvalidSurface
	}
	return op.insertGeometry(ctx, sel.Position)
}

func (op *Instance) insertGeometry(ctx context.Context, pt math32.Vector3) (*Placement, error) {
	p := newPlacement(pt)
	ls, err := op.waitLeaves(ctx)
	if err != nil {
		return p, err
	}
	p.ZOffset = ls.zOffset
	if len(ls.leaves) == 0 {
		return p, nil
	}

	model := op.registry.Primary().Model()
	meshes, err := model.MeshIDs(ctx, ls.leaves)
	if err != nil {
		return p, errors.Log(fmt.Errorf("operator.Instance: mesh ids: %w", err))
	}
	name := instanceName(ls.leaves)
	views := op.registry.Views()
	for i, leaf := range ls.leaves {
		if meshes[i] == "" {
			slog.Debug("operator.Instance: skipping leaf without mesh", "leaf", leaf)
			continue
		}
		m := model.NodeNetMatrix(leaf)
		m.SetTranslation(pt.X, pt.Y, ls.zOffset)
		data := viewer.MeshInstanceData{
			Mesh:      meshes[i],
			Matrix:    m,
			Name:      name,
			LineColor: color.RGBA{0, 0, 0, 255},
		}
		clr, err := model.NodeEffectiveFaceColor(ctx, leaf)
		if err != nil {
			err = fmt.Errorf("operator.Instance: face color of %d: %w", leaf, err)
		}
		data.FaceColor = clr
		for _, vw := range views {
			p.Requests = append(p.Requests, &Request{View: vw, Leaf: leaf, Data: data, Node: viewer.InvalidNode, Err: err})
		}
	}

	start := time.Now()
	var g errgroup.Group
	if op.MaxRequests > 0 {
		g.SetLimit(op.MaxRequests)
	}
	for _, r := range p.Requests {
		if r.Err != nil {
			instanceRequests.WithLabelValues(r.View.Name(), "failed").Inc()
			continue
		}
		g.Go(func() error {
			node, err := r.View.Model().CreateMeshInstance(ctx, r.Data)
			if err != nil {
				r.Err = err
				instanceRequests.WithLabelValues(r.View.Name(), "failed").Inc()
				return nil
			}
			r.Node = node
			instanceRequests.WithLabelValues(r.View.Name(), "created").Inc()
			op.registry.MarkDirty(true)
			return nil
		})
	}
	g.Wait()
	placementDuration.Observe(time.Since(start).Seconds())
	op.link(p)

	slog.Info("operator.Instance: placed", "placement", p.ID, "point", pt, "created", p.Created(), "requests", len(p.Requests))
	if err := p.Err(); err != nil {
		placements.WithLabelValues("partial").Inc()
		return p, errors.Log(err)
	}
	placements.WithLabelValues("placed").Inc()
	return p, nil
}

// link records the instances created in the attached views as the
// counterparts of the instance created in the primary view.
func (op *Instance) link(p *Placement) {
	main := op.registry.Primary()
	primary := map[viewer.NodeID]viewer.NodeID{}
	for _, r := range p.Requests {
		if r.View == main && r.Err == nil {
			primary[r.Leaf] = r.Node
		}
	}
	for _, r := range p.Requests {
		if r.View == main || r.Err != nil {
			continue
		}
		if pn, ok := primary[r.Leaf]; ok {
			errors.Log(op.registry.Link(pn, r.View, r.Node))
		}
	}
}

func instanceName(leaves []viewer.NodeID) string {
	ids := make([]string, len(leaves))
	for i, l := range leaves {
		ids[i] = strconv.Itoa(int(l))
	}
	return "Node " + strings.Join(ids, ",") + " Instance"
}
