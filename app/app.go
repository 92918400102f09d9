// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app is the application shell of a sync session. It owns the
// registry of views and the operator stack of the primary view, loads
// models into every view, and switches between selecting, transforming
// and instancing.
//
// App methods are called from the single interaction goroutine that
// also delivers events.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"cogentcore.org/xyzsync/base/errors"
	"cogentcore.org/xyzsync/buildplate"
	"cogentcore.org/xyzsync/config"
	"cogentcore.org/xyzsync/events"
	"cogentcore.org/xyzsync/operator"
	"cogentcore.org/xyzsync/viewer"
	"cogentcore.org/xyzsync/viewsync"
	"golang.org/x/sync/errgroup"
)

// Modes are the interaction modes of an [App].
type Modes int32 //enums:enum

const (
	// Selecting is the default mode, selecting nodes by clicking them.
	Selecting Modes = iota

	// Transforming shows transform handles on the selected nodes.
	Transforming

	// Instancing places copies of the selected nodes on the build
	// surface with each click.
	Instancing
)

func (md Modes) String() string {
	switch md {
	case Transforming:
		return "Transforming"
	case Instancing:
		return "Instancing"
	}
	return "Selecting"
}

// SelectMessage is the alert shown when an action requires a selection.
const SelectMessage = "Please select the nodes first"

// App is a sync session over a primary view and its attached views.
type App struct {

	// Config is the configuration of the session.
	Config *config.Config

	// Alert shows a message to the user.
	// Messages are logged as warnings if it is nil.
	Alert func(msg string)

	// OnPlaced is called with the result of every placement
	// in instancing mode, from the placement goroutine.
	OnPlaced func(p *operator.Placement, err error)

	registry  *viewsync.Registry
	stack     *operator.Stack
	selecter  *operator.Select
	instancer *operator.Instance
	transform *operator.Transform
	plates    map[viewer.View]*buildplate.Plate
	models    []viewer.NodeID
	mode      Modes
}

// New returns a new app for the given views, in selecting mode.
// The default configuration is used if cfg is nil.
func New(cfg *config.Config, primary viewer.View, attached ...viewer.View) *App {
	if cfg == nil {
		cfg = config.Defaults()
	}
	a := &App{Config: cfg, plates: map[viewer.View]*buildplate.Plate{}}
	a.registry = viewsync.New(primary, attached...)
	a.stack = operator.NewStack(context.Background())

	a.selecter = operator.NewSelect(primary)
	a.selecter.SurfaceName = cfg.SurfaceName

	a.instancer = operator.NewInstance(a.registry)
	a.instancer.SurfaceName = cfg.SurfaceName
	a.instancer.MaxRequests = cfg.MaxConcurrentRequests
	a.instancer.Alert = a.alert
	a.instancer.OnPlaced = a.placed

	a.transform = operator.NewTransform(a.registry)
	a.transform.SurfaceName = cfg.SurfaceName

	a.stack.Push(a.selecter)
	return a
}

// Registry returns the registry of the views.
func (a *App) Registry() *viewsync.Registry {
	return a.registry
}

// Stack returns the operator stack of the primary view.
func (a *App) Stack() *operator.Stack {
	return a.stack
}

// Mode returns the current interaction mode.
func (a *App) Mode() Modes {
	return a.mode
}

// Selection returns the selected nodes of the primary view.
func (a *App) Selection() []viewer.NodeID {
	return a.selecter.Selection()
}

// SetSelection replaces the selection.
func (a *App) SetSelection(nodes []viewer.NodeID) {
	a.selecter.SetSelection(nodes)
}

// Handles returns the nodes with transform handles.
func (a *App) Handles() []viewer.NodeID {
	return a.transform.Handles()
}

// Plate returns the build plate of the given view,
// or nil before [App.Setup].
func (a *App) Plate(vw viewer.View) *buildplate.Plate {
	return a.plates[vw]
}

// Models returns the model nodes of the primary view, in load order.
func (a *App) Models() []viewer.NodeID {
	return append([]viewer.NodeID(nil), a.models...)
}

func (a *App) alert(msg string) {
	if a.Alert != nil {
		a.Alert(msg)
		return
	}
	slog.Warn(msg)
}

func (a *App) placed(p *operator.Placement, err error) {
	if a.OnPlaced != nil {
		a.OnPlaced(p, err)
	}
}

// Setup creates the build plate in every view.
func (a *App) Setup(ctx context.Context) error {
	views := a.registry.Views()
	plates := make([]*buildplate.Plate, len(views))
	g, ctx := errgroup.WithContext(ctx)
	for i, vw := range views {
		g.Go(func() error {
			pl, err := buildplate.New(ctx, vw, a.Config.SurfaceName, a.Config.PlaneSize, a.Config.PlaneThickness)
			plates[i] = pl
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Log(fmt.Errorf("app.Setup: %w", err))
	}
	for i, vw := range views {
		a.plates[vw] = plates[i]
	}
	return nil
}

// LoadModel loads the model of the given source into every view, under
// a new node named Model-N below the root. The model node is moved so
// that the bounding box of the model starts at the origin, and the new
// subtrees are linked to the one in the primary view. It returns the
// model node of the primary view.
func (a *App) LoadModel(ctx context.Context, source string) (viewer.NodeID, error) {
	name := fmt.Sprintf("Model-%d", len(a.models)+1)
	views := a.registry.Views()
	roots := make([]viewer.NodeID, len(views))
	g, gctx := errgroup.WithContext(ctx)
	for i, vw := range views {
		g.Go(func() error {
			node, err := loadInto(gctx, vw, name, source)
			roots[i] = node
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return viewer.InvalidNode, errors.Log(fmt.Errorf("app.LoadModel %q: %w", source, err))
	}

	attached := map[viewer.View]viewer.NodeID{}
	for i, vw := range views[1:] {
		attached[vw] = roots[i+1]
	}
	counts, err := a.registry.LinkSubtrees(ctx, roots[0], attached)
	if err != nil {
		return viewer.InvalidNode, errors.Log(fmt.Errorf("app.LoadModel %q: %w", source, err))
	}
	a.models = append(a.models, roots[0])
	for vw, n := range counts {
		slog.Debug("app: linked model", "model", name, "view", vw.Name(), "nodes", n)
	}
	slog.Info("app: loaded model", "model", name, "source", source, "views", len(views))
	return roots[0], nil
}

func loadInto(ctx context.Context, vw viewer.View, name, source string) (viewer.NodeID, error) {
	m := vw.Model()
	node, err := m.CreateNode(m.RootNode(), name)
	if err != nil {
		return viewer.InvalidNode, err
	}
	if err := m.LoadSubtree(ctx, node, source); err != nil {
		return node, fmt.Errorf("view %q: %w", vw.Name(), err)
	}
	bb, err := m.NodesBounding(ctx, []viewer.NodeID{node})
	if err != nil {
		return node, fmt.Errorf("view %q: %w", vw.Name(), err)
	}
	if bb.IsEmpty() {
		return node, nil
	}
	mat := m.NodeMatrix(node)
	tr := mat.Translation().Sub(bb.Min)
	mat.SetTranslation(tr.X, tr.Y, tr.Z)
	return node, m.SetNodeMatrix(node, mat)
}

// ToggleInstancing switches instancing mode on or off. Switching it on
// requires a selection, whose nodes are then instanced with each click
// on the build surface. Switching it off clears the selection and
// returns to selecting mode.
func (a *App) ToggleInstancing(ctx context.Context) error {
	if a.mode == Instancing {
		a.selecter.Clear()
		a.stack.Remove(a.instancer)
		a.stack.Push(a.selecter)
		a.setMode(Selecting)
		return nil
	}
	sel := a.selecter.Selection()
	if len(sel) == 0 {
		a.alert(SelectMessage)
		return operator.ErrNoSelection
	}
	a.stack.Remove(a.transform)
	a.stack.Remove(a.selecter)
	a.instancer.SetNodesToInstance(ctx, sel)
	a.stack.Push(a.instancer)
	a.setMode(Instancing)
	return nil
}

// ShowHandles shows transform handles on the selected nodes, leaving
// instancing mode if needed.
func (a *App) ShowHandles() error {
	sel := a.selecter.Selection()
	if len(sel) == 0 {
		a.alert(SelectMessage)
		return operator.ErrNoSelection
	}
	a.stack.Remove(a.instancer)
	a.stack.Push(a.selecter)
	a.transform.AddHandles(sel)
	a.stack.Push(a.transform)
	a.setMode(Transforming)
	return nil
}

// HideHandles removes all transform handles and returns
// to selecting mode.
func (a *App) HideHandles() {
	if a.stack.Remove(a.transform) {
		a.setMode(Selecting)
	}
}

func (a *App) setMode(md Modes) {
	if md != a.mode {
		slog.Debug("app: mode", "from", a.mode, "to", md)
	}
	a.mode = md
}

// Arrange arranges the models on the build plate of the primary view
// and then moves them the same way in the attached views.
func (a *App) Arrange(ctx context.Context) error {
	if err := a.transform.Arrange(ctx, a.Config.PlaneSize); err != nil {
		return errors.Log(fmt.Errorf("app.Arrange: %w", err))
	}
	return a.Sync(ctx)
}

// Sync copies node transforms of the primary view to the attached
// views if they have changed since the last sync.
func (a *App) Sync(ctx context.Context) error {
	if !a.registry.Dirty() {
		return nil
	}
	return errors.Log(a.registry.SyncNodeTransforms(ctx))
}

// HandleEvent sends the given event to the operators
// of the primary view.
func (a *App) HandleEvent(e events.Event) {
	a.stack.HandleEvent(e)
}

// Wait blocks until all picks and placements in progress are done.
func (a *App) Wait() {
	a.selecter.Wait()
	a.instancer.Wait()
}

// Close deactivates all operators, canceling placements in progress,
// and waits for them to finish.
func (a *App) Close() {
	a.stack.Close()
	a.Wait()
}
