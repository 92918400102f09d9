// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewsync keeps a primary view and any number of attached
// views showing the same logical scene consistent. A [Registry] has
// fixed membership, tracks whether the attached views are out of date,
// and knows which node of each attached view corresponds to a node of
// the primary view.
package viewsync

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"cogentcore.org/xyzsync/base/errors"
	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
)

// Registry tracks one primary view and the ordered attached views that
// mirror it. Node ids are never shared between views: the registry
// holds an explicit link table from primary nodes to their counterparts.
type Registry struct {
	primary  viewer.View
	attached []viewer.View

	// gen counts the changes marked dirty, and synced is the last
	// generation propagated to the attached views. The views are out
	// of date while synced is behind gen.
	gen    atomic.Uint64
	synced atomic.Uint64

	mu    sync.RWMutex
	links map[viewer.View]map[viewer.NodeID]viewer.NodeID
}

// New returns a new registry for the given primary and attached views,
// in the order given. Membership can not change afterwards.
func New(primary viewer.View, attached ...viewer.View) *Registry {
	r := &Registry{
		primary:  primary,
		attached: slices.Clone(attached),
		links:    map[viewer.View]map[viewer.NodeID]viewer.NodeID{},
	}
	for _, vw := range r.attached {
		r.links[vw] = map[viewer.NodeID]viewer.NodeID{}
	}
	return r
}

// Primary returns the primary view.
func (r *Registry) Primary() viewer.View {
	return r.primary
}

// Attached returns the attached views in registration order.
func (r *Registry) Attached() []viewer.View {
	return slices.Clone(r.attached)
}

// Views returns the primary view followed by the attached views.
func (r *Registry) Views() []viewer.View {
	return append([]viewer.View{r.primary}, r.attached...)
}

// MarkDirty sets whether the attached views need to be synchronized
// with the primary view. It is safe to call from any goroutine.
func (r *Registry) MarkDirty(dirty bool) {
	if dirty {
		r.gen.Add(1)
		return
	}
	r.markSynced(r.gen.Load())
}

// Dirty returns whether the attached views need to be synchronized.
func (r *Registry) Dirty() bool {
	return r.synced.Load() < r.gen.Load()
}

// markSynced records that every change up to generation g has been
// propagated. It never moves synced backwards.
func (r *Registry) markSynced(g uint64) {
	for {
		s := r.synced.Load()
		if s >= g || r.synced.CompareAndSwap(s, g) {
			return
		}
	}
}

func (r *Registry) isAttached(vw viewer.View) bool {
	_, ok := r.links[vw]
	return ok
}

// Link records that the given node of the given attached view
// corresponds to the given node of the primary view.
func (r *Registry) Link(primary viewer.NodeID, vw viewer.View, node viewer.NodeID) error {
	if !r.isAttached(vw) {
		return fmt.Errorf("viewsync.Link: view %q is not attached", vw.Name())
	}
	r.mu.Lock()
	r.links[vw][primary] = node
	r.mu.Unlock()
	return nil
}

// Linked returns the node of the given attached view that corresponds
// to the given primary node, if one has been linked.
func (r *Registry) Linked(vw viewer.View, primary viewer.NodeID) (viewer.NodeID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	node, ok := r.links[vw][primary]
	if !ok {
		return viewer.InvalidNode, false
	}
	return node, true
}

// NumLinks returns the number of primary nodes linked in the given view.
func (r *Registry) NumLinks(vw viewer.View) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.links[vw])
}

// Lookup returns the node of the given attached view that corresponds to
// the given primary node. Without a recorded link, it searches the view
// for a node with the same [StructuralKey] and links it when exactly one
// matches.
func (r *Registry) Lookup(ctx context.Context, vw viewer.View, primary viewer.NodeID) (viewer.NodeID, error) {
	if node, ok := r.Linked(vw, primary); ok {
		return node, nil
	}
	if !r.isAttached(vw) {
		return viewer.InvalidNode, fmt.Errorf("viewsync.Lookup: view %q is not attached", vw.Name())
	}
	key, err := KeyOf(ctx, r.primary.Model(), primary)
	if err != nil {
		return viewer.InvalidNode, err
	}
	matches, err := FindByKey(ctx, vw.Model(), key)
	if err != nil {
		return viewer.InvalidNode, err
	}
	if len(matches) != 1 {
		return viewer.InvalidNode, fmt.Errorf("viewsync.Lookup: %d nodes in view %q match %v", len(matches), vw.Name(), key)
	}
	errors.Log(r.Link(primary, vw, matches[0]))
	return matches[0], nil
}

// SyncNodeTransforms copies the local matrix of every linked primary
// node onto its counterpart in each attached view. The dirty flag is
// cleared only when every copy succeeded, and stays set if another
// change was marked during the pass; failures are joined.
func (r *Registry) SyncNodeTransforms(ctx context.Context) error {
	start := r.gen.Load()
	pm := r.primary.Model()
	var errs []error
	n := 0
	for _, vw := range r.attached {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.mu.RLock()
		links := make(map[viewer.NodeID]viewer.NodeID, len(r.links[vw]))
		for p, a := range r.links[vw] {
			links[p] = a
		}
		r.mu.RUnlock()

		am := vw.Model()
		for p, a := range links {
			if err := am.SetNodeMatrix(a, pm.NodeMatrix(p)); err != nil {
				errs = append(errs, fmt.Errorf("viewsync: view %q node %d: %w", vw.Name(), a, err))
				continue
			}
			n++
		}
	}
	syncedNodes.Add(float64(n))
	if len(errs) > 0 {
		syncPasses.WithLabelValues("failed").Inc()
		return errors.Join(errs...)
	}
	syncPasses.WithLabelValues("ok").Inc()
	r.markSynced(start)
	slog.Debug("viewsync: synchronized node transforms", "nodes", n, "views", len(r.attached))
	return nil
}

// StructuralKey identifies a node by its content rather than its id,
// so that the same logical node can be found in another view.
type StructuralKey struct {
	Mesh   viewer.MeshID
	Matrix math32.Matrix4
}

func (k StructuralKey) String() string {
	return fmt.Sprintf("{Mesh: %s, Translation: %v}", k.Mesh, k.Matrix.Translation())
}

// KeyOf returns the [StructuralKey] of the given node.
func KeyOf(ctx context.Context, m viewer.Model, node viewer.NodeID) (StructuralKey, error) {
	ids, err := m.MeshIDs(ctx, []viewer.NodeID{node})
	if err != nil {
		return StructuralKey{}, err
	}
	return StructuralKey{Mesh: ids[0], Matrix: m.NodeNetMatrix(node)}, nil
}

// FindByKey returns all nodes of the given model matching the given key,
// with matrices compared within [math32.Tolerance].
func FindByKey(ctx context.Context, m viewer.Model, key StructuralKey) ([]viewer.NodeID, error) {
	var matches []viewer.NodeID
	queue := []viewer.NodeID{m.RootNode()}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nodes := queue
		queue = nil
		ids, err := m.MeshIDs(ctx, nodes)
		if err != nil {
			return nil, err
		}
		for i, n := range nodes {
			if ids[i] == key.Mesh && m.NodeNetMatrix(n).IsEqualTol(key.Matrix, math32.Tolerance) {
				matches = append(matches, n)
			}
			queue = append(queue, m.NodeChildren(n)...)
		}
	}
	return matches, nil
}
