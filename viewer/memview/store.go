// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memview is an in-memory implementation of the viewer
// interfaces: a model tree with meshes, inherited colors, top-down
// orthographic picking, and model loading from YAML files.
// It is safe for concurrent use.
package memview

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"slices"
	"sync"

	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
	"github.com/jinzhu/copier"
)

// ErrNodeNotFound is returned for node ids that do not exist in the store.
var ErrNodeNotFound = errors.New("node not found")

// ErrMeshNotFound is returned for mesh ids that do not exist in the store.
var ErrMeshNotFound = errors.New("mesh not found")

// Node is one node of the model tree.
type Node struct {
	ID       viewer.NodeID
	Parent   viewer.NodeID
	Name     string
	Children []viewer.NodeID

	// Matrix is the local matrix relative to the parent.
	Matrix math32.Matrix4

	// Mesh is the instanced mesh, empty for grouping nodes.
	Mesh viewer.MeshID

	// FaceColor is the face color of this node; nil means
	// the color is inherited from the nearest ancestor that has one.
	FaceColor *color.RGBA

	LineColor color.RGBA
}

// Mesh is stored mesh geometry.
type Mesh struct {
	ID     viewer.MeshID
	Name   string
	Bounds math32.Box3
}

// Hooks are optional functions called by the store, used to inject
// latency and failures.
type Hooks struct {

	// CreateMeshInstance is called before a mesh instance is created;
	// a non-nil error fails the creation without creating a node.
	CreateMeshInstance func(ctx context.Context, data viewer.MeshInstanceData) error

	// Pick is called before a pick query is resolved; a non-nil error
	// fails the pick.
	Pick func(ctx context.Context) error

	// FaceColor is called before the effective face color of a node
	// is resolved; a non-nil error fails the query.
	FaceColor func(ctx context.Context, node viewer.NodeID) error

	// SetNodeMatrix is called before the local matrix of a node is
	// set; a non-nil error fails the update.
	SetNodeMatrix func(node viewer.NodeID) error
}

// Store is an in-memory [viewer.Model].
type Store struct {

	// DefaultColor is the effective face color of nodes without
	// any colored ancestor.
	DefaultColor color.RGBA

	// Assets holds the model files read by [Store.LoadSubtree].
	Assets fs.FS

	// Hooks are the optional hooks.
	Hooks Hooks

	mu        sync.RWMutex
	nodes     map[viewer.NodeID]*Node
	meshes    map[viewer.MeshID]*Mesh
	nextNode  viewer.NodeID
	nextMesh  int
	root      viewer.NodeID
	loaded    map[string]map[string]viewer.MeshID
	instances int
}

var _ viewer.Model = (*Store)(nil)

// NewStore returns a new store holding only the root node.
func NewStore() *Store {
	st := &Store{
		DefaultColor: color.RGBA{204, 204, 204, 255},
		nodes:        map[viewer.NodeID]*Node{},
		meshes:       map[viewer.MeshID]*Mesh{},
		loaded:       map[string]map[string]viewer.MeshID{},
	}
	st.root = st.addNodeLocked(viewer.InvalidNode, "root")
	return st
}

func (st *Store) addNodeLocked(parent viewer.NodeID, name string) viewer.NodeID {
	id := st.nextNode
	st.nextNode++
	st.nodes[id] = &Node{ID: id, Parent: parent, Name: name, Matrix: math32.Identity4()}
	if pn, ok := st.nodes[parent]; ok {
		pn.Children = append(pn.Children, id)
	}
	return id
}

func (st *Store) RootNode() viewer.NodeID {
	return st.root
}

func (st *Store) NodeChildren(node viewer.NodeID) []viewer.NodeID {
	st.mu.RLock()
	defer st.mu.RUnlock()
	nd, ok := st.nodes[node]
	if !ok {
		return nil
	}
	return slices.Clone(nd.Children)
}

func (st *Store) NodeParent(node viewer.NodeID) viewer.NodeID {
	st.mu.RLock()
	defer st.mu.RUnlock()
	nd, ok := st.nodes[node]
	if !ok {
		return viewer.InvalidNode
	}
	return nd.Parent
}

func (st *Store) NodeName(node viewer.NodeID) string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	nd, ok := st.nodes[node]
	if !ok {
		return ""
	}
	return nd.Name
}

func (st *Store) NodeMatrix(node viewer.NodeID) math32.Matrix4 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	nd, ok := st.nodes[node]
	if !ok {
		return math32.Identity4()
	}
	return nd.Matrix
}

func (st *Store) NodeNetMatrix(node viewer.NodeID) math32.Matrix4 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.netMatrixLocked(node)
}

func (st *Store) netMatrixLocked(node viewer.NodeID) math32.Matrix4 {
	nd, ok := st.nodes[node]
	if !ok {
		return math32.Identity4()
	}
	if nd.Parent == viewer.InvalidNode {
		return nd.Matrix
	}
	return st.netMatrixLocked(nd.Parent).Mul(nd.Matrix)
}

func (st *Store) SetNodeMatrix(node viewer.NodeID, m math32.Matrix4) error {
	if st.Hooks.SetNodeMatrix != nil {
		if err := st.Hooks.SetNodeMatrix(node); err != nil {
			return err
		}
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	nd, ok := st.nodes[node]
	if !ok {
		return fmt.Errorf("memview.SetNodeMatrix: %w: %d", ErrNodeNotFound, node)
	}
	nd.Matrix = m
	return nil
}

// SetNodeFaceColor sets the face color of the given node, which is
// inherited by all of its descendants without their own color.
func (st *Store) SetNodeFaceColor(node viewer.NodeID, clr color.RGBA) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	nd, ok := st.nodes[node]
	if !ok {
		return fmt.Errorf("memview.SetNodeFaceColor: %w: %d", ErrNodeNotFound, node)
	}
	nd.FaceColor = &clr
	return nil
}

func (st *Store) CreateNode(parent viewer.NodeID, name string) (viewer.NodeID, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if parent == viewer.InvalidNode {
		parent = st.root
	}
	if _, ok := st.nodes[parent]; !ok {
		return viewer.InvalidNode, fmt.Errorf("memview.CreateNode: parent %w: %d", ErrNodeNotFound, parent)
	}
	return st.addNodeLocked(parent, name), nil
}

func (st *Store) NodesBounding(ctx context.Context, nodes []viewer.NodeID) (math32.Box3, error) {
	bb := math32.B3Empty()
	if err := ctx.Err(); err != nil {
		return bb, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, n := range nodes {
		if _, ok := st.nodes[n]; !ok {
			return bb, fmt.Errorf("memview.NodesBounding: %w: %d", ErrNodeNotFound, n)
		}
		st.expandBoundingLocked(&bb, n)
	}
	return bb, nil
}

func (st *Store) expandBoundingLocked(bb *math32.Box3, node viewer.NodeID) {
	nd := st.nodes[node]
	if ms, ok := st.meshes[nd.Mesh]; ok {
		bb.ExpandByBox(ms.Bounds.MulMatrix4(st.netMatrixLocked(node)))
	}
	for _, k := range nd.Children {
		st.expandBoundingLocked(bb, k)
	}
}

func (st *Store) MeshIDs(ctx context.Context, nodes []viewer.NodeID) ([]viewer.MeshID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	ids := make([]viewer.MeshID, len(nodes))
	for i, n := range nodes {
		nd, ok := st.nodes[n]
		if !ok {
			return nil, fmt.Errorf("memview.MeshIDs: %w: %d", ErrNodeNotFound, n)
		}
		ids[i] = nd.Mesh
	}
	return ids, nil
}

func (st *Store) NodeEffectiveFaceColor(ctx context.Context, node viewer.NodeID) (color.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return color.RGBA{}, err
	}
	if st.Hooks.FaceColor != nil {
		if err := st.Hooks.FaceColor(ctx, node); err != nil {
			return color.RGBA{}, err
		}
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	if _, ok := st.nodes[node]; !ok {
		return color.RGBA{}, fmt.Errorf("memview.NodeEffectiveFaceColor: %w: %d", ErrNodeNotFound, node)
	}
	for n := node; n != viewer.InvalidNode; {
		nd := st.nodes[n]
		if nd.FaceColor != nil {
			return *nd.FaceColor, nil
		}
		n = nd.Parent
	}
	return st.DefaultColor, nil
}

func (st *Store) CreateMesh(ctx context.Context, data viewer.MeshData) (viewer.MeshID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.createMeshLocked(data), nil
}

func (st *Store) createMeshLocked(data viewer.MeshData) viewer.MeshID {
	id := viewer.MeshID(fmt.Sprintf("mesh-%d", st.nextMesh))
	st.nextMesh++
	bb := math32.B3Empty()
	for _, p := range data.Positions {
		bb.ExpandByPoint(p)
	}
	st.meshes[id] = &Mesh{ID: id, Name: data.Name, Bounds: bb}
	return id
}

func (st *Store) CreateMeshInstance(ctx context.Context, data viewer.MeshInstanceData) (viewer.NodeID, error) {
	if st.Hooks.CreateMeshInstance != nil {
		if err := st.Hooks.CreateMeshInstance(ctx, data); err != nil {
			return viewer.InvalidNode, err
		}
	}
	if err := ctx.Err(); err != nil {
		return viewer.InvalidNode, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.meshes[data.Mesh]; !ok {
		return viewer.InvalidNode, fmt.Errorf("memview.CreateMeshInstance: %w: %q", ErrMeshNotFound, data.Mesh)
	}
	id := st.addNodeLocked(st.root, data.Name)
	nd := st.nodes[id]
	nd.Matrix = data.Matrix
	nd.Mesh = data.Mesh
	clr := data.FaceColor
	nd.FaceColor = &clr
	nd.LineColor = data.LineColor
	st.instances++
	return id, nil
}

// Instances returns the number of mesh instances created
// through [Store.CreateMeshInstance].
func (st *Store) Instances() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.instances
}

// FindNode returns the first node, in creation order, with the given name.
func (st *Store) FindNode(name string) (viewer.NodeID, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	found := viewer.InvalidNode
	for id, nd := range st.nodes {
		if nd.Name == name && (found == viewer.InvalidNode || id < found) {
			found = id
		}
	}
	return found, found != viewer.InvalidNode
}

// Snapshot returns a deep copy of all nodes, ordered by id.
func (st *Store) Snapshot() ([]Node, error) {
	st.mu.RLock()
	nodes := make([]*Node, 0, len(st.nodes))
	for _, nd := range st.nodes {
		nodes = append(nodes, nd)
	}
	var out []Node
	err := copier.CopyWithOption(&out, &nodes, copier.Option{DeepCopy: true})
	st.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b Node) int {
		return int(a.ID - b.ID)
	})
	return out, nil
}
