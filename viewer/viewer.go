// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewer defines the capability surface of the 3D viewing
// engine that owns rendering, picking, and the model tree of each view.
// The synchronization and interaction packages only depend on these
// interfaces; [cogentcore.org/xyzsync/viewer/memview] provides an
// in-memory implementation.
//
// Calls that take a [context.Context] may be served asynchronously by
// the engine and must not be made from the interaction thread when
// blocking is not acceptable.
package viewer

import (
	"context"
	"image"
	"image/color"

	"cogentcore.org/xyzsync/math32"
)

// NodeID identifies a node in the model tree of one view. Node ids are
// issued independently by every view and are never valid in another view,
// even for the same logical object.
type NodeID int

// InvalidNode is the NodeID returned when no node applies.
const InvalidNode NodeID = -1

// MeshID identifies mesh geometry stored by the engine.
type MeshID string

// SelectionMask determines which kinds of entities a pick may return.
type SelectionMask int32

const (
	// FaceMask selects faces of solid geometry.
	FaceMask SelectionMask = 1 << iota

	// LineMask selects line geometry.
	LineMask

	// PointMask selects point geometry.
	PointMask

	// AllMask selects any kind of entity.
	AllMask = FaceMask | LineMask | PointMask
)

// HasFlag returns whether the given mask bits are all set.
func (m SelectionMask) HasFlag(f SelectionMask) bool {
	return m&f == f
}

// PickConfig configures a pick query.
type PickConfig struct {

	// Mask restricts the kinds of entities the pick may resolve to.
	Mask SelectionMask
}

// Selection is the result of a pick query.
type Selection struct {

	// Node is the node that was hit, or [InvalidNode].
	Node NodeID

	// Position is the 3D world position of the hit.
	Position math32.Vector3

	// Entity is the kind of entity that was hit, zero if the pick
	// only resolved to a node (or nothing at all).
	Entity SelectionMask
}

// IsEntitySelection returns whether the pick resolved to an actual
// entity (face, line or point) of a node, rather than nothing.
func (s Selection) IsEntitySelection() bool {
	return s.Entity != 0 && s.Node != InvalidNode
}

// MeshData describes the geometry of a new mesh.
type MeshData struct {

	// Name is an optional display name for the mesh.
	Name string

	// Positions are the vertex positions of the mesh.
	Positions []math32.Vector3
}

// MeshInstanceData is a request to create a new node instancing
// existing mesh geometry with its own transform and material.
type MeshInstanceData struct {

	// Mesh is the mesh being instanced.
	Mesh MeshID

	// Matrix is the transform of the new node.
	Matrix math32.Matrix4

	// Name is the display name of the new node.
	Name string

	// FaceColor is the face color of the new node.
	FaceColor color.RGBA

	// LineColor is the line color of the new node.
	LineColor color.RGBA
}

// Model is the model tree of one view.
type Model interface {

	// RootNode returns the absolute root node of the model tree.
	RootNode() NodeID

	// NodeChildren returns the children of the given node, in order.
	// A node with no children is a leaf.
	NodeChildren(node NodeID) []NodeID

	// NodeParent returns the parent of the given node,
	// or [InvalidNode] for the root.
	NodeParent(node NodeID) NodeID

	// NodeName returns the name of the given node.
	NodeName(node NodeID) string

	// NodeMatrix returns the local matrix of the given node.
	NodeMatrix(node NodeID) math32.Matrix4

	// NodeNetMatrix returns the world matrix of the given node,
	// which is the product of all local matrices from the root.
	NodeNetMatrix(node NodeID) math32.Matrix4

	// SetNodeMatrix sets the local matrix of the given node.
	SetNodeMatrix(node NodeID, m math32.Matrix4) error

	// CreateNode creates a new empty node with the given name under
	// the given parent, or under the root if parent is [InvalidNode].
	CreateNode(parent NodeID, name string) (NodeID, error)

	// NodesBounding returns the combined world bounding box of the
	// given nodes and their descendants.
	NodesBounding(ctx context.Context, nodes []NodeID) (math32.Box3, error)

	// MeshIDs returns the mesh of each of the given nodes,
	// in the same order.
	MeshIDs(ctx context.Context, nodes []NodeID) ([]MeshID, error)

	// NodeEffectiveFaceColor returns the face color the given node is
	// rendered with, taking inherited materials into account.
	NodeEffectiveFaceColor(ctx context.Context, node NodeID) (color.RGBA, error)

	// CreateMesh creates new mesh geometry.
	CreateMesh(ctx context.Context, data MeshData) (MeshID, error)

	// CreateMeshInstance creates a new node under the root
	// instancing the given mesh.
	CreateMeshInstance(ctx context.Context, data MeshInstanceData) (NodeID, error)

	// LoadSubtree loads the model stored under the given source name
	// as children of the given node.
	LoadSubtree(ctx context.Context, parent NodeID, source string) error
}

// View is one rendering surface bound to its own [Model]. Views are
// compared by identity; two views showing the same logical scene are
// still distinct.
type View interface {

	// Name returns the name of the view, for logging.
	Name() string

	// Model returns the model tree of the view.
	Model() Model

	// PickFromPoint resolves the given 2D surface position to the
	// closest entity under it.
	PickFromPoint(ctx context.Context, where image.Point, config PickConfig) (Selection, error)
}
