// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memview

import (
	"context"
	"fmt"
	"image/color"
	"io/fs"
	"path"
	"strings"

	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ModelFile is the YAML representation of a model loaded
// by [Store.LoadSubtree].
type ModelFile struct {
	Name   string     `yaml:"name"`
	Meshes []MeshFile `yaml:"meshes"`
	Nodes  []NodeFile `yaml:"nodes"`
}

// MeshFile is a box shaped mesh given by its extent.
type MeshFile struct {
	Name string     `yaml:"name"`
	Min  [3]float32 `yaml:"min"`
	Max  [3]float32 `yaml:"max"`
}

// NodeFile is one node of a [ModelFile].
type NodeFile struct {
	Name string `yaml:"name"`

	// Mesh is the name of a mesh in the same file.
	Mesh string `yaml:"mesh,omitempty"`

	// Color is a hex face color such as "#ff8800".
	Color string `yaml:"color,omitempty"`

	Translate [3]float32 `yaml:"translate,omitempty"`

	// RotateZ is the rotation around Z in degrees.
	RotateZ float32 `yaml:"rotateZ,omitempty"`

	Scale *[3]float32 `yaml:"scale,omitempty"`

	Children []NodeFile `yaml:"children,omitempty"`
}

// Matrix returns the local matrix of the node: translate * rotate * scale.
func (nf *NodeFile) Matrix() math32.Matrix4 {
	m := math32.Translation4(nf.Translate[0], nf.Translate[1], nf.Translate[2])
	if nf.RotateZ != 0 {
		m = m.Mul(math32.RotationZ4(math32.DegToRad(nf.RotateZ)))
	}
	if nf.Scale != nil {
		m = m.Mul(math32.Scale4(nf.Scale[0], nf.Scale[1], nf.Scale[2]))
	}
	return m
}

// ParseColor parses a hex color string such as "#ff8800".
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// ReadModel reads the model of the given source name from fsys. A
// source without an extension is read from source + ".yaml".
func ReadModel(fsys fs.FS, source string) (*ModelFile, error) {
	fn := source
	if path.Ext(fn) == "" {
		fn += ".yaml"
	}
	b, err := fs.ReadFile(fsys, fn)
	if err != nil {
		return nil, err
	}
	mf := &ModelFile{}
	if err := yaml.Unmarshal(b, mf); err != nil {
		return nil, fmt.Errorf("memview.ReadModel: %s: %w", fn, err)
	}
	return mf, nil
}

// LoadSubtree reads the model of the given source name from [Store.Assets]
// and adds its nodes under the given parent. Meshes are created once per
// source, so loading the same model again instances the same meshes.
func (st *Store) LoadSubtree(ctx context.Context, parent viewer.NodeID, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if st.Assets == nil {
		return fmt.Errorf("memview.LoadSubtree: no assets to load %q from", source)
	}
	mf, err := ReadModel(st.Assets, source)
	if err != nil {
		return err
	}
	return st.AddModel(parent, source, mf)
}

// AddModel adds the nodes of the given model under the given parent,
// creating its meshes on first use of the source name.
func (st *Store) AddModel(parent viewer.NodeID, source string, mf *ModelFile) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.nodes[parent]; !ok {
		return fmt.Errorf("memview.AddModel: parent %w: %d", ErrNodeNotFound, parent)
	}
	source = strings.TrimSuffix(source, path.Ext(source))
	meshes, ok := st.loaded[source]
	if !ok {
		meshes = map[string]viewer.MeshID{}
		for _, mfl := range mf.Meshes {
			corners := math32.B3(mfl.Min[0], mfl.Min[1], mfl.Min[2], mfl.Max[0], mfl.Max[1], mfl.Max[2]).Corners()
			meshes[mfl.Name] = st.createMeshLocked(viewer.MeshData{Name: mfl.Name, Positions: corners[:]})
		}
		st.loaded[source] = meshes
	}
	for i := range mf.Nodes {
		if err := st.addNodeFileLocked(parent, &mf.Nodes[i], meshes); err != nil {
			return err
		}
	}
	return nil
}

func (st *Store) addNodeFileLocked(parent viewer.NodeID, nf *NodeFile, meshes map[string]viewer.MeshID) error {
	id := st.addNodeLocked(parent, nf.Name)
	nd := st.nodes[id]
	nd.Matrix = nf.Matrix()
	if nf.Mesh != "" {
		ms, ok := meshes[nf.Mesh]
		if !ok {
			return fmt.Errorf("memview: node %q uses %w: %q", nf.Name, ErrMeshNotFound, nf.Mesh)
		}
		nd.Mesh = ms
	}
	if nf.Color != "" {
		clr, err := ParseColor(nf.Color)
		if err != nil {
			return fmt.Errorf("memview: node %q color: %w", nf.Name, err)
		}
		nd.FaceColor = &clr
	}
	for i := range nf.Children {
		if err := st.addNodeFileLocked(id, &nf.Children[i], meshes); err != nil {
			return err
		}
	}
	return nil
}
