// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/xyzsync/base/errors"
	"cogentcore.org/xyzsync/base/logx"
	"cogentcore.org/xyzsync/events"
	"cogentcore.org/xyzsync/operator"
	"cogentcore.org/xyzsync/viewer"
	"cogentcore.org/xyzsync/viewer/memview"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlaceCommand(opts *options) *cobra.Command {
	var (
		selectNames []string
		at          []string
	)
	cmd := &cobra.Command{
		Use:   "place [model...]",
		Short: "Place instances of the selected nodes on the build plate",
		Long: `Place loads the models into every view, selects the named nodes of
the primary view and clicks each given point of the primary view in
instancing mode. Every placement creates the same instances in all views.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parsePoints(at)
			if err != nil {
				return err
			}
			s, err := opts.newSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer s.Close()
			var nodes []viewer.NodeID
			for _, nm := range selectNames {
				id, ok := s.views[0].Store.FindNode(nm)
				if !ok {
					return fmt.Errorf("no node named %q", nm)
				}
				nodes = append(nodes, id)
			}
			s.SetSelection(nodes)

			out := cmd.OutOrStdout()
			results := make(chan error, len(points))
			s.OnPlaced = func(p *operator.Placement, err error) {
				if p != nil {
					printPlacement(out, p, err)
				}
				results <- err
			}
			if err := s.ToggleInstancing(cmd.Context()); err != nil {
				return err
			}
			for _, pt := range points {
				s.HandleEvent(events.NewMouseDown(pt))
				s.HandleEvent(events.NewMouseUp(pt))
				// placements are reported in click order
				s.Wait()
			}
			close(results)
			var errs []error
			for err := range results {
				if err != nil {
					errs = append(errs, err)
				}
			}
			if err := s.Sync(cmd.Context()); err != nil {
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringSliceVarP(&selectNames, "select", "s", nil, "names of the nodes to instance")
	cmd.Flags().StringArrayVar(&at, "at", nil, "x,y position of a click in the primary view; repeatable")
	errors.Must(cmd.MarkFlagRequired("select"))
	return cmd
}

func parsePoints(at []string) ([]image.Point, error) {
	points := make([]image.Point, len(at))
	for i, s := range at {
		xs, ys, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q: want x,y", s)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", s, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", s, err)
		}
		points[i] = image.Pt(x, y)
	}
	return points, nil
}

func printPlacement(w io.Writer, p *operator.Placement, err error) {
	msg := fmt.Sprintf("placement %s at %v: %d of %d instances created", p.ID, p.Point, p.Created(), len(p.Requests))
	if err != nil {
		fmt.Fprintln(w, logx.ErrorColor(msg))
		var rerr *operator.ReplicationError
		if !errors.As(err, &rerr) {
			fmt.Fprintf(w, "  %v\n", err)
			return
		}
		for _, r := range rerr.Failed {
			fmt.Fprintf(w, "  %s: %v\n", r.View.Name(), r.Err)
		}
		return
	}
	fmt.Fprintln(w, logx.SuccessColor(msg))
}

func newArrangeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "arrange [model...]",
		Short: "Arrange the models on the build plate of every view",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Arrange(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, vw := range s.views {
				fmt.Fprintln(out, logx.SuccessColor(vw.Name()))
				st := vw.Store
				for _, n := range st.NodeChildren(st.RootNode()) {
					if st.NodeName(n) == opts.cfg.SurfaceName {
						continue
					}
					bb, err := st.NodesBounding(cmd.Context(), []viewer.NodeID{n})
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "  %s: %v - %v\n", st.NodeName(n), bb.Min, bb.Max)
				}
			}
			return nil
		},
	}
}

// treeNode is the printed form of a node.
type treeNode struct {
	Name        string     `yaml:"name"`
	Mesh        string     `yaml:"mesh,omitempty"`
	Translation [3]float32 `yaml:"translation,flow"`
	Children    []treeNode `yaml:"children,omitempty"`
}

func newTree(nodes map[viewer.NodeID]memview.Node, id viewer.NodeID) treeNode {
	nd := nodes[id]
	tr := nd.Matrix.Translation()
	tn := treeNode{Name: nd.Name, Mesh: string(nd.Mesh), Translation: [3]float32{tr.X, tr.Y, tr.Z}}
	for _, k := range nd.Children {
		tn.Children = append(tn.Children, newTree(nodes, k))
	}
	return tn
}

func newTreeCommand(opts *options) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "tree [model...]",
		Short: "Print the node tree of the views as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer s.Close()
			views := s.views
			if !all {
				views = views[:1]
			}
			trees := map[string]treeNode{}
			for _, vw := range views {
				snap, err := vw.Store.Snapshot()
				if err != nil {
					return err
				}
				nodes := map[viewer.NodeID]memview.Node{}
				for _, nd := range snap {
					nodes[nd.ID] = nd
				}
				trees[vw.Name()] = newTree(nodes, vw.Store.RootNode())
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(trees); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print all views instead of the primary view only")
	return cmd
}
