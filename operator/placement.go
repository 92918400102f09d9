// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"fmt"
	"strings"

	"cogentcore.org/xyzsync/base/errors"
	"cogentcore.org/xyzsync/math32"
	"cogentcore.org/xyzsync/viewer"
	"github.com/google/uuid"
)

// Request is one mesh instance creation request of a [Placement],
// destined for a single view.
type Request struct {

	// View is the view the instance is created in.
	View viewer.View

	// Leaf is the leaf node of the primary view being instanced.
	Leaf viewer.NodeID

	// Data is the instance data, identical for all views.
	Data viewer.MeshInstanceData

	// Node is the node created in View, or [viewer.InvalidNode]
	// if the request failed or has not completed.
	Node viewer.NodeID

	// Err is the error the request failed with, if any.
	Err error
}

// Placement is the result of one click on the build surface.
type Placement struct {

	// ID identifies the placement in logs.
	ID uuid.UUID

	// Point is the picked position on the build surface.
	Point math32.Vector3

	// ZOffset is the height of the instanced leaves, used as
	// the Z translation of every instance.
	ZOffset float32

	// Requests are the creation requests, grouped by leaf,
	// primary view first within each group.
	Requests []*Request
}

func newPlacement(pt math32.Vector3) *Placement {
	return &Placement{ID: uuid.New(), Point: pt}
}

// Failed returns the requests that failed.
func (p *Placement) Failed() []*Request {
	var failed []*Request
	for _, r := range p.Requests {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Created returns the number of nodes created.
func (p *Placement) Created() int {
	return len(p.Requests) - len(p.Failed())
}

// Err returns a [*ReplicationError] if any request failed.
func (p *Placement) Err() error {
	failed := p.Failed()
	if len(failed) == 0 {
		return nil
	}
	return &ReplicationError{Placement: p, Failed: failed}
}

// ReplicationError reports the requests of a placement that failed.
// Requests for other views are unaffected by these failures, so the
// views are left inconsistent until the placement is repeated.
type ReplicationError struct {
	Placement *Placement
	Failed    []*Request
}

func (e *ReplicationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "operator: placement %s: %d of %d instance requests failed", e.Placement.ID, len(e.Failed), len(e.Placement.Requests))
	for _, r := range e.Failed {
		fmt.Fprintf(&b, "; view %q leaf %d: %v", r.View.Name(), r.Leaf, r.Err)
	}
	return b.String()
}

func (e *ReplicationError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, r := range e.Failed {
		errs[i] = r.Err
	}
	return errs
}

var (
	// ErrInvalidSurface is returned for placements that do not
	// hit the build surface.
	ErrInvalidSurface = errors.New("operator: placement is not on the build surface")

	// ErrNoSelection is returned when an operation requires
	// selected nodes and there are none.
	ErrNoSelection = errors.New("operator: no nodes selected")
)
