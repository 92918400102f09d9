// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewsync

import (
	"context"
	"fmt"

	"cogentcore.org/xyzsync/viewer"
)

// LinkSubtrees links the subtree under the given primary node with the
// subtree under the corresponding root in each attached view, such as a
// model loaded into every view. Children are paired by name, in order
// among siblings of the same name; unpaired nodes are left unlinked.
// It returns the number of links made in each view.
func (r *Registry) LinkSubtrees(ctx context.Context, primary viewer.NodeID, roots map[viewer.View]viewer.NodeID) (map[viewer.View]int, error) {
	counts := map[viewer.View]int{}
	for vw, root := range roots {
		if !r.isAttached(vw) {
			return counts, fmt.Errorf("viewsync.LinkSubtrees: view %q is not attached", vw.Name())
		}
		n, err := r.linkPair(ctx, r.primary.Model(), primary, vw, root)
		counts[vw] = n
		if err != nil {
			return counts, err
		}
	}
	return counts, nil
}

type pair struct {
	primary, node viewer.NodeID
}

func (r *Registry) linkPair(ctx context.Context, pm viewer.Model, primary viewer.NodeID, vw viewer.View, root viewer.NodeID) (int, error) {
	am := vw.Model()
	n := 0
	queue := []pair{{primary, root}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		p := queue[0]
		queue = queue[1:]
		if err := r.Link(p.primary, vw, p.node); err != nil {
			return n, err
		}
		n++

		byName := map[string][]viewer.NodeID{}
		for _, k := range am.NodeChildren(p.node) {
			nm := am.NodeName(k)
			byName[nm] = append(byName[nm], k)
		}
		for _, k := range pm.NodeChildren(p.primary) {
			nm := pm.NodeName(k)
			cands := byName[nm]
			if len(cands) == 0 {
				continue
			}
			byName[nm] = cands[1:]
			queue = append(queue, pair{k, cands[0]})
		}
	}
	return n, nil
}
