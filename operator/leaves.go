// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import "cogentcore.org/xyzsync/viewer"

// GatherLeaves returns the nodes without children among the given nodes
// and all of their descendants, in breadth-first order. Every node is
// visited once, so nodes given together with their ancestors (or trees
// sharing sub-trees) do not produce duplicate leaves.
func GatherLeaves(m viewer.Model, nodes []viewer.NodeID) []viewer.NodeID {
	queue := make([]viewer.NodeID, 0, len(nodes))
	queue = append(queue, nodes...)
	visited := make(map[viewer.NodeID]bool, len(nodes))
	var leaves []viewer.NodeID
	for i := 0; i < len(queue); i++ {
		n := queue[i]
		if visited[n] {
			continue
		}
		visited[n] = true
		kids := m.NodeChildren(n)
		if len(kids) == 0 {
			leaves = append(leaves, n)
			continue
		}
		queue = append(queue, kids...)
	}
	return leaves
}
