// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewsync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xyzsync_sync_passes_total",
			Help: "Total number of node transform sync passes by result",
		},
		[]string{"result"},
	)

	syncedNodes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xyzsync_synced_nodes_total",
			Help: "Total number of node transforms copied to attached views",
		},
	)
)
