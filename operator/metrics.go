// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// placements counts placement clicks by result:
	// placed, partial or rejected.
	placements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xyzsync_placements_total",
			Help: "Total number of instance placements by result",
		},
		[]string{"result"},
	)

	// instanceRequests counts instance creation requests
	// by view and result: created or failed.
	instanceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xyzsync_instance_requests_total",
			Help: "Total number of instance creation requests by view and result",
		},
		[]string{"view", "result"},
	)

	placementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xyzsync_placement_duration_seconds",
			Help:    "Duration of instance replication across all views in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
