/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package applier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	applyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sysconf_apply_duration_seconds",
			Help:    "Time taken to apply configuration artifacts to the host",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	appliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysconf_applies_total",
			Help: "Total number of apply attempts",
		},
		[]string{"status"}, // success or error
	)

	updateGrubTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysconf_update_grub_total",
			Help: "Total number of update-grub decisions",
		},
		[]string{"outcome"}, // ran, skipped-container, throttled
	)
)
