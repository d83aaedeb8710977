/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonUnknownOption = "unknown_option"
	reasonTypeCoercion  = "type_coercion"
)

var (
	resolutions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sysconf_resolutions_total",
			Help: "Total number of successful configuration resolutions",
		},
	)

	resolutionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysconf_resolution_errors_total",
			Help: "Total number of failed configuration resolutions by reason",
		},
		[]string{"reason"},
	)

	consistencyFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysconf_consistency_findings_total",
			Help: "Total number of cross-option consistency findings by option",
		},
		[]string{"option"},
	)
)
