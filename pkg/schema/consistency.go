/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"fmt"
	"log/slog"
)

// Option names participating in cross-option rules.
const (
	OptReservation    = "reservation"
	OptCPURange       = "cpu-range"
	OptRAIDAutodetect = "raid-autodetection"
	OptGovernor       = "governor"
)

// Recognized literals for enumerated string options.
var (
	reservationValues = []string{"off", "isolcpus", "affinity"}
	raidValues        = []string{"", "noautodetect", "partitionable"}
	governorValues    = []string{"", "powersave", "performance"}
)

// Finding describes one cross-option rule violation.
type Finding struct {
	Option string `json:"option" yaml:"option"`
	Value  string `json:"value" yaml:"value"`
	Reason string `json:"reason" yaml:"reason"`
}

// String returns a human-readable form of the finding.
func (f Finding) String() string {
	return fmt.Sprintf("%s=%q: %s", f.Option, f.Value, f.Reason)
}

// CheckConsistency evaluates cross-option rules against a resolution.
// These rules are not expressible as per-option type constraints:
//
//   - reservation must be one of off, isolcpus, affinity
//   - raid-autodetection must be one of "", noautodetect, partitionable
//   - governor must be one of "", powersave, performance
//   - a reservation other than off with an empty cpu-range has no effect;
//     renderers treat the combination as off
//
// Findings are returned in check order. An empty slice means the
// resolution is consistent. The caller decides whether findings are
// warnings (default) or a hard error (strict mode, via Strict).
func CheckConsistency(res *Resolution) []Finding {
	var findings []Finding

	reservation, hasReservation := res.String(OptReservation)
	if hasReservation && !contains(reservationValues, reservation) {
		findings = append(findings, Finding{
			Option: OptReservation,
			Value:  reservation,
			Reason: fmt.Sprintf("must be one of %v", reservationValues),
		})
	}

	if raid, ok := res.String(OptRAIDAutodetect); ok && !contains(raidValues, raid) {
		findings = append(findings, Finding{
			Option: OptRAIDAutodetect,
			Value:  raid,
			Reason: `must be one of ["", "noautodetect", "partitionable"]`,
		})
	}

	if governor, ok := res.String(OptGovernor); ok && !contains(governorValues, governor) {
		findings = append(findings, Finding{
			Option: OptGovernor,
			Value:  governor,
			Reason: `must be one of ["", "powersave", "performance"]`,
		})
	}

	cpuRange, _ := res.String(OptCPURange)
	if hasReservation && contains(reservationValues, reservation) &&
		reservation != "off" && cpuRange == "" {
		findings = append(findings, Finding{
			Option: OptReservation,
			Value:  reservation,
			Reason: "cpu-range is empty, reservation has no effect and is treated as off",
		})
	}

	for _, f := range findings {
		consistencyFindings.WithLabelValues(f.Option).Inc()
		slog.Warn("consistency finding", "option", f.Option, "value", f.Value, "reason", f.Reason)
	}

	return findings
}

// Strict converts findings into a ConsistencyError, or nil when there are
// none.
func Strict(findings []Finding) error {
	if len(findings) == 0 {
		return nil
	}
	return &ConsistencyError{Findings: findings}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
