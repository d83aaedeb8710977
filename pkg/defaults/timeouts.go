/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package defaults centralizes timeout constants used across sysconf.
package defaults

import "time"

// Applier timeouts for host configuration operations.
const (
	// ApplyTimeout is the overall timeout for an apply run.
	ApplyTimeout = 5 * time.Minute

	// UpdateGrubTimeout bounds a single update-grub invocation.
	UpdateGrubTimeout = 2 * time.Minute

	// KernelInstallTimeout bounds apt-get when installing a pinned kernel.
	KernelInstallTimeout = 10 * time.Minute

	// UpdateGrubInterval is the minimum spacing between update-grub
	// invocations within one process. Both the grub drop-in and a kernel
	// pin can request a run; the second request inside the interval is
	// coalesced into the first.
	UpdateGrubInterval = 30 * time.Second
)

// Systemd timeouts for D-Bus operations.
const (
	// SystemdConnectTimeout bounds establishing the system bus connection.
	SystemdConnectTimeout = 10 * time.Second

	// SystemdJobTimeout bounds waiting for a unit restart job to finish.
	SystemdJobTimeout = 30 * time.Second
)
