/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package applier writes rendered configuration artifacts to the host and
// performs the follow-up actions they require: regenerating the grub
// configuration, installing a pinned kernel, and restarting the
// cpufrequtils service over the systemd D-Bus API.
//
// Every apply run is tagged with a unique run ID and recorded in a boot
// state file, so callers can tell which managed resources changed since
// the host last booted and therefore still need a reboot to take effect.
//
// The Applier is safe to point at an alternate filesystem root, which is
// how its tests exercise the write paths without touching the host.
package applier
