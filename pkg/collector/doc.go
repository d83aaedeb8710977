/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package collector reads live host state that the managed configuration
// affects, currently the booted kernel command line. The status command
// uses it to show which managed boot parameters are actually active.
package collector
