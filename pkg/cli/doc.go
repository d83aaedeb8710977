/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the sysconfctl command line interface.
//
// Commands:
//   - validate: resolve overrides against an option schema and check
//     cross-option consistency
//   - render:   print the host artifacts a configuration produces
//   - apply:    write artifacts to the host and activate them
//   - remove:   revert every managed artifact
//   - options:  list the options a schema version accepts
//   - status:   report managed resources changed since the last boot
//
// All commands serialize their results as JSON, YAML, or a table, to stdout
// or a file.
package cli
