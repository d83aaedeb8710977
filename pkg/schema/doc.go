/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package schema implements the configuration option schema and its
// validator.
//
// A Schema is an ordered, immutable set of option specifications (name,
// type, default, description) loaded once at startup from embedded YAML
// documents. The Registry holds every published schema version so a single
// resolution path serves all of them.
//
// Resolve validates raw user overrides against a Schema and produces a
// Resolution: a fully populated, typed value map whose key set always
// equals the schema's key set. Resolution is a pure function; it owns no
// state and is safe for concurrent use.
//
// Cross-option rules (reservation literals, reservation/cpu-range
// coupling, raid-autodetection and governor literals) are deliberately not
// part of per-option typing. CheckConsistency implements them as a
// separate post-validation pass returning findings the caller can treat as
// warnings or, in strict mode, as a hard error.
package schema
