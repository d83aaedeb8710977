/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"fmt"
	"strings"
)

// UnknownOptionError reports an override key not declared by the schema.
type UnknownOptionError struct {
	Option        string
	SchemaVersion string
}

// Error implements the error interface.
func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q in schema %s", e.Option, e.SchemaVersion)
}

// TypeCoercionError reports an override value that cannot be coerced to the
// option's declared type.
type TypeCoercionError struct {
	Option string
	Type   Type
	Value  any
}

// Error implements the error interface.
func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("option %q: cannot coerce %v (%T) to %s", e.Option, e.Value, e.Value, e.Type)
}

// ConsistencyError reports cross-option rule violations. It is returned
// only in strict mode; the default policy surfaces the same findings as
// warnings.
type ConsistencyError struct {
	Findings []Finding
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	msgs := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("configuration is inconsistent: %s", strings.Join(msgs, "; "))
}
