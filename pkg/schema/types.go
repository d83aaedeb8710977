/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"fmt"

	"github.com/sysconf-dev/sysconf/pkg/header"
)

// APIVersion is the API version stamped on resolution documents.
const APIVersion = "sysconf.dev/v1"

// Type is the declared type of an option value.
type Type string

const (
	// TypeBoolean accepts native booleans and the textual forms
	// "true"/"false" (case-insensitive).
	TypeBoolean Type = "boolean"

	// TypeString accepts any string, including the empty string, which is
	// a valid value distinct from "absent" (several options use it as a
	// disabled sentinel).
	TypeString Type = "string"
)

// IsValid reports whether t is a recognized option type.
func (t Type) IsValid() bool {
	return t == TypeBoolean || t == TypeString
}

// String returns the string representation of the Type.
func (t Type) String() string {
	return string(t)
}

// OptionSpec describes a single configuration option.
type OptionSpec struct {
	Name        string `json:"name" yaml:"name"`
	Type        Type   `json:"type" yaml:"type"`
	Default     any    `json:"default" yaml:"default"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Deprecated marks options retained for compatibility with earlier
	// schema versions. Deprecated options still validate normally.
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// validate checks the option's internal invariants: a known type and a
// default satisfying it.
func (s OptionSpec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("option name cannot be empty")
	}
	if !s.Type.IsValid() {
		return fmt.Errorf("option %q: unknown type %q", s.Name, s.Type)
	}
	switch s.Type {
	case TypeBoolean:
		if _, ok := s.Default.(bool); !ok {
			return fmt.Errorf("option %q: default %v does not satisfy type boolean", s.Name, s.Default)
		}
	case TypeString:
		if _, ok := s.Default.(string); !ok {
			return fmt.Errorf("option %q: default %v does not satisfy type string", s.Name, s.Default)
		}
	}
	return nil
}

// Schema is an ordered set of option specifications, unique by name.
// Schemas are built once at startup and never mutated afterwards.
type Schema struct {
	version string
	specs   []OptionSpec
	byName  map[string]int
}

// New builds a Schema from the given specs, enforcing name uniqueness and
// that every default satisfies its declared type.
func New(version string, specs []OptionSpec) (*Schema, error) {
	if version == "" {
		return nil, fmt.Errorf("schema version cannot be empty")
	}

	s := &Schema{
		version: version,
		specs:   make([]OptionSpec, len(specs)),
		byName:  make(map[string]int, len(specs)),
	}
	copy(s.specs, specs)

	for i, spec := range s.specs {
		if err := spec.validate(); err != nil {
			return nil, fmt.Errorf("schema %s: %w", version, err)
		}
		if _, dup := s.byName[spec.Name]; dup {
			return nil, fmt.Errorf("schema %s: duplicate option %q", version, spec.Name)
		}
		s.byName[spec.Name] = i
	}

	return s, nil
}

// Version returns the schema version identifier.
func (s *Schema) Version() string {
	return s.version
}

// Len returns the number of options in the schema.
func (s *Schema) Len() int {
	return len(s.specs)
}

// Spec returns the option spec for the given name.
func (s *Schema) Spec(name string) (OptionSpec, bool) {
	i, ok := s.byName[name]
	if !ok {
		return OptionSpec{}, false
	}
	return s.specs[i], true
}

// Has reports whether the schema declares the given option.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Options returns a copy of the option specs in declaration order.
func (s *Schema) Options() []OptionSpec {
	out := make([]OptionSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Names returns the option names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}
	return names
}

// Overrides is a set of raw, untyped user-supplied option overrides. It may
// be empty or partial; keys not declared by the schema are a validation
// error.
type Overrides map[string]any

// Resolution is a fully populated, typed configuration derived from a
// Schema plus a set of Overrides. Its value key set always equals the
// schema key set. A Resolution is immutable once produced.
type Resolution struct {
	Header        header.Header  `json:"header,omitempty" yaml:"header,omitempty"`
	SchemaVersion string         `json:"schemaVersion" yaml:"schemaVersion"`
	Values        map[string]any `json:"values" yaml:"values"`
}

// Bool returns the named boolean value. The second return is false when the
// option is absent or not a boolean.
func (r *Resolution) Bool(name string) (bool, bool) {
	v, ok := r.Values[name].(bool)
	return v, ok
}

// String returns the named string value. The second return is false when
// the option is absent or not a string.
func (r *Resolution) String(name string) (string, bool) {
	v, ok := r.Values[name].(string)
	return v, ok
}

// Overrides converts the resolution back into a raw override set. Resolving
// the result against the same schema reproduces the resolution.
func (r *Resolution) Overrides() Overrides {
	out := make(Overrides, len(r.Values))
	for k, v := range r.Values {
		out[k] = v
	}
	return out
}
