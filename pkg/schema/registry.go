/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sysconf-dev/sysconf/pkg/version"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

// DefaultVersion is the schema version used when the caller does not ask
// for one explicitly.
const DefaultVersion = "v2"

// schemaDoc mirrors the on-disk schema document layout.
type schemaDoc struct {
	Version string       `yaml:"version"`
	Options []OptionSpec `yaml:"options"`
}

// Registry holds every published schema version. It is built once at
// startup from embedded schema documents and is immutable afterwards, so a
// single Registry can serve concurrent callers.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry loads all embedded schema documents into a Registry.
func NewRegistry() (*Registry, error) {
	entries, err := fs.Glob(schemaFS, "schemas/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate embedded schemas: %w", err)
	}

	r := &Registry{schemas: make(map[string]*Schema, len(entries))}

	for _, path := range entries {
		b, err := schemaFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded schema %s: %w", path, err)
		}

		var doc schemaDoc
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
		}

		s, err := New(doc.Version, doc.Options)
		if err != nil {
			return nil, fmt.Errorf("invalid schema %s: %w", path, err)
		}

		if _, dup := r.schemas[s.Version()]; dup {
			return nil, fmt.Errorf("duplicate schema version %s in %s", s.Version(), path)
		}
		r.schemas[s.Version()] = s
	}

	if _, ok := r.schemas[DefaultVersion]; !ok {
		return nil, fmt.Errorf("default schema version %s not found", DefaultVersion)
	}

	return r, nil
}

// Get returns the schema for the given version.
func (r *Registry) Get(version string) (*Schema, error) {
	s, ok := r.schemas[version]
	if !ok {
		return nil, fmt.Errorf("unknown schema version %q, known versions: %v", version, r.Versions())
	}
	return s, nil
}

// Default returns the schema for DefaultVersion.
func (r *Registry) Default() *Schema {
	return r.schemas[DefaultVersion]
}

// Versions returns all known schema versions, ordered numerically so that
// v10 sorts after v2. Unparseable versions sort last, lexically.
func (r *Registry) Versions() []string {
	versions := make([]string, 0, len(r.schemas))
	for v := range r.schemas {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		vi, erri := version.ParseVersion(versions[i])
		vj, errj := version.ParseVersion(versions[j])
		if erri != nil || errj != nil {
			if (erri == nil) != (errj == nil) {
				return erri == nil
			}
			return versions[i] < versions[j]
		}
		if c := vi.Compare(vj); c != 0 {
			return c < 0
		}
		return versions[i] < versions[j]
	})
	return versions
}
