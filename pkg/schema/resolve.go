/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/sysconf-dev/sysconf/pkg/header"
)

// Resolve validates overrides against the schema and produces a Resolution
// covering every declared option: overridden values are coerced to their
// declared type, everything else takes its default.
//
// Resolve is pure: no I/O, no shared state, no partial results. On the
// first unknown key or coercion failure (in sorted key order, for
// deterministic reporting) it returns the corresponding error and a nil
// Resolution.
func Resolve(s *Schema, overrides Overrides) (*Resolution, error) {
	res := &Resolution{
		SchemaVersion: s.version,
		Values:        make(map[string]any, len(s.specs)),
	}
	res.Header.Init(header.KindResolvedConfig, APIVersion, "")

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		spec, ok := s.Spec(k)
		if !ok {
			resolutionErrors.WithLabelValues(reasonUnknownOption).Inc()
			return nil, &UnknownOptionError{Option: k, SchemaVersion: s.version}
		}

		v, err := coerce(spec, overrides[k])
		if err != nil {
			resolutionErrors.WithLabelValues(reasonTypeCoercion).Inc()
			return nil, err
		}
		res.Values[k] = v
	}

	for _, spec := range s.specs {
		if _, ok := res.Values[spec.Name]; !ok {
			res.Values[spec.Name] = spec.Default
		}
	}

	resolutions.Inc()
	slog.Debug("resolved configuration",
		"schema", s.version,
		"overrides", len(overrides),
		"options", len(res.Values))

	return res, nil
}

// coerce converts a raw override value to the option's declared type.
func coerce(spec OptionSpec, raw any) (any, error) {
	switch spec.Type {
	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
	case TypeString:
		if v, ok := raw.(string); ok {
			return v, nil
		}
	}
	return nil, &TypeCoercionError{Option: spec.Name, Type: spec.Type, Value: raw}
}
