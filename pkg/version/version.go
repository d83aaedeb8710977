/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package version parses and compares dotted version strings such as schema
// versions ("v1", "v2") and kernel releases ("5.15.0-100-generic").
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parsing failure modes.
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version is a dotted version with up to three numeric components. Precision
// records how many components the source string carried; suffixes such as
// "-100-generic" are preserved in Extras and ignored by comparisons.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision is how many components are significant (1, 2, or 3).
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras holds the unparsed suffix, e.g. "-100-generic".
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// String renders the significant components. Extras are not included.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return fmt.Sprintf("%d", v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// ParseVersion parses "1", "1.2", "1.2.3", an optional "v" prefix, and
// suffixes introduced by "-" or "+", which land in Extras.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	var extras string
	if idx := strings.IndexAny(s, "-+"); idx >= 0 {
		extras = s[idx:]
		s = s[:idx]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	v := Version{Precision: len(parts), Extras: extras}
	targets := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrNegativeComponent, part)
		}
		*targets[i] = n
	}

	return v, nil
}

// MustParseVersion parses s and panics on failure. Only for hardcoded
// strings and tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("invalid version %q: %v", s, err))
	}
	return v
}

// Compare returns -1 if v < other, 0 if equal, 1 if v > other, comparing up
// to the lower of the two precisions.
func (v Version) Compare(other Version) int {
	precision := v.Precision
	if other.Precision < precision {
		precision = other.Precision
	}
	if precision < 1 {
		precision = 3
	}

	pairs := [3][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for i := 0; i < precision; i++ {
		if pairs[i][0] < pairs[i][1] {
			return -1
		}
		if pairs[i][0] > pairs[i][1] {
			return 1
		}
	}
	return 0
}

// Equals reports whether all components including precision and extras match.
func (v Version) Equals(other Version) bool {
	return v == other
}

// IsNewer reports whether v is strictly newer than other.
func (v Version) IsNewer(other Version) bool {
	return v.Compare(other) > 0
}
