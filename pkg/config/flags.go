/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"sort"
	"strings"
)

// ParseFlagMap parses a "key1=value1,key2=value2" flag list into a map.
// Whitespace is stripped before splitting. Pairs without "=" or with an
// empty key are skipped.
func ParseFlagMap(flags string) map[string]string {
	flags = strings.ReplaceAll(flags, " ", "")
	parsed := make(map[string]string)

	for _, pair := range strings.Split(flags, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			continue
		}
		parsed[kv[0]] = kv[1]
	}

	return parsed
}

// FormatFlagMap renders a flag map back into "key=value" lines in sorted
// key order, one per line, for inclusion in generated artifacts.
func FormatFlagMap(flags map[string]string) []string {
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + flags[k]
	}
	return lines
}
