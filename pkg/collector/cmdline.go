/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package collector

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// CmdlinePath is where the kernel exposes the booted command line.
const CmdlinePath = "/proc/cmdline"

// cmdlineMaxSize bounds how much of the file is read; /proc/cmdline is a
// single short line.
const cmdlineMaxSize = 1 << 20

// managedParams are the kernel parameters the grub drop-in can set.
var managedParams = []string{
	"isolcpus",
	"hugepages",
	"hugepagesz",
	"raid",
	"pti",
	"intel_iommu",
	"iommu",
}

// Cmdline reads the kernel command line at path into a key-value map.
// Parameters without a value, such as "quiet", map to an empty string.
func Cmdline(path string) (map[string]string, error) {
	if path == "" {
		return nil, fmt.Errorf("cmdline path cannot be empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel cmdline from %q: %w", path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, cmdlineMaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel cmdline from %q: %w", path, err)
	}
	if len(b) > cmdlineMaxSize {
		return nil, fmt.Errorf("%q exceeds maximum size of %d bytes", path, cmdlineMaxSize)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of %q is not valid UTF-8", path)
	}

	params := make(map[string]string)
	for _, field := range strings.Fields(string(b)) {
		key, value, _ := strings.Cut(field, "=")
		if key == "" {
			continue
		}
		params[key] = value
	}

	return params, nil
}

// ManagedCmdline reads the kernel command line and keeps only the
// parameters the grub drop-in manages.
func ManagedCmdline(path string) (map[string]string, error) {
	params, err := Cmdline(path)
	if err != nil {
		return nil, err
	}

	managed := make(map[string]string)
	for _, key := range managedParams {
		if value, ok := params[key]; ok {
			managed[key] = value
		}
	}
	return managed, nil
}
