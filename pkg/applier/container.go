/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package applier

import (
	"bytes"
	"os"
)

const (
	containerMarkerPath = "/run/systemd/container"
	initEnvironPath     = "/proc/1/environ"
)

// InContainer reports whether the process runs inside a container, where
// grub regeneration and kernel installs make no sense.
func InContainer() bool {
	return inContainer(containerMarkerPath, initEnvironPath)
}

func inContainer(markerPath, environPath string) bool {
	if _, err := os.Stat(markerPath); err == nil {
		return true
	}

	data, err := os.ReadFile(environPath)
	if err != nil {
		return false
	}
	for _, kv := range bytes.Split(data, []byte{0}) {
		if bytes.HasPrefix(kv, []byte("container=")) {
			return true
		}
	}
	return false
}
