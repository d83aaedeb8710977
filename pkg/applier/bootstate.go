/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package applier

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sysconf-dev/sysconf/pkg/errors"
	"github.com/sysconf-dev/sysconf/pkg/header"
	"github.com/sysconf-dev/sysconf/pkg/schema"
)

// StatePath is the default boot state location on the host.
const StatePath = "/var/lib/sysconf/state.yaml"

// ResourceState records the last change to a single managed resource.
type ResourceState struct {
	// Path is the resource path on the host.
	Path string `json:"path" yaml:"path"`

	// RunID is the apply run that last changed the resource.
	RunID string `json:"runID" yaml:"runID"`

	// UpdatedAt is when the resource was last written or removed.
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// BootState tracks when each managed resource last changed, so callers can
// tell which changes still require a reboot to take effect.
type BootState struct {
	Header    header.Header            `json:"header" yaml:"header"`
	Resources map[string]ResourceState `json:"resources" yaml:"resources"`
}

// LoadState reads the boot state from path. A missing file yields an empty
// state rather than an error.
func LoadState(path string) (*BootState, error) {
	s := &BootState{Resources: map[string]ResourceState{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read boot state", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to parse boot state", err)
	}
	if s.Resources == nil {
		s.Resources = map[string]ResourceState{}
	}
	return s, nil
}

// Save writes the state to path, creating parent directories as needed.
func (s *BootState) Save(path string, version string) error {
	s.Header.Init(header.KindBootState, schema.APIVersion, version)

	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to marshal boot state", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeApply, "failed to create boot state directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeApply, "failed to write boot state", err)
	}
	return nil
}

// Record marks a resource as changed by the given run at the given time.
func (s *BootState) Record(path, runID string, at time.Time) {
	s.Resources[path] = ResourceState{
		Path:      path,
		RunID:     runID,
		UpdatedAt: at.UTC(),
	}
}

// ChangedSince returns the paths of resources changed after t, sorted.
func (s *BootState) ChangedSince(t time.Time) []string {
	var changed []string
	for path, r := range s.Resources {
		if r.UpdatedAt.After(t) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// BootTime derives the host boot time from a /proc/uptime style file, whose
// first field is seconds since boot.
func BootTime(uptimePath string) (time.Time, error) {
	data, err := os.ReadFile(uptimePath)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInternal, "failed to read uptime", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return time.Time{}, errors.New(errors.ErrCodeInternal, "uptime file is empty")
	}

	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInternal, "failed to parse uptime", err)
	}

	return time.Now().Add(-time.Duration(secs * float64(time.Second))), nil
}
