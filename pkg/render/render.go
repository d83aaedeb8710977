/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package render turns a typed configuration into host configuration
// artifacts: the grub drop-in, the systemd system.conf, and the
// cpufrequtils defaults file. Rendering is pure; writing artifacts to the
// host is the applier's job.
package render

import (
	"strings"
	"text/template"

	"github.com/sysconf-dev/sysconf/pkg/config"
)

// Default artifact target paths.
const (
	GrubPath    = "/etc/default/grub.d/90-sysconfig.cfg"
	SystemdPath = "/etc/systemd/system.conf"
	CpufreqPath = "/etc/default/cpufrequtils"
)

// Artifact names.
const (
	NameGrub    = "grub"
	NameSystemd = "systemd"
	NameCpufreq = "cpufreq"
)

const managedHeader = "# Managed by sysconfctl - changes will be overwritten\n"

// Artifact is a rendered host configuration file.
type Artifact struct {
	// Name identifies the artifact (grub, systemd, cpufreq).
	Name string `json:"name" yaml:"name"`

	// Path is the target path on the host.
	Path string `json:"path" yaml:"path"`

	// Content is the full file content. Empty when Remove is set.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Remove marks the artifact for deletion instead of writing.
	Remove bool `json:"remove,omitempty" yaml:"remove,omitempty"`
}

// All renders every artifact for the given configuration. runningKernel is
// the kernel release currently booted, used to decide whether a grub
// default pin is required.
func All(cfg *config.Config, runningKernel string) ([]Artifact, error) {
	grub, err := Grub(cfg, runningKernel)
	if err != nil {
		return nil, err
	}
	systemd, err := Systemd(cfg)
	if err != nil {
		return nil, err
	}
	cpufreq, err := Cpufreq(cfg)
	if err != nil {
		return nil, err
	}
	return []Artifact{*grub, *systemd, *cpufreq}, nil
}

// execute renders a parsed template into a string.
func execute(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
