/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package render

import (
	"text/template"

	"github.com/sysconf-dev/sysconf/pkg/config"
	"github.com/sysconf-dev/sysconf/pkg/errors"
)

var cpufreqTmpl = template.Must(template.New(NameCpufreq).Parse(managedHeader +
	`{{- if .Governor}}
GOVERNOR="{{.Governor}}"
{{- end}}
`))

type cpufreqContext struct {
	Governor string
}

// Cpufreq renders /etc/default/cpufrequtils. An empty governor renders just
// the managed header, which leaves the distribution default in effect.
func Cpufreq(cfg *config.Config) (*Artifact, error) {
	content, err := execute(cpufreqTmpl, cpufreqContext{Governor: cfg.Governor()})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, "failed to render cpufrequtils defaults", err)
	}

	return &Artifact{
		Name:    NameCpufreq,
		Path:    CpufreqPath,
		Content: content,
	}, nil
}

// RemoveCpufreq renders the empty-context cpufrequtils defaults.
func RemoveCpufreq() (*Artifact, error) {
	content, err := execute(cpufreqTmpl, cpufreqContext{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, "failed to render empty cpufrequtils defaults", err)
	}

	return &Artifact{
		Name:    NameCpufreq,
		Path:    CpufreqPath,
		Content: content,
	}, nil
}
