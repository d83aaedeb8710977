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

var systemdTmpl = template.Must(template.New(NameSystemd).Parse(managedHeader +
	`[Manager]
{{- if .CPUAffinity}}
CPUAffinity={{.CPUAffinity}}
{{- end}}
{{- range .FlagLines}}
{{.}}
{{- end}}
`))

type systemdContext struct {
	CPUAffinity string
	FlagLines   []string
}

// Systemd renders /etc/systemd/system.conf for the configuration.
// CPUAffinity is set only for the affinity reservation strategy.
func Systemd(cfg *config.Config) (*Artifact, error) {
	ctx := systemdContext{
		FlagLines: config.FormatFlagMap(cfg.SystemdConfigFlags()),
	}
	if cfg.Reservation() == "affinity" {
		ctx.CPUAffinity = cfg.CPURange()
	}

	content, err := execute(systemdTmpl, ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, "failed to render systemd system.conf", err)
	}

	return &Artifact{
		Name:    NameSystemd,
		Path:    SystemdPath,
		Content: content,
	}, nil
}

// RemoveSystemd renders the empty-context system.conf, reverting every
// setting sysconf manages while keeping the file present, as systemd
// expects.
func RemoveSystemd() (*Artifact, error) {
	content, err := execute(systemdTmpl, systemdContext{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, "failed to render empty systemd system.conf", err)
	}

	return &Artifact{
		Name:    NameSystemd,
		Path:    SystemdPath,
		Content: content,
	}, nil
}
