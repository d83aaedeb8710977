/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/sysconf-dev/sysconf/pkg/config"
	"github.com/sysconf-dev/sysconf/pkg/errors"
)

// grubDefaultFormat pins the grub menu entry for a specific kernel release.
const grubDefaultFormat = "Advanced options for Ubuntu>Ubuntu, with Linux %s"

var grubTmpl = template.Must(template.New(NameGrub).
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(managedHeader +
		`{{- if .CmdlineParams}}
GRUB_CMDLINE_LINUX_DEFAULT="$GRUB_CMDLINE_LINUX_DEFAULT {{join .CmdlineParams " "}}"
{{- end}}
{{- range .FlagLines}}
{{.}}
{{- end}}
{{- if .GrubDefault}}
GRUB_DEFAULT="{{.GrubDefault}}"
{{- end}}
`))

type grubContext struct {
	CmdlineParams []string
	FlagLines     []string
	GrubDefault   string
}

// Grub renders the grub drop-in for the configuration. Boot parameters are
// emitted only for options that deviate from kernel defaults, so an
// all-default configuration produces just the managed header.
func Grub(cfg *config.Config, runningKernel string) (*Artifact, error) {
	ctx := grubContext{}

	if cfg.Reservation() == "isolcpus" {
		ctx.CmdlineParams = append(ctx.CmdlineParams, "isolcpus="+cfg.CPURange())
	}
	if hp := cfg.Hugepages(); hp != "" {
		ctx.CmdlineParams = append(ctx.CmdlineParams, "hugepages="+hp)
	}
	if hpz := cfg.Hugepagesz(); hpz != "" {
		ctx.CmdlineParams = append(ctx.CmdlineParams, "hugepagesz="+hpz)
	}
	if raid := cfg.RAIDAutodetection(); raid != "" {
		ctx.CmdlineParams = append(ctx.CmdlineParams, "raid="+raid)
	}
	if !cfg.EnablePTI() {
		ctx.CmdlineParams = append(ctx.CmdlineParams, "pti=off")
	}
	if cfg.EnableIOMMU() {
		ctx.CmdlineParams = append(ctx.CmdlineParams, "intel_iommu=on", "iommu=pt")
	}

	ctx.FlagLines = config.FormatFlagMap(cfg.GrubConfigFlags())

	if kv := cfg.KernelVersion(); kv != "" && kv != runningKernel {
		ctx.GrubDefault = fmt.Sprintf(grubDefaultFormat, kv)
	}

	content, err := execute(grubTmpl, ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, "failed to render grub drop-in", err)
	}

	return &Artifact{
		Name:    NameGrub,
		Path:    GrubPath,
		Content: content,
	}, nil
}

// RemoveGrub returns an artifact marking the grub drop-in for deletion.
// Unlike systemd and cpufreq, removal deletes the file outright since the
// drop-in exists only when sysconf created it.
func RemoveGrub() Artifact {
	return Artifact{
		Name:   NameGrub,
		Path:   GrubPath,
		Remove: true,
	}
}
