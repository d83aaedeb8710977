/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sysconf-dev/sysconf/pkg/applier"
	"github.com/sysconf-dev/sysconf/pkg/config"
	"github.com/sysconf-dev/sysconf/pkg/header"
	"github.com/sysconf-dev/sysconf/pkg/render"
	"github.com/sysconf-dev/sysconf/pkg/schema"
)

// RenderResult is the document emitted by the render command.
type RenderResult struct {
	Header header.Header `json:"header" yaml:"header"`

	// SchemaVersion is the schema the configuration resolved against.
	SchemaVersion string `json:"schemaVersion" yaml:"schemaVersion"`

	// Kernel is the running kernel release the artifacts were rendered for.
	Kernel string `json:"kernel" yaml:"kernel"`

	// Artifacts holds every rendered host file.
	Artifacts []render.Artifact `json:"artifacts" yaml:"artifacts"`
}

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Render the host artifacts a configuration produces",
		Description: `Resolve configuration overrides and render the host configuration files
they produce, without writing anything:

  - the grub drop-in (/etc/default/grub.d/90-sysconfig.cfg)
  - the systemd manager configuration (/etc/systemd/system.conf)
  - the cpufrequtils defaults (/etc/default/cpufrequtils)

Grub rendering needs to know the running kernel to decide whether a pinned
kernel-version requires a GRUB_DEFAULT entry; use --kernel to render for a
different kernel than the one currently booted.

# Examples

Render the artifacts for inline overrides:
  sysconfctl render --set reservation=isolcpus --set cpu-range=0-3

Render for a kernel other than the running one:
  sysconfctl render --set kernel-version=5.15.0-142-generic --kernel 5.15.0-100-generic

Save the rendered artifacts as JSON:
  sysconfctl render --overrides overrides.yaml -f json -o artifacts.json`,
		Flags: []cli.Flag{
			setFlag,
			overridesFlag,
			schemaVersionFlag,
			&cli.StringFlag{
				Name:  "kernel",
				Usage: "Render for this kernel release instead of the running one",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveOverrides(cmd)
			if err != nil {
				return err
			}

			// findings are logged by the check itself; render proceeds
			schema.CheckConsistency(res)

			kernel := cmd.String("kernel")
			if kernel == "" {
				kernel, err = applier.RunningKernel()
				if err != nil {
					return err
				}
			}

			cfg := config.New(res)
			artifacts, err := render.All(cfg, kernel)
			if err != nil {
				return err
			}

			result := &RenderResult{
				SchemaVersion: res.SchemaVersion,
				Kernel:        kernel,
				Artifacts:     artifacts,
			}
			result.Header.Init(header.KindRenderResult, schema.APIVersion, version)

			if err := serializeResult(ctx, cmd, result); err != nil {
				return fmt.Errorf("failed to serialize render result: %w", err)
			}
			return nil
		},
	}
}
