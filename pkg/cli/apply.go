/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/sysconf-dev/sysconf/pkg/applier"
	"github.com/sysconf-dev/sysconf/pkg/config"
	"github.com/sysconf-dev/sysconf/pkg/defaults"
	"github.com/sysconf-dev/sysconf/pkg/errors"
	"github.com/sysconf-dev/sysconf/pkg/schema"
)

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "apply",
		EnableShellCompletion: true,
		Usage:                 "Apply a configuration to the host",
		Description: `Resolve configuration overrides, render the host artifacts, write them,
and activate them:

  - grub drop-in written; update-grub runs when the update-grub option is
    true or a new kernel was installed (skipped inside containers)
  - kernel image and extra-modules packages installed when kernel-version
    names a release other than the running one
  - systemd manager configuration reloaded; cpufrequtils restarted

Every run is recorded in the boot state (` + applier.StatePath + `), which
the status command uses to report changes pending a reboot.

This command needs root on the target host.

# Examples

Apply CPU isolation and a performance governor:
  sysconfctl apply --set reservation=isolcpus --set cpu-range=0-3 \
    --set governor=performance --set update-grub=true

Apply an overrides file, failing on consistency findings:
  sysconfctl apply --overrides overrides.yaml --strict

Stage the artifacts under a different root (nothing is activated there):
  sysconfctl apply --overrides overrides.yaml --root /tmp/stage`,
		Flags: []cli.Flag{
			setFlag,
			overridesFlag,
			schemaVersionFlag,
			strictFlag,
			rootFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveOverrides(cmd)
			if err != nil {
				return err
			}

			findings := schema.CheckConsistency(res)
			if cmd.Bool("strict") {
				if err := schema.Strict(findings); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidConfig, "strict validation failed", err)
				}
			}

			a := &applier.Applier{
				Version: version,
				Root:    cmd.String("root"),
			}

			actx, cancel := context.WithTimeout(ctx, defaults.ApplyTimeout)
			defer cancel()

			result, err := a.Apply(actx, config.New(res))
			if err != nil {
				return fmt.Errorf("apply failed: %w", err)
			}

			if err := serializeResult(ctx, cmd, result); err != nil {
				return fmt.Errorf("failed to serialize apply result: %w", err)
			}

			slog.Info("apply completed",
				"run", result.RunID,
				"written", len(result.Written),
				"updateGrub", result.UpdateGrub,
				"kernelInstalled", result.KernelInstalled)
			return nil
		},
	}
}
