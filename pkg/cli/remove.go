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
	"github.com/sysconf-dev/sysconf/pkg/defaults"
)

func removeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "remove",
		EnableShellCompletion: true,
		Usage:                 "Revert every managed host artifact",
		Description: `Revert the host configuration this tool manages:

  - the grub drop-in is deleted and update-grub regenerates the boot
    configuration (skipped inside containers)
  - the systemd manager configuration is rewritten without managed
    settings and reloaded
  - the cpufrequtils defaults are rewritten without a governor and the
    service is restarted

Boot-sensitive settings such as isolcpus stay active until the next
reboot; check the status command afterwards.

# Examples

Revert the host:
  sysconfctl remove

Revert a staged root:
  sysconfctl remove --root /tmp/stage`,
		Flags: []cli.Flag{
			rootFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := &applier.Applier{
				Version: version,
				Root:    cmd.String("root"),
			}

			actx, cancel := context.WithTimeout(ctx, defaults.ApplyTimeout)
			defer cancel()

			result, err := a.Remove(actx)
			if err != nil {
				return fmt.Errorf("remove failed: %w", err)
			}

			if err := serializeResult(ctx, cmd, result); err != nil {
				return fmt.Errorf("failed to serialize remove result: %w", err)
			}

			slog.Info("remove completed", "run", result.RunID)
			return nil
		},
	}
}
