/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sysconf-dev/sysconf/pkg/applier"
	"github.com/sysconf-dev/sysconf/pkg/collector"
	"github.com/sysconf-dev/sysconf/pkg/header"
	"github.com/sysconf-dev/sysconf/pkg/schema"
)

const uptimePath = "/proc/uptime"

// Status is the document emitted by the status command.
type Status struct {
	Header header.Header `json:"header" yaml:"header"`

	// BootTime is when the host last booted.
	BootTime time.Time `json:"bootTime" yaml:"bootTime"`

	// PendingReboot lists managed resources changed since boot, whose
	// boot-sensitive settings only take effect after a restart.
	PendingReboot []string `json:"pendingReboot,omitempty" yaml:"pendingReboot,omitempty"`

	// ActiveCmdline holds the managed kernel parameters the host actually
	// booted with.
	ActiveCmdline map[string]string `json:"activeCmdline,omitempty" yaml:"activeCmdline,omitempty"`

	// Resources is the full per-resource change record.
	Resources map[string]applier.ResourceState `json:"resources,omitempty" yaml:"resources,omitempty"`
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "status",
		EnableShellCompletion: true,
		Usage:                 "Report managed resources changed since the last boot",
		Description: `Read the boot state recorded by apply and remove runs and report which
managed resources changed after the host last booted. Such resources carry
boot-sensitive settings (kernel cmdline, pinned kernel) that only take
effect after a reboot.

# Examples

Show the status:
  sysconfctl status

Inspect a staged root:
  sysconfctl status --root /tmp/stage`,
		Flags: []cli.Flag{
			rootFlag,
			&cli.StringFlag{
				Name:  "state",
				Usage: "Boot state file to read (default: " + applier.StatePath + " under the root)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			statePath := cmd.String("state")
			if statePath == "" {
				statePath = filepath.Join(cmd.String("root"), applier.StatePath)
			}

			state, err := applier.LoadState(statePath)
			if err != nil {
				return err
			}

			bootTime, err := applier.BootTime(uptimePath)
			if err != nil {
				return err
			}

			status := &Status{
				BootTime:      bootTime.UTC(),
				PendingReboot: state.ChangedSince(bootTime),
				Resources:     state.Resources,
			}
			if cmdline, err := collector.ManagedCmdline(collector.CmdlinePath); err != nil {
				slog.Warn("failed to read kernel cmdline", "error", err)
			} else {
				status.ActiveCmdline = cmdline
			}
			status.Header.Init(header.KindBootState, schema.APIVersion, version)

			return serializeResult(ctx, cmd, status)
		},
	}
}
