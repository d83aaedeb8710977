/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package applier

import (
	"context"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/sysconf-dev/sysconf/pkg/defaults"
	"github.com/sysconf-dev/sysconf/pkg/errors"
)

// CpufreqUnit is the service restarted after the cpufrequtils defaults change.
const CpufreqUnit = "cpufrequtils.service"

// UnitManager abstracts the systemd manager operations the applier needs.
type UnitManager interface {
	// RestartUnit restarts the named unit and waits for the job to finish.
	RestartUnit(ctx context.Context, name string) error

	// Reload asks systemd to reload its configuration (daemon-reload).
	Reload(ctx context.Context) error

	// Close releases the underlying connection.
	Close()
}

// systemdManager implements UnitManager over the systemd D-Bus API.
type systemdManager struct {
	conn *dbus.Conn
}

// connectSystemd establishes a connection to the systemd manager.
func connectSystemd(ctx context.Context) (UnitManager, error) {
	cctx, cancel := context.WithTimeout(ctx, defaults.SystemdConnectTimeout)
	defer cancel()

	conn, err := dbus.NewSystemdConnectionContext(cctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to connect to systemd", err)
	}
	return &systemdManager{conn: conn}, nil
}

func (m *systemdManager) RestartUnit(ctx context.Context, name string) error {
	cctx, cancel := context.WithTimeout(ctx, defaults.SystemdJobTimeout)
	defer cancel()

	done := make(chan string, 1)
	if _, err := m.conn.RestartUnitContext(cctx, name, "replace", done); err != nil {
		return errors.WrapWithContext(errors.ErrCodeApply, "failed to restart unit", err,
			map[string]any{"unit": name})
	}

	select {
	case result := <-done:
		if result != "done" {
			return errors.NewWithContext(errors.ErrCodeApply, "unit restart did not complete",
				map[string]any{"unit": name, "result": result})
		}
		slog.Debug("restarted unit", slog.String("unit", name))
		return nil
	case <-cctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout, "timed out waiting for unit restart", cctx.Err())
	}
}

func (m *systemdManager) Reload(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, defaults.SystemdJobTimeout)
	defer cancel()

	if err := m.conn.ReloadContext(cctx); err != nil {
		return errors.Wrap(errors.ErrCodeApply, "failed to reload systemd", err)
	}
	slog.Debug("reloaded systemd configuration")
	return nil
}

func (m *systemdManager) Close() {
	m.conn.Close()
}
