/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package applier

import (
	"context"
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/sysconf-dev/sysconf/pkg/defaults"
	"github.com/sysconf-dev/sysconf/pkg/errors"
)

// RunningKernel returns the release string of the currently booted kernel,
// e.g. "5.15.0-100-generic".
func RunningKernel() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to read kernel release", err)
	}
	return unix.ByteSliceToString(uts.Release[:]), nil
}

// installKernel installs the image and extra-modules packages for the
// requested kernel release. The new kernel only boots once the grub
// default is pinned and the host restarts.
func (a *Applier) installKernel(ctx context.Context, version string) error {
	cctx, cancel := context.WithTimeout(ctx, defaults.KernelInstallTimeout)
	defer cancel()

	pkgs := []string{
		"linux-image-" + version,
		"linux-modules-extra-" + version,
	}

	slog.Info("installing kernel packages", slog.Any("packages", pkgs))

	args := append([]string{"install", "--yes", "--quiet"}, pkgs...)
	out, err := a.run(cctx, "apt-get", args...)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeApply, "failed to install kernel packages", err,
			map[string]any{"version": version, "output": string(out)})
	}

	return nil
}
