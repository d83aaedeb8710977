/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/

package applier

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sysconf-dev/sysconf/pkg/config"
	"github.com/sysconf-dev/sysconf/pkg/defaults"
	"github.com/sysconf-dev/sysconf/pkg/errors"
	"github.com/sysconf-dev/sysconf/pkg/header"
	"github.com/sysconf-dev/sysconf/pkg/render"
	"github.com/sysconf-dev/sysconf/pkg/schema"
	"github.com/sysconf-dev/sysconf/pkg/version"
)

// Outcomes of the update-grub decision, recorded on the Result.
const (
	UpdateGrubRan              = "ran"
	UpdateGrubSkippedContainer = "skipped-container"
	UpdateGrubThrottled        = "throttled"
)

// Applier writes rendered artifacts to the host and activates them.
type Applier struct {
	// Version is the tool version stamped on emitted documents.
	Version string

	// Root prefixes every target path. Empty means the host filesystem root.
	Root string

	// StatePath overrides the boot state location. If empty, StatePath under
	// Root is used.
	StatePath string

	// Systemd manages unit restarts. If nil, a D-Bus connection to the host
	// systemd is established on first use.
	Systemd UnitManager

	// Limiter throttles update-grub invocations across apply runs. If nil, a
	// limiter spaced at defaults.UpdateGrubInterval is used.
	Limiter *rate.Limiter

	run         func(ctx context.Context, name string, args ...string) ([]byte, error)
	inContainer func() bool
	now         func() time.Time
}

// Result describes what a single apply or remove run did.
type Result struct {
	Header header.Header `json:"header" yaml:"header"`

	// RunID uniquely identifies this run in the boot state.
	RunID string `json:"runID" yaml:"runID"`

	// SchemaVersion is the schema the applied configuration resolved against.
	SchemaVersion string `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`

	// Written lists the host paths written by this run.
	Written []string `json:"written,omitempty" yaml:"written,omitempty"`

	// Removed lists the host paths deleted by this run.
	Removed []string `json:"removed,omitempty" yaml:"removed,omitempty"`

	// UpdateGrub records the update-grub decision, empty when not requested.
	UpdateGrub string `json:"updateGrub,omitempty" yaml:"updateGrub,omitempty"`

	// KernelInstalled is the kernel release installed by this run, empty
	// when none was needed.
	KernelInstalled string `json:"kernelInstalled,omitempty" yaml:"kernelInstalled,omitempty"`
}

func (a *Applier) init() {
	if a.run == nil {
		a.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		}
	}
	if a.inContainer == nil {
		a.inContainer = InContainer
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.Limiter == nil {
		a.Limiter = rate.NewLimiter(rate.Every(defaults.UpdateGrubInterval), 1)
	}
}

// Apply renders every artifact for cfg, writes them to the host, installs a
// pinned kernel when one is requested, regenerates the grub configuration
// when asked to, restarts cpufrequtils, and records the run in boot state.
// Inside a container the run is refused unless enable-container is set.
func (a *Applier) Apply(ctx context.Context, cfg *config.Config) (*Result, error) {
	a.init()

	start := time.Now()
	defer func() {
		applyDuration.Observe(time.Since(start).Seconds())
	}()

	res, err := a.apply(ctx, cfg)
	if err != nil {
		appliesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	appliesTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (a *Applier) apply(ctx context.Context, cfg *config.Config) (*Result, error) {
	if a.inContainer() && !cfg.EnableContainer() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidConfig,
			"refusing to apply inside a container, set enable-container to allow it",
			map[string]any{"schema": cfg.SchemaVersion()})
	}

	runID := uuid.NewString()
	slog.Info("applying configuration",
		slog.String("run", runID),
		slog.String("schema", cfg.SchemaVersion()))

	runningKernel, err := RunningKernel()
	if err != nil {
		return nil, err
	}

	// Render all artifacts before touching the host, so a render failure
	// leaves the host unchanged.
	artifacts := make([]render.Artifact, 3)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		art, err := render.Grub(cfg, runningKernel)
		if err != nil {
			return err
		}
		artifacts[0] = *art
		return nil
	})
	g.Go(func() error {
		art, err := render.Systemd(cfg)
		if err != nil {
			return err
		}
		artifacts[1] = *art
		return nil
	})
	g.Go(func() error {
		art, err := render.Cpufreq(cfg)
		if err != nil {
			return err
		}
		artifacts[2] = *art
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:         runID,
		SchemaVersion: cfg.SchemaVersion(),
	}

	state, err := LoadState(a.statePath())
	if err != nil {
		return nil, err
	}

	for _, art := range artifacts {
		if err := a.writeArtifact(art); err != nil {
			return nil, err
		}
		res.Written = append(res.Written, art.Path)
		state.Record(art.Path, runID, a.now())
	}

	wantUpdateGrub := cfg.UpdateGrub()

	if kv := cfg.KernelVersion(); kv != "" && kv != runningKernel {
		if pinned, perr := version.ParseVersion(kv); perr == nil {
			if running, rerr := version.ParseVersion(runningKernel); rerr == nil && running.IsNewer(pinned) {
				slog.Warn("pinned kernel is older than the running kernel",
					slog.String("pinned", kv),
					slog.String("running", runningKernel))
			}
		}
		if a.inContainer() {
			slog.Warn("skipping kernel install inside container", slog.String("version", kv))
		} else {
			if err := a.installKernel(ctx, kv); err != nil {
				return nil, err
			}
			res.KernelInstalled = kv
			state.Record("kernel:"+kv, runID, a.now())
			// The grub default pin only takes effect after regeneration.
			wantUpdateGrub = true
		}
	}

	if wantUpdateGrub {
		res.UpdateGrub = a.updateGrub(ctx)
	}

	if err := a.activateUnits(ctx); err != nil {
		return nil, err
	}

	if err := state.Save(a.statePath(), a.Version); err != nil {
		return nil, err
	}

	res.Header.Init(header.KindApplyResult, schema.APIVersion, a.Version)
	return res, nil
}

// Remove reverts every managed artifact: the grub drop-in is deleted, the
// systemd and cpufrequtils files are rewritten without managed settings.
func (a *Applier) Remove(ctx context.Context) (*Result, error) {
	a.init()

	runID := uuid.NewString()
	slog.Info("removing managed configuration", slog.String("run", runID))

	systemdArt, err := render.RemoveSystemd()
	if err != nil {
		return nil, err
	}
	cpufreqArt, err := render.RemoveCpufreq()
	if err != nil {
		return nil, err
	}
	grubArt := render.RemoveGrub()

	state, err := LoadState(a.statePath())
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: runID}

	if err := a.writeArtifact(grubArt); err != nil {
		return nil, err
	}
	res.Removed = append(res.Removed, grubArt.Path)
	state.Record(grubArt.Path, runID, a.now())

	for _, art := range []render.Artifact{*systemdArt, *cpufreqArt} {
		if err := a.writeArtifact(art); err != nil {
			return nil, err
		}
		res.Written = append(res.Written, art.Path)
		state.Record(art.Path, runID, a.now())
	}

	res.UpdateGrub = a.updateGrub(ctx)

	if err := a.activateUnits(ctx); err != nil {
		return nil, err
	}

	if err := state.Save(a.statePath(), a.Version); err != nil {
		return nil, err
	}

	res.Header.Init(header.KindApplyResult, schema.APIVersion, a.Version)
	return res, nil
}

// updateGrub regenerates the grub configuration unless the process runs in
// a container or a recent run already did so.
func (a *Applier) updateGrub(ctx context.Context) string {
	if a.inContainer() {
		slog.Warn("skipping update-grub inside container")
		updateGrubTotal.WithLabelValues(UpdateGrubSkippedContainer).Inc()
		return UpdateGrubSkippedContainer
	}
	if !a.Limiter.Allow() {
		slog.Warn("skipping update-grub, ran too recently")
		updateGrubTotal.WithLabelValues(UpdateGrubThrottled).Inc()
		return UpdateGrubThrottled
	}

	cctx, cancel := context.WithTimeout(ctx, defaults.UpdateGrubTimeout)
	defer cancel()

	out, err := a.run(cctx, "update-grub")
	if err != nil {
		// Grub regeneration failures are reported but do not fail the run;
		// the drop-in is in place and the next regeneration picks it up.
		slog.Error("update-grub failed",
			slog.String("error", err.Error()),
			slog.String("output", string(out)))
		updateGrubTotal.WithLabelValues("error").Inc()
		return "error"
	}

	slog.Info("regenerated grub configuration")
	updateGrubTotal.WithLabelValues(UpdateGrubRan).Inc()
	return UpdateGrubRan
}

// activateUnits reloads systemd so the rewritten system.conf is picked up
// and restarts cpufrequtils to apply the governor.
func (a *Applier) activateUnits(ctx context.Context) error {
	mgr := a.Systemd
	if mgr == nil {
		m, err := connectSystemd(ctx)
		if err != nil {
			return err
		}
		defer m.Close()
		mgr = m
	}

	if err := mgr.Reload(ctx); err != nil {
		return err
	}
	return mgr.RestartUnit(ctx, CpufreqUnit)
}

func (a *Applier) writeArtifact(art render.Artifact) error {
	target := a.hostPath(art.Path)

	if art.Remove {
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return errors.WrapWithContext(errors.ErrCodeApply, "failed to remove artifact", err,
				map[string]any{"path": art.Path})
		}
		slog.Debug("removed artifact", slog.String("path", art.Path))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeApply, "failed to create artifact directory", err,
			map[string]any{"path": art.Path})
	}
	if err := os.WriteFile(target, []byte(art.Content), 0o644); err != nil {
		return errors.WrapWithContext(errors.ErrCodeApply, "failed to write artifact", err,
			map[string]any{"path": art.Path})
	}

	slog.Debug("wrote artifact",
		slog.String("name", art.Name),
		slog.String("path", art.Path),
		slog.Int("bytes", len(art.Content)))
	return nil
}

func (a *Applier) hostPath(p string) string {
	return filepath.Join(a.Root, p)
}

func (a *Applier) statePath() string {
	if a.StatePath != "" {
		return a.StatePath
	}
	return a.hostPath(StatePath)
}
