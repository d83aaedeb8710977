package applier

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sysconf-dev/sysconf/pkg/config"
	"github.com/sysconf-dev/sysconf/pkg/errors"
	"github.com/sysconf-dev/sysconf/pkg/header"
	"github.com/sysconf-dev/sysconf/pkg/render"
	"github.com/sysconf-dev/sysconf/pkg/schema"
)

type fakeUnitManager struct {
	reloads  int
	restarts []string
}

func (f *fakeUnitManager) RestartUnit(_ context.Context, name string) error {
	f.restarts = append(f.restarts, name)
	return nil
}

func (f *fakeUnitManager) Reload(context.Context) error {
	f.reloads++
	return nil
}

func (f *fakeUnitManager) Close() {}

type fakeRunner struct {
	calls [][]string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return nil, nil
}

func (f *fakeRunner) commands() []string {
	var cmds []string
	for _, c := range f.calls {
		cmds = append(cmds, strings.Join(c, " "))
	}
	return cmds
}

func testApplier(t *testing.T) (*Applier, *fakeUnitManager, *fakeRunner) {
	t.Helper()

	mgr := &fakeUnitManager{}
	runner := &fakeRunner{}

	a := &Applier{
		Version: "test",
		Root:    t.TempDir(),
		Systemd: mgr,
		Limiter: rate.NewLimiter(rate.Every(time.Hour), 1),
	}
	a.run = runner.run
	a.inContainer = func() bool { return false }

	return a, mgr, runner
}

func applyConfig(t *testing.T, overrides schema.Overrides) *config.Config {
	t.Helper()

	r, err := schema.NewRegistry()
	require.NoError(t, err)
	res, err := schema.Resolve(r.Default(), overrides)
	require.NoError(t, err)
	return config.New(res)
}

func TestApplyWritesArtifacts(t *testing.T) {
	a, mgr, runner := testApplier(t)
	cfg := applyConfig(t, schema.Overrides{
		"reservation": "affinity",
		"cpu-range":   "0-3",
		"governor":    "performance",
	})

	res, err := a.Apply(t.Context(), cfg)
	require.NoError(t, err)

	assert.Equal(t, header.KindApplyResult, res.Header.Kind)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{render.GrubPath, render.SystemdPath, render.CpufreqPath}, res.Written)
	assert.Empty(t, res.UpdateGrub, "update-grub stays off unless requested")
	assert.Empty(t, runner.commands())

	systemdContent, err := os.ReadFile(filepath.Join(a.Root, render.SystemdPath))
	require.NoError(t, err)
	assert.Contains(t, string(systemdContent), "CPUAffinity=0-3")

	cpufreqContent, err := os.ReadFile(filepath.Join(a.Root, render.CpufreqPath))
	require.NoError(t, err)
	assert.Contains(t, string(cpufreqContent), `GOVERNOR="performance"`)

	assert.Equal(t, 1, mgr.reloads)
	assert.Equal(t, []string{CpufreqUnit}, mgr.restarts)

	state, err := LoadState(a.statePath())
	require.NoError(t, err)
	assert.Len(t, state.Resources, 3)
	assert.Equal(t, res.RunID, state.Resources[render.GrubPath].RunID)
}

func TestApplyRunsUpdateGrub(t *testing.T) {
	a, _, runner := testApplier(t)
	cfg := applyConfig(t, schema.Overrides{"update-grub": true})

	res, err := a.Apply(t.Context(), cfg)
	require.NoError(t, err)

	assert.Equal(t, UpdateGrubRan, res.UpdateGrub)
	assert.Equal(t, []string{"update-grub"}, runner.commands())
}

func TestApplyThrottlesUpdateGrub(t *testing.T) {
	a, _, runner := testApplier(t)
	cfg := applyConfig(t, schema.Overrides{"update-grub": true})

	first, err := a.Apply(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, UpdateGrubRan, first.UpdateGrub)

	second, err := a.Apply(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, UpdateGrubThrottled, second.UpdateGrub)

	assert.Len(t, runner.commands(), 1, "update-grub runs once within the interval")
}

func TestApplySkipsUpdateGrubInContainer(t *testing.T) {
	a, _, runner := testApplier(t)
	a.inContainer = func() bool { return true }
	cfg := applyConfig(t, schema.Overrides{
		"enable-container": true,
		"update-grub":      true,
	})

	res, err := a.Apply(t.Context(), cfg)
	require.NoError(t, err)

	assert.Equal(t, UpdateGrubSkippedContainer, res.UpdateGrub)
	assert.Empty(t, runner.commands())
}

func TestApplyRefusedInContainer(t *testing.T) {
	a, mgr, runner := testApplier(t)
	a.inContainer = func() bool { return true }
	cfg := applyConfig(t, schema.Overrides{"governor": "performance"})

	res, err := a.Apply(t.Context(), cfg)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))

	// The host stays untouched.
	_, serr := os.Stat(filepath.Join(a.Root, render.GrubPath))
	assert.True(t, os.IsNotExist(serr))
	assert.Empty(t, runner.commands())
	assert.Zero(t, mgr.reloads)
	assert.Empty(t, mgr.restarts)
}

func TestApplyInstallsKernel(t *testing.T) {
	a, _, runner := testApplier(t)
	cfg := applyConfig(t, schema.Overrides{"kernel-version": "9.9.9-test"})

	res, err := a.Apply(t.Context(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "9.9.9-test", res.KernelInstalled)
	// The kernel install forces grub regeneration so the pin takes effect.
	assert.Equal(t, UpdateGrubRan, res.UpdateGrub)

	cmds := runner.commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, "apt-get install --yes --quiet linux-image-9.9.9-test linux-modules-extra-9.9.9-test", cmds[0])
	assert.Equal(t, "update-grub", cmds[1])

	grubContent, err := os.ReadFile(filepath.Join(a.Root, render.GrubPath))
	require.NoError(t, err)
	assert.Contains(t, string(grubContent), `GRUB_DEFAULT="Advanced options for Ubuntu>Ubuntu, with Linux 9.9.9-test"`)
}

func TestApplySkipsKernelAlreadyRunning(t *testing.T) {
	a, _, runner := testApplier(t)

	running, err := RunningKernel()
	require.NoError(t, err)

	cfg := applyConfig(t, schema.Overrides{"kernel-version": running})

	res, err := a.Apply(t.Context(), cfg)
	require.NoError(t, err)
	assert.Empty(t, res.KernelInstalled)
	assert.Empty(t, runner.commands())
}

func TestRemoveRevertsArtifacts(t *testing.T) {
	a, mgr, _ := testApplier(t)

	cfg := applyConfig(t, schema.Overrides{
		"reservation": "affinity",
		"cpu-range":   "0-3",
		"governor":    "powersave",
	})
	_, err := a.Apply(t.Context(), cfg)
	require.NoError(t, err)

	res, err := a.Remove(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{render.GrubPath}, res.Removed)
	assert.Equal(t, []string{render.SystemdPath, render.CpufreqPath}, res.Written)

	_, err = os.Stat(filepath.Join(a.Root, render.GrubPath))
	assert.True(t, os.IsNotExist(err), "grub drop-in deleted")

	systemdContent, err := os.ReadFile(filepath.Join(a.Root, render.SystemdPath))
	require.NoError(t, err)
	assert.NotContains(t, string(systemdContent), "CPUAffinity")

	cpufreqContent, err := os.ReadFile(filepath.Join(a.Root, render.CpufreqPath))
	require.NoError(t, err)
	assert.NotContains(t, string(cpufreqContent), "GOVERNOR")

	assert.Equal(t, 2, mgr.reloads)
	assert.Equal(t, []string{CpufreqUnit, CpufreqUnit}, mgr.restarts)
}

func TestRemoveWithoutPriorApply(t *testing.T) {
	a, _, _ := testApplier(t)

	res, err := a.Remove(t.Context())
	require.NoError(t, err, "removing an absent drop-in is not an error")
	assert.Equal(t, []string{render.GrubPath}, res.Removed)
}

func TestRunningKernel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping host kernel lookup in short mode")
	}

	release, err := RunningKernel()
	require.NoError(t, err)
	assert.NotEmpty(t, release)
}
