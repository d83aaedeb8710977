package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysconf-dev/sysconf/pkg/schema"
)

func resolve(t *testing.T, overrides schema.Overrides) *Config {
	t.Helper()

	r, err := schema.NewRegistry()
	require.NoError(t, err)

	res, err := schema.Resolve(r.Default(), overrides)
	require.NoError(t, err)

	return New(res)
}

func TestConfigDefaults(t *testing.T) {
	cfg := resolve(t, nil)

	assert.Equal(t, schema.DefaultVersion, cfg.SchemaVersion())
	assert.Equal(t, "off", cfg.Reservation())
	assert.Equal(t, "", cfg.CPURange())
	assert.Equal(t, "", cfg.Hugepages())
	assert.Equal(t, "", cfg.Hugepagesz())
	assert.Equal(t, "", cfg.RAIDAutodetection())
	assert.True(t, cfg.EnablePTI())
	assert.False(t, cfg.EnableIOMMU())
	assert.False(t, cfg.UpdateGrub())
	assert.False(t, cfg.EnableContainer())
	assert.Equal(t, "", cfg.KernelVersion())
	assert.Equal(t, "", cfg.Governor())
	assert.Empty(t, cfg.GrubConfigFlags())
	assert.Empty(t, cfg.SystemdConfigFlags())
}

func TestConfigReservationDowngrade(t *testing.T) {
	// A reservation with no cpu-range has no effect and reads as off.
	cfg := resolve(t, schema.Overrides{"reservation": "isolcpus"})
	assert.Equal(t, "off", cfg.Reservation())

	cfg = resolve(t, schema.Overrides{"reservation": "isolcpus", "cpu-range": "0-3"})
	assert.Equal(t, "isolcpus", cfg.Reservation())
	assert.Equal(t, "0-3", cfg.CPURange())
}

func TestConfigGrubFlagsPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		overrides schema.Overrides
		want      map[string]string
	}{
		{
			name:      "grub-config-flags only",
			overrides: schema.Overrides{"grub-config-flags": "quiet=1,splash=0"},
			want:      map[string]string{"quiet": "1", "splash": "0"},
		},
		{
			name:      "deprecated config-flags used when new field empty",
			overrides: schema.Overrides{"config-flags": "quiet=1"},
			want:      map[string]string{"quiet": "1"},
		},
		{
			name: "new field wins, no merging",
			overrides: schema.Overrides{
				"config-flags":      "old=1,shared=old",
				"grub-config-flags": "shared=new",
			},
			want: map[string]string{"shared": "new"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := resolve(t, tt.overrides)
			assert.Equal(t, tt.want, cfg.GrubConfigFlags())
		})
	}
}

func TestConfigV1HasNoIOMMU(t *testing.T) {
	r, err := schema.NewRegistry()
	require.NoError(t, err)

	v1, err := r.Get("v1")
	require.NoError(t, err)

	res, err := schema.Resolve(v1, nil)
	require.NoError(t, err)

	cfg := New(res)
	assert.False(t, cfg.EnableIOMMU(), "absent option reads as zero value")
	assert.Equal(t, "", cfg.KernelVersion())
}

func TestParseFlagMap(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "simple pairs",
			input: "key1=value1,key2=value2",
			want:  map[string]string{"key1": "value1", "key2": "value2"},
		},
		{
			name:  "spaces stripped",
			input: "key1 = value1, key2=value2",
			want:  map[string]string{"key1": "value1", "key2": "value2"},
		},
		{
			name:  "value containing equals kept intact",
			input: "opts=a=b",
			want:  map[string]string{"opts": "a=b"},
		},
		{
			name:  "malformed pairs skipped",
			input: "key1=value1,orphan,=novalue",
			want:  map[string]string{"key1": "value1"},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "empty value kept",
			input: "key1=",
			want:  map[string]string{"key1": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFlagMap(tt.input))
		})
	}
}

func TestFormatFlagMap(t *testing.T) {
	lines := FormatFlagMap(map[string]string{
		"zeta":  "2",
		"alpha": "1",
	})
	assert.Equal(t, []string{"alpha=1", "zeta=2"}, lines)

	assert.Empty(t, FormatFlagMap(nil))
}

func TestFlagMapRoundTrip(t *testing.T) {
	in := "key1=value1,key2=value2"
	lines := FormatFlagMap(ParseFlagMap(in))
	assert.Equal(t, []string{"key1=value1", "key2=value2"}, lines)
}
