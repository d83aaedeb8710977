package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{
			name:  "major only",
			input: "2",
			want:  Version{Major: 2, Precision: 1},
		},
		{
			name:  "v prefix",
			input: "v1",
			want:  Version{Major: 1, Precision: 1},
		},
		{
			name:  "major minor",
			input: "5.15",
			want:  Version{Major: 5, Minor: 15, Precision: 2},
		},
		{
			name:  "kernel release",
			input: "5.15.0-100-generic",
			want:  Version{Major: 5, Minor: 15, Patch: 0, Precision: 3, Extras: "-100-generic"},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "non numeric",
			input:   "1.x.3",
			wantErr: true,
		},
		{
			name:    "too many components",
			input:   "1.2.3.4",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseVersion(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "v1", b: "v1", want: 0},
		{name: "newer major", a: "v2", b: "v1", want: 1},
		{name: "older major", a: "v1", b: "v10", want: -1},
		{name: "kernel newer minor", a: "5.16.0", b: "5.15.0", want: 1},
		{name: "extras ignored", a: "5.15.0-100-generic", b: "5.15.0-142-generic", want: 0},
		{name: "mixed precision", a: "5.15", b: "5.15.7", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := MustParseVersion(tc.a)
			b := MustParseVersion(tc.b)
			assert.Equal(t, tc.want, a.Compare(b))
		})
	}
}

func TestIsNewer(t *testing.T) {
	assert.True(t, MustParseVersion("v2").IsNewer(MustParseVersion("v1")))
	assert.False(t, MustParseVersion("v1").IsNewer(MustParseVersion("v1")))
	assert.True(t, MustParseVersion("v10").IsNewer(MustParseVersion("v9")),
		"numeric ordering, not lexicographic")
}

func TestString(t *testing.T) {
	assert.Equal(t, "1", MustParseVersion("v1").String())
	assert.Equal(t, "5.15", MustParseVersion("5.15").String())
	assert.Equal(t, "5.15.0", MustParseVersion("5.15.0-100-generic").String())
}
