package serializer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysconf-dev/sysconf/pkg/schema"
)

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	err := w.Serialize(t.Context(), map[string]any{"governor": "performance"})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "performance", got["governor"])
}

func TestWriterYAMLResolution(t *testing.T) {
	r, err := schema.NewRegistry()
	require.NoError(t, err)
	res, err := schema.Resolve(r.Default(), schema.Overrides{"cpu-range": "0-3"})
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)
	require.NoError(t, w.Serialize(t.Context(), res))

	assert.Contains(t, buf.String(), "schemaVersion: v2")
	assert.Contains(t, buf.String(), "cpu-range: 0-3")
}

func TestWriterTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	doc := struct {
		Name   string
		Values map[string]string
	}{
		Name:   "grub",
		Values: map[string]string{"pti": "off"},
	}
	require.NoError(t, w.Serialize(t.Context(), doc))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Values.pti")
}

func TestWriterTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(t.Context(), struct{}{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestWriterUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)

	require.NoError(t, w.Serialize(t.Context(), map[string]string{"a": "b"}))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	w := NewFileWriterOrStdout(FormatYAML, path)

	require.NoError(t, w.Serialize(t.Context(), map[string]string{"governor": "powersave"}))
	if closer, ok := w.(Closer); ok {
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "governor: powersave")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{path: "overrides.json", want: FormatJSON},
		{path: "overrides.yaml", want: FormatYAML},
		{path: "OVERRIDES.YML", want: FormatYAML},
		{path: "report.table", want: FormatTable},
		{path: "report.txt", want: FormatTable},
		{path: "noextension", want: FormatJSON},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatFromPath(tc.path))
		})
	}
}

func TestReaderRejectsTable(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)
}

func TestReaderYAML(t *testing.T) {
	in := "reservation: isolcpus\ncpu-range: 0-3\nupdate-grub: true\n"

	r, err := NewReader(FormatYAML, strings.NewReader(in))
	require.NoError(t, err)

	var overrides map[string]any
	require.NoError(t, r.Deserialize(&overrides))

	assert.Equal(t, "isolcpus", overrides["reservation"])
	assert.Equal(t, true, overrides["update-grub"])
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("governor: performance\n"), 0o644))

	overrides, err := FromFile[map[string]any](path)
	require.NoError(t, err)
	assert.Equal(t, "performance", (*overrides)["governor"])
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile[map[string]any](filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
