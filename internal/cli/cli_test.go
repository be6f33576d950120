package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euclidean-graph/internal/config"
	"euclidean-graph/internal/export"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var logs, stdout, stderr bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGenerateFormats(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		format string
		file   string
		check  func(t *testing.T, data []byte)
	}{
		{"json", "graph.json", func(t *testing.T, data []byte) {
			doc, err := export.ReadJSON(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, int64(9), doc.Seed)
			require.NotNil(t, doc.Config)
			_, err = doc.Graph()
			assert.NoError(t, err)
		}},
		{"geojson", "graph.geojson", func(t *testing.T, data []byte) {
			_, err := export.UnmarshalGeoJSON(data)
			assert.NoError(t, err)
		}},
		{"svg", "graph.svg", func(t *testing.T, data []byte) {
			assert.Contains(t, string(data), "<svg")
		}},
		{"dot", "graph.dot", func(t *testing.T, data []byte) {
			assert.True(t, strings.HasPrefix(string(data), "graph G {"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			_, stderr, err := run(t, "generate", "--seed", "9", "--format", tt.format, "--out", path)
			require.NoError(t, err)
			assert.Contains(t, stderr, "vertices")

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	first, _, err := run(t, "generate", "--seed", "21")
	require.NoError(t, err)
	second, _, err := run(t, "generate", "--seed", "21")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateOverrides(t *testing.T) {
	out, _, err := run(t, "generate", "--seed", "4", "--min-vertices", "12", "--max-vertices", "12", "--intersection", "exact")
	require.NoError(t, err)

	doc, err := export.ReadJSON(strings.NewReader(out))
	require.NoError(t, err)
	require.NotNil(t, doc.Config)
	assert.Equal(t, 12, doc.Config.MinVertices)
	assert.Equal(t, "exact", doc.Config.Intersection)
	assert.LessOrEqual(t, len(doc.Vertices), 12)
}

func TestGenerateErrors(t *testing.T) {
	_, _, err := run(t, "generate", "--format", "png")
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)

	_, _, err = run(t, "generate", "--min-vertices", "0")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, _, err = run(t, "generate", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestGenerateWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "graph.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("min_vertices = 5\nmax_vertices = 5\ntitle = \"Five\"\n"), 0o644))

	out, stderr, err := run(t, "generate", "--config", cfgPath, "--seed", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Five")

	doc, err := export.ReadJSON(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Five", doc.Config.Title)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	for _, file := range []string{"g.json", "g.geojson"} {
		t.Run(file, func(t *testing.T) {
			path := filepath.Join(dir, file)
			format := strings.TrimPrefix(filepath.Ext(file), ".")
			_, _, err := run(t, "generate", "--seed", "13", "--format", format, "--out", path)
			require.NoError(t, err)

			out, _, err := run(t, "inspect", path)
			require.NoError(t, err)
			assert.Contains(t, out, "components")
			assert.Contains(t, out, "invariants hold")
		})
	}

	t.Run("broken file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		body := `{"seed":1,"vertices":[{"x":1,"y":1},{"x":2,"y":2},{"x":3,"y":3}],"edges":[{"a":0,"b":1}]}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, _, err := run(t, "inspect", path)
		assert.Error(t, err)
	})
}
