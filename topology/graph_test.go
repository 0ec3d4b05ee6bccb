package topology

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGraph(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeGraph(t, `{
		"name": "app",
		"namespace": "ns",
		"id": 9007199254740993,
		"operators": [{"kind": "spl.relational::Filter"}],
		"views": [{"name": "counts"}, {"name": ""}, "junk", {"name": "errors"}]
	}`)

	g, err := LoadFile(path)
	require.NoError(t, err)

	graph, err := g.SPLGraph()
	require.NoError(t, err)
	assert.Equal(t, "app", graph["name"])
	assert.Equal(t, json.Number("9007199254740993"), graph["id"])

	views := g.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "counts", views[0].Name())
	assert.Equal(t, "errors", views[1].Name())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadFile(writeGraph(t, `not json`))
	assert.Error(t, err)
}

func TestStaticGraph_Empty(t *testing.T) {
	_, err := NewStaticGraph(nil).SPLGraph()
	assert.Error(t, err)
}

func TestBasicView(t *testing.T) {
	v := NewBasicView("counts")
	_, ok := v.StreamsContextConfig()
	assert.False(t, ok)

	v.SetStreamsContextConfig(ContextConfig{Username: "u", Password: "p", RestAPIURL: "https://sws"})
	cfg, ok := v.StreamsContextConfig()
	assert.True(t, ok)
	assert.Equal(t, "https://sws", cfg.RestAPIURL)

	g := NewStaticGraph(map[string]any{"name": "app"}, v)
	views := g.Views()
	views[0] = nil
	assert.NotNil(t, g.Views()[0], "Views must return a copy")
}
