package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/persist"
	"github.com/Krrish109/codegraph/store"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	doc := persist.Document{
		Nodes: []persist.NodeRecord{
			{ID: "n1", Kind: entity.KindFunction, Name: "Foo", FilePath: "a.go", LineStart: 1, LineEnd: 3},
		},
		Edges: []persist.EdgeRecord{
			{SourceID: "n1", TargetID: "n2", Type: store.EdgeCalls},
		},
		FileContentsKeys: []string{"a.go"},
		DependencyIndex:  map[string][]string{"Foo": {"a.go"}},
	}

	data, err := persist.Save(doc)
	require.NoError(t, err)

	loaded, err := persist.Load(data)
	require.NoError(t, err)
	assert.Equal(t, persist.FormatVersion, loaded.FormatVersion)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "Foo", loaded.Nodes[0].Name)
	require.Len(t, loaded.Edges, 1)
	assert.Equal(t, store.EdgeCalls, loaded.Edges[0].Type)
	assert.Equal(t, []string{"a.go"}, loaded.FileContentsKeys)
}

func TestLoad_RefusesNewerVersion(t *testing.T) {
	data := []byte("format_version: 999\n")
	_, err := persist.Load(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, persist.ErrUnsupportedVersion)
}

func TestLoad_LegacyFileContentsMapHarvestedIntoTrackedFiles(t *testing.T) {
	data := []byte(`format_version: 2
nodes: []
edges: []
file_contents:
  a.go: "package a"
  b.go: "package b"
`)
	doc, err := persist.Load(data)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, doc.TrackedFiles)
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, doc.FileContentsKeys)
}

func TestFromGraph_ToGraph_RoundTrip(t *testing.T) {
	g := store.New()
	g.AddNode(&store.Node{ID: "n1", Kind: entity.KindFunction, Name: "Foo", FilePath: "a.go"})
	g.AddNode(&store.Node{ID: "n2", Kind: entity.KindFunction, Name: "Bar", FilePath: "a.go"})
	g.AddEdge(&store.Edge{SourceID: "n1", TargetID: "n2", Type: store.EdgeCalls})

	nodes, edges := persist.FromGraph(g)
	doc := persist.Document{Nodes: nodes, Edges: edges}
	rebuilt := persist.ToGraph(doc)

	foo := rebuilt.GetNode("n1")
	require.NotNil(t, foo)
	assert.Equal(t, "Foo", foo.Name)
	require.Len(t, rebuilt.GetOutgoingEdges("n1"), 1)
}
