package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SaveAndLoad(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	graphDir := filepath.Join(tmpDir, "graph")

	storage, err := NewStorage(graphDir)
	require.NoError(t, err)

	testData := &GraphData{
		Nodes: []Node{
			{ID: "test.go:Foo", Kind: NodeFunction, File: "test.go", StartLine: 10, EndLine: 20},
			{ID: "test.go:Bar", Kind: NodeFunction, File: "test.go", StartLine: 25, EndLine: 35},
		},
		Edges: []Edge{
			{
				From:       "test.go:Foo",
				To:         "test.go:Bar",
				Type:       EdgeCalls,
				Confidence: 0.9,
				Location:   Location{File: "test.go", Line: 15},
			},
		},
	}

	require.NoError(t, storage.Save(testData))
	assert.True(t, storage.Exists())

	loaded, err := storage.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, GraphVersion, loaded.Metadata.Version)
	assert.Equal(t, 2, loaded.Metadata.NodeCount)
	assert.Equal(t, 1, loaded.Metadata.EdgeCount)

	require.Len(t, loaded.Nodes, 2)
	assert.Equal(t, "test.go:Foo", loaded.Nodes[0].ID)
	assert.Equal(t, "test.go:Bar", loaded.Nodes[1].ID)

	require.Len(t, loaded.Edges, 1)
	assert.Equal(t, "test.go:Foo", loaded.Edges[0].From)
	assert.Equal(t, "test.go:Bar", loaded.Edges[0].To)
	assert.Equal(t, EdgeCalls, loaded.Edges[0].Type)
}

func TestStorage_LoadNonExistent(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	graphDir := filepath.Join(tmpDir, "graph")

	storage, err := NewStorage(graphDir)
	require.NoError(t, err)

	loaded, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.False(t, storage.Exists())
}

func TestStorage_AtomicWriteLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	graphDir := filepath.Join(tmpDir, "graph")

	storage, err := NewStorage(graphDir)
	require.NoError(t, err)

	testData := &GraphData{
		Nodes: []Node{{ID: "test.go:Foo", Kind: NodeFunction, File: "test.go", StartLine: 1, EndLine: 10}},
		Edges: []Edge{},
	}
	require.NoError(t, storage.Save(testData))

	entries, err := os.ReadDir(graphDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, GraphFileName, entries[0].Name())
}

func TestStorage_SaveOverwritesPreviousGraph(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	graphDir := filepath.Join(tmpDir, "graph")
	storage, err := NewStorage(graphDir)
	require.NoError(t, err)

	require.NoError(t, storage.Save(&GraphData{
		Nodes: []Node{{ID: "a", Kind: NodeFunction, File: "a.go"}},
	}))
	require.NoError(t, storage.Save(&GraphData{
		Nodes: []Node{{ID: "b", Kind: NodeFunction, File: "b.go"}},
	}))

	loaded, err := storage.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "b", loaded.Nodes[0].ID)
}
