package graph

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearcher(t *testing.T, data *GraphData) Searcher {
	t.Helper()
	tmpDir := t.TempDir()
	storage, err := NewStorage(filepath.Join(tmpDir, "graph"))
	require.NoError(t, err)
	require.NoError(t, storage.Save(data))

	searcher, err := NewSearcher(storage)
	require.NoError(t, err)
	return searcher
}

func TestSearcher_Callers_DirectDepth(t *testing.T) {
	t.Parallel()

	data := &GraphData{
		Nodes: []Node{
			{ID: "a.go:Foo"},
			{ID: "a.go:Bar"},
		},
		Edges: []Edge{
			{From: "a.go:Bar", To: "a.go:Foo", Type: EdgeCalls, Confidence: 0.9},
		},
	}
	searcher := newTestSearcher(t, data)

	results, err := searcher.Query(context.Background(), QueryRequest{
		Operation: OperationCallers,
		Target:    "a.go:Foo",
		Depth:     1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.go:Bar", results[0].Node.ID)
	assert.Equal(t, 1, results[0].Depth)
}

func TestSearcher_Callees_TransitiveDepth(t *testing.T) {
	t.Parallel()

	data := &GraphData{
		Nodes: []Node{
			{ID: "a.go:Foo"},
			{ID: "a.go:Bar"},
			{ID: "a.go:Baz"},
		},
		Edges: []Edge{
			{From: "a.go:Foo", To: "a.go:Bar", Type: EdgeCalls, Confidence: 0.9},
			{From: "a.go:Bar", To: "a.go:Baz", Type: EdgeCalls, Confidence: 0.9},
		},
	}
	searcher := newTestSearcher(t, data)

	depth1, err := searcher.Query(context.Background(), QueryRequest{
		Operation: OperationCallees,
		Target:    "a.go:Foo",
		Depth:     1,
	})
	require.NoError(t, err)
	require.Len(t, depth1, 1)
	assert.Equal(t, "a.go:Bar", depth1[0].Node.ID)

	depth2, err := searcher.Query(context.Background(), QueryRequest{
		Operation: OperationCallees,
		Target:    "a.go:Foo",
		Depth:     2,
	})
	require.NoError(t, err)
	require.Len(t, depth2, 2)
	assert.Equal(t, "a.go:Bar", depth2[0].Node.ID)
	assert.Equal(t, "a.go:Baz", depth2[1].Node.ID)
	assert.Equal(t, 2, depth2[1].Depth)
}

func TestSearcher_Imports_IsAlwaysDepthOne(t *testing.T) {
	t.Parallel()

	data := &GraphData{
		Nodes: []Node{{ID: "b.go:Thing"}},
		Edges: []Edge{
			{From: "a.go", To: "b.go", Type: EdgeImports, Confidence: 1.0},
		},
	}
	searcher := newTestSearcher(t, data)

	results, err := searcher.Query(context.Background(), QueryRequest{
		Operation: OperationImports,
		Target:    "a.go",
	})
	require.NoError(t, err)
	// b.go has no node of its own (only b.go:Thing does), so the import
	// target resolves to no vertex and is dropped rather than erroring.
	assert.Empty(t, results)
}

func TestSearcher_UnresolvedCalleeHasNoNode(t *testing.T) {
	t.Parallel()

	data := &GraphData{
		Nodes: []Node{{ID: "a.go:Foo"}},
		Edges: []Edge{
			{From: "a.go:Foo", To: UnresolvedCalleeID("a.go", "mystery"), Type: EdgeCalls, Confidence: 0.3},
		},
	}
	searcher := newTestSearcher(t, data)

	results, err := searcher.Query(context.Background(), QueryRequest{
		Operation: OperationCallees,
		Target:    "a.go:Foo",
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearcher_Reload_PicksUpNewGraph(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	storage, err := NewStorage(filepath.Join(tmpDir, "graph"))
	require.NoError(t, err)
	require.NoError(t, storage.Save(&GraphData{Nodes: []Node{{ID: "a.go:Foo"}}}))

	searcher, err := NewSearcher(storage)
	require.NoError(t, err)

	require.NoError(t, storage.Save(&GraphData{
		Nodes: []Node{{ID: "a.go:Foo"}, {ID: "a.go:Bar"}},
		Edges: []Edge{{From: "a.go:Bar", To: "a.go:Foo", Type: EdgeCalls, Confidence: 0.9}},
	}))
	require.NoError(t, searcher.Reload(context.Background()))

	results, err := searcher.Query(context.Background(), QueryRequest{
		Operation: OperationCallers,
		Target:    "a.go:Foo",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.go:Bar", results[0].Node.ID)
}

func TestSearcher_Query_UnsupportedOperation(t *testing.T) {
	t.Parallel()

	searcher := newTestSearcher(t, &GraphData{})
	_, err := searcher.Query(context.Background(), QueryRequest{Operation: "implementations"})
	assert.Error(t, err)
}

func TestSearcher_Query_RespectsCancelledContext(t *testing.T) {
	t.Parallel()

	searcher := newTestSearcher(t, &GraphData{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := searcher.Query(ctx, QueryRequest{Operation: OperationCallers, Target: "a.go:Foo"})
	assert.ErrorIs(t, err, context.Canceled)
}
