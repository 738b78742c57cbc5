package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/store"
)

func TestUpgrade_MaterializesFullForKnownDocument(t *testing.T) {
	t.Parallel()

	s := newSearchTestStore(t, "s1")
	ctx := context.Background()

	doc := seedDoc("doc-1", "package main\n\nfunc Main() {}", []float32{1, 0, 0, 0}, store.FileTypeSource)
	require.NoError(t, s.AddDocuments(ctx, []store.Document{doc}))

	planner := NewPlanner(map[coreid.StoreID]store.Store{"s1": s}, fixedEmbedder{vector: []float32{1, 0, 0, 0}}, nil)

	result, err := planner.Upgrade(ctx, "s1", "doc-1")
	require.NoError(t, err)
	require.NotNil(t, result.Full)
	assert.Equal(t, doc.Content, result.Full.Content)
	assert.Equal(t, coreid.DocumentID("doc-1"), result.ID)
}

func TestUpgrade_UnknownStoreReturnsNotFound(t *testing.T) {
	t.Parallel()

	planner := NewPlanner(map[coreid.StoreID]store.Store{}, fixedEmbedder{vector: []float32{1, 0, 0, 0}}, nil)

	_, err := planner.Upgrade(context.Background(), "missing", "doc-1")
	assert.ErrorIs(t, err, coreid.ErrNotFound)
}

func TestUpgrade_UnknownDocumentReturnsError(t *testing.T) {
	t.Parallel()

	s := newSearchTestStore(t, "s1")
	planner := NewPlanner(map[coreid.StoreID]store.Store{"s1": s}, fixedEmbedder{vector: []float32{1, 0, 0, 0}}, nil)

	_, err := planner.Upgrade(context.Background(), "s1", "does-not-exist")
	assert.Error(t, err)
}
