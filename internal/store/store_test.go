package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

const testDimension = 4

func newTestStore(t *testing.T) *store {
	t.Helper()
	root := t.TempDir()
	s, err := Initialize(context.Background(), root, coreid.StoreID("test-store"), testDimension)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.(*store)
}

func testDoc(id, content string, vector []float32, fileType FileType) Document {
	return Document{
		ID:      coreid.DocumentID(id),
		Content: content,
		Vector:  vector,
		Metadata: Metadata{
			StoreID:   coreid.StoreID("test-store"),
			Kind:      KindChunk,
			IndexedAt: time.Now().UTC(),
			FileHash:  "hash-" + id,
			FileType:  fileType,
		},
	}
}

func TestStore_AddDocuments_SearchFindsNearestVector(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	docs := []Document{
		testDoc("a", "alpha content", []float32{1, 0, 0, 0}, FileTypeSource),
		testDoc("b", "beta content", []float32{0, 1, 0, 0}, FileTypeSource),
	}
	require.NoError(t, s.AddDocuments(ctx, docs))

	hits, err := s.Search(ctx, []float32{1, 0, 0, 0}, 1, Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, coreid.DocumentID("a"), hits[0].DocumentID)
	assert.InDelta(t, 1.0, hits[0].Score, 0.001)
}

func TestStore_AddDocuments_RejectsDimensionMismatch(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.AddDocuments(context.Background(), []Document{
		testDoc("a", "alpha", []float32{1, 0}, FileTypeSource),
	})
	assert.ErrorIs(t, err, coreid.ErrDimensionMismatch)
}

func TestStore_AddDocuments_UpsertByIDReplacesContent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddDocuments(ctx, []Document{
		testDoc("a", "original", []float32{1, 0, 0, 0}, FileTypeSource),
	}))
	require.NoError(t, s.AddDocuments(ctx, []Document{
		testDoc("a", "replaced", []float32{1, 0, 0, 0}, FileTypeSource),
	}))

	hits, err := s.FTS(ctx, "replaced", 10, Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, coreid.DocumentID("a"), hits[0].DocumentID)

	hits, err = s.FTS(ctx, "original", 10, Filter{})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_DeleteDocuments_RemovesFromBothIndexes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddDocuments(ctx, []Document{
		testDoc("a", "alpha content", []float32{1, 0, 0, 0}, FileTypeSource),
	}))
	require.NoError(t, s.DeleteDocuments(ctx, []coreid.DocumentID{"a"}))

	vecHits, err := s.Search(ctx, []float32{1, 0, 0, 0}, 10, Filter{})
	require.NoError(t, err)
	assert.Empty(t, vecHits)

	ftsHits, err := s.FTS(ctx, "alpha", 10, Filter{})
	require.NoError(t, err)
	assert.Empty(t, ftsHits)
}

func TestStore_Search_FiltersByFileType(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddDocuments(ctx, []Document{
		testDoc("a", "alpha content", []float32{1, 0, 0, 0}, FileTypeSource),
		testDoc("b", "alpha twin", []float32{1, 0, 0, 0}, FileTypeTest),
	}))

	hits, err := s.Search(ctx, []float32{1, 0, 0, 0}, 10, Filter{FileType: FileTypeTest})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, coreid.DocumentID("b"), hits[0].DocumentID)
}

func TestStore_Initialize_ReloadsExistingDataOnReopen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ctx := context.Background()

	s1, err := Initialize(ctx, root, coreid.StoreID("persisted"), testDimension)
	require.NoError(t, err)
	require.NoError(t, s1.AddDocuments(ctx, []Document{
		testDoc("a", "alpha content", []float32{1, 0, 0, 0}, FileTypeSource),
	}))
	require.NoError(t, s1.Close())

	s2, err := Initialize(ctx, root, coreid.StoreID("persisted"), testDimension)
	require.NoError(t, err)
	defer s2.Close()

	hits, err := s2.Search(ctx, []float32{1, 0, 0, 0}, 10, Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, coreid.DocumentID("a"), hits[0].DocumentID)
}

func TestStore_Initialize_DimensionMismatchOnReopen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ctx := context.Background()

	s1, err := Initialize(ctx, root, coreid.StoreID("fixed-dim"), testDimension)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	_, err = Initialize(ctx, root, coreid.StoreID("fixed-dim"), testDimension+1)
	assert.ErrorIs(t, err, coreid.ErrDimensionMismatch)
}

func TestStore_Get_ReturnsNotFoundForUnknownID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, coreid.ErrNotFound)
}

func TestStore_Get_ReturnsStoredDocument(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddDocuments(ctx, []Document{
		testDoc("a", "alpha content", []float32{1, 0, 0, 0}, FileTypeSource),
	}))

	doc, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha content", doc.Content)
}

func TestStore_SiblingChunks_OrdersByChunkIndex(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	mkChunk := func(id string, idx int) Document {
		d := testDoc(id, "chunk "+id, []float32{1, 0, 0, 0}, FileTypeSource)
		d.Metadata.FileHash = "shared-hash"
		d.Metadata.ChunkIndex = idx
		d.Metadata.TotalChunks = 3
		return d
	}
	require.NoError(t, s.AddDocuments(ctx, []Document{
		mkChunk("c2", 2), mkChunk("c0", 0), mkChunk("c1", 1),
	}))

	siblings, err := s.SiblingChunks(ctx, "shared-hash")
	require.NoError(t, err)
	require.Len(t, siblings, 3)
	assert.Equal(t, []coreid.DocumentID{"c0", "c1", "c2"},
		[]coreid.DocumentID{siblings[0].ID, siblings[1].ID, siblings[2].ID})
}

func TestDeleteStore_RemovesOnDiskData(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ctx := context.Background()

	s, err := Initialize(ctx, root, coreid.StoreID("to-delete"), testDimension)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, DeleteStore(root, coreid.StoreID("to-delete")))

	_, err = Initialize(ctx, root, coreid.StoreID("to-delete"), testDimension)
	require.NoError(t, err) // recreated cleanly, proving the old dir is gone
}
