package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	t.Parallel()

	r, err := Open(t.TempDir())
	require.NoError(t, err)

	list, err := r.List(Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen_CorruptFileIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("not json"), 0o644))

	_, err := Open(dir)
	assert.ErrorIs(t, err, coreid.ErrCorruption)
}

func TestCreate_RejectsDuplicateName(t *testing.T) {
	t.Parallel()

	r, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = r.Create(Spec{Name: "docs", Kind: KindLocalDirectory, Path: "/tmp/docs"})
	require.NoError(t, err)

	_, err = r.Create(Spec{Name: "docs", Kind: KindLocalDirectory, Path: "/tmp/other"})
	assert.ErrorIs(t, err, coreid.ErrConflict)
}

func TestCreate_RejectsMissingKindSpecificField(t *testing.T) {
	t.Parallel()

	r, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = r.Create(Spec{Name: "x", Kind: KindWebCollection})
	assert.ErrorIs(t, err, coreid.ErrInvalid)
}

func TestCreate_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := Open(dir)
	require.NoError(t, err)

	s, err := r.Create(Spec{Name: "docs", Kind: KindLocalDirectory, Path: "/tmp/docs"})
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)

	got, err := reopened.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "docs", got.Name)
	assert.Equal(t, StatusPending, got.Status)
}

func TestGetByIDOrName_ResolvesEitherForm(t *testing.T) {
	t.Parallel()

	r, err := Open(t.TempDir())
	require.NoError(t, err)

	s, err := r.Create(Spec{Name: "docs", Kind: KindLocalDirectory, Path: "/tmp/docs"})
	require.NoError(t, err)

	byID, err := r.GetByIDOrName(string(s.ID))
	require.NoError(t, err)
	assert.Equal(t, s.ID, byID.ID)

	byName, err := r.GetByIDOrName("docs")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byName.ID)

	_, err = r.GetByIDOrName("does-not-exist")
	assert.ErrorIs(t, err, coreid.ErrNotFound)
}

func TestList_FiltersByKindStatusAndTag(t *testing.T) {
	t.Parallel()

	r, err := Open(t.TempDir())
	require.NoError(t, err)

	local, err := r.Create(Spec{Name: "local", Kind: KindLocalDirectory, Path: "/tmp/a", Tags: []string{"team-a"}})
	require.NoError(t, err)
	_, err = r.Create(Spec{Name: "web", Kind: KindWebCollection, URL: "https://example.com"})
	require.NoError(t, err)

	_, err = r.Update(local.ID, func(s *Store) { s.Status = StatusReady })
	require.NoError(t, err)

	byKind, err := r.List(Filter{Kind: KindWebCollection})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "web", byKind[0].Name)

	byStatus, err := r.List(Filter{Status: StatusReady})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, local.ID, byStatus[0].ID)

	byTag, err := r.List(Filter{Tag: "team-a"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, local.ID, byTag[0].ID)
}

func TestUpdate_RejectsRenameToExistingName(t *testing.T) {
	t.Parallel()

	r, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = r.Create(Spec{Name: "docs", Kind: KindLocalDirectory, Path: "/tmp/docs"})
	require.NoError(t, err)
	other, err := r.Create(Spec{Name: "other", Kind: KindLocalDirectory, Path: "/tmp/other"})
	require.NoError(t, err)

	_, err = r.Update(other.ID, func(s *Store) { s.Name = "docs" })
	assert.ErrorIs(t, err, coreid.ErrConflict)

	got, err := r.Get(other.ID)
	require.NoError(t, err)
	assert.Equal(t, "other", got.Name, "failed rename must not leave a partial mutation")
}

func TestDelete_RemovesStoreDataAndRegistryEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := Open(dir)
	require.NoError(t, err)

	s, err := r.Create(Spec{Name: "docs", Kind: KindLocalDirectory, Path: "/tmp/docs"})
	require.NoError(t, err)

	storeDir := filepath.Join(dir, "stores", string(s.ID))
	require.NoError(t, os.MkdirAll(storeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(storeDir, "marker.txt"), []byte("x"), 0o644))

	require.NoError(t, r.Delete(s.ID))

	_, err = r.Get(s.ID)
	assert.ErrorIs(t, err, coreid.ErrNotFound)
	_, err = os.Stat(storeDir)
	assert.True(t, os.IsNotExist(err))
}

func TestDelete_MissingStoreIsNotFound(t *testing.T) {
	t.Parallel()

	r, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.ErrorIs(t, r.Delete("does-not-exist"), coreid.ErrNotFound)
}

func TestDelete_SecondDeleteIsNotFound(t *testing.T) {
	t.Parallel()

	r, err := Open(t.TempDir())
	require.NoError(t, err)

	s, err := r.Create(Spec{Name: "docs", Kind: KindLocalDirectory, Path: "/tmp/docs"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(s.ID))
	assert.ErrorIs(t, r.Delete(s.ID), coreid.ErrNotFound)
}
