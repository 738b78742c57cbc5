package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest_LoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()

	m, err := loadManifest(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, m.FileChecksums)
}

func TestManifest_SaveThenLoadRoundTrips(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := &manifest{FileChecksums: map[string]string{"a.go": "hash1"}}
	require.NoError(t, m.save(dir))

	reloaded, err := loadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "hash1", reloaded.FileChecksums["a.go"])
}
