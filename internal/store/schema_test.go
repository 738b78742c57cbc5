package store

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateSchema_BootstrapsDimension(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, CreateSchema(db, 384))

	dim, err := StoredDimension(db)
	require.NoError(t, err)
	require.Equal(t, 384, dim)
}

func TestCreateSchema_IsIdempotentAndKeepsOriginalDimension(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, CreateSchema(db, 384))
	require.NoError(t, CreateSchema(db, 768)) // second call must not overwrite

	dim, err := StoredDimension(db)
	require.NoError(t, err)
	require.Equal(t, 384, dim)
}
