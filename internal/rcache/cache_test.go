package rcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/search"
	"github.com/mvp-joe/project-cortex/internal/store"
)

type stubUpgrader struct {
	calls  int
	result search.Result
	err    error
}

func (u *stubUpgrader) Upgrade(ctx context.Context, storeID coreid.StoreID, id coreid.DocumentID) (search.Result, error) {
	u.calls++
	return u.result, u.err
}

func TestGetFull_ReturnsCachedEntryWithoutUpgradingWhenFullAlreadyPresent(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	c.Put(search.Result{ID: "doc-1", Full: &search.Full{Content: "already full"}})

	up := &stubUpgrader{}
	got, err := c.GetFull(context.Background(), up, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "already full", got.Full.Content)
	assert.Equal(t, 0, up.calls, "must not invoke the planner when full is already cached")
}

func TestGetFull_InvokesUpgraderWhenCachedEntryLacksFull(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	c.Put(search.Result{
		ID:       "doc-1",
		Metadata: store.Metadata{StoreID: "s1"},
	})

	up := &stubUpgrader{result: search.Result{ID: "doc-1", Full: &search.Full{Content: "upgraded"}}}
	got, err := c.GetFull(context.Background(), up, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "upgraded", got.Full.Content)
	assert.Equal(t, 1, up.calls)

	// second call now finds full already cached
	got2, err := c.GetFull(context.Background(), up, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "upgraded", got2.Full.Content)
	assert.Equal(t, 1, up.calls, "must reuse the upgraded entry instead of upgrading again")
}

func TestGetFull_UnknownIDReturnsNotFound(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	_, err = c.GetFull(context.Background(), &stubUpgrader{}, "does-not-exist")
	assert.ErrorIs(t, err, coreid.ErrNotFound)
}

func TestPutAll_CachesEveryResult(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	c.PutAll([]search.Result{{ID: "a"}, {ID: "b"}})

	_, ok := c.Peek("a")
	assert.True(t, ok)
	_, ok = c.Peek("b")
	assert.True(t, ok)
}

func TestClear_RemovesAllEntries(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	c.Put(search.Result{ID: "a"})
	c.Clear()

	_, ok := c.Peek("a")
	assert.False(t, ok)
}
