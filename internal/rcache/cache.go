// Package rcache implements spec.md §4.11: the result cache. It remembers
// the last SearchResult returned for a DocumentId so the progressive-detail
// operation can upgrade an already-seen result to "full" detail without
// re-running fusion and ranking over the whole query.
package rcache

import (
	"context"
	"fmt"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/search"
)

// Capacity is the fixed entry count spec §4.11 sets ("Max 1000 entries").
// Entries are weighed equally, so eviction is purely by entry count.
const Capacity = 1000

// Upgrader is the narrow slice of *search.Planner the cache needs to
// materialize a missing "full" detail level, so tests can supply a fake.
type Upgrader interface {
	Upgrade(ctx context.Context, storeID coreid.StoreID, id coreid.DocumentID) (search.Result, error)
}

// Cache holds the most recently returned SearchResult per DocumentId.
type Cache struct {
	entries otter.Cache[coreid.DocumentID, search.Result]
}

// New builds an empty, fixed-capacity result cache.
func New() (*Cache, error) {
	entries, err := otter.MustBuilder[coreid.DocumentID, search.Result](Capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("rcache: building cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Put remembers result under its own id, overwriting whatever was cached
// for that id before. Callers store every result a search returns, at
// whatever detail level that search ran at.
func (c *Cache) Put(result search.Result) {
	c.entries.Set(result.ID, result)
}

// PutAll is a convenience for caching every result of one search envelope.
func (c *Cache) PutAll(results []search.Result) {
	for _, r := range results {
		c.Put(r)
	}
}

// Peek returns the cached entry for id, if any, without upgrading it.
func (c *Cache) Peek(id coreid.DocumentID) (search.Result, bool) {
	return c.entries.Get(id)
}

// GetFull returns id's result upgraded to full detail (spec §4.11: "retrieve
// and upgrade an already-seen result without re-searching unless the cached
// entry lacks full, in which case the search planner is invoked with
// detail=full, limit=1 constrained to the cached Store"). It is an error to
// ask for an id this cache has never seen — the progressive-detail
// operation only upgrades results a prior search already returned.
func (c *Cache) GetFull(ctx context.Context, upgrader Upgrader, id coreid.DocumentID) (search.Result, error) {
	cached, ok := c.entries.Get(id)
	if !ok {
		return search.Result{}, fmt.Errorf("rcache: result %s: %w", id, coreid.ErrNotFound)
	}
	if cached.Full != nil {
		return cached, nil
	}

	upgraded, err := upgrader.Upgrade(ctx, cached.Metadata.StoreID, id)
	if err != nil {
		return search.Result{}, fmt.Errorf("rcache: upgrading %s: %w", id, err)
	}
	c.entries.Set(id, upgraded)
	return upgraded, nil
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.entries.Clear()
}

// Close releases background resources held by the underlying cache.
func (c *Cache) Close() {
	c.entries.Close()
}
