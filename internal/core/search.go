package core

import (
	"context"
	"fmt"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/search"
	"github.com/mvp-joe/project-cortex/internal/store"
)

// Search opens every requested Store, runs req through a fresh Planner,
// and caches every returned result for later progressive-detail upgrades
// (spec §4.4, §4.11). When req targets exactly one Store, that Store's
// code graph backs "contextual" detail's related-symbol enrichment;
// across multiple Stores there is no single graph to consult, so
// contextual detail omits it.
func (c *Context) Search(ctx context.Context, req search.Request) (search.Envelope, error) {
	stores := make(map[coreid.StoreID]store.Store, len(req.StoreIDs))
	for _, id := range req.StoreIDs {
		s, err := c.openStore(id)
		if err != nil {
			return search.Envelope{}, fmt.Errorf("core: search: %w", err)
		}
		stores[id] = s
	}

	var gs search.GraphSearcher
	if len(req.StoreIDs) == 1 {
		if g, err := c.graphSearcherFor(req.StoreIDs[0]); err == nil {
			gs = g
		}
	}

	req.VectorWeight = &c.opts.VectorWeight
	req.FTSWeight = &c.opts.FTSWeight

	planner := search.NewPlanner(stores, c.Embedder, gs)
	envelope, err := planner.Plan(ctx, req)
	if err != nil {
		return search.Envelope{}, err
	}

	c.Cache.PutAll(envelope.Results)
	return envelope, nil
}

// GetFull returns result id upgraded to full detail, using the result
// cache's memory of the last search that returned it (spec §4.11).
func (c *Context) GetFull(ctx context.Context, id coreid.DocumentID) (search.Result, error) {
	return c.Cache.GetFull(ctx, &cacheUpgrader{ctx: c}, id)
}

// cacheUpgrader adapts Context's lazily-opened stores to rcache.Upgrader,
// since search.Planner.Upgrade needs the one Store backing the cached
// result rather than the full multi-store map a fresh Search builds.
type cacheUpgrader struct {
	ctx *Context
}

func (u *cacheUpgrader) Upgrade(ctx context.Context, storeID coreid.StoreID, id coreid.DocumentID) (search.Result, error) {
	s, err := u.ctx.openStore(storeID)
	if err != nil {
		return search.Result{}, err
	}
	planner := search.NewPlanner(map[coreid.StoreID]store.Store{storeID: s}, u.ctx.Embedder, nil)
	return planner.Upgrade(ctx, storeID, id)
}
