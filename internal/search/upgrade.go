package search

import (
	"context"
	"fmt"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// Upgrade materializes the full detail level for one already-known
// document, without re-running fusion or ranking (spec §4.11: "the search
// planner is invoked with detail=full, limit=1 constrained to the cached
// Store"). It is the narrow operation the result cache calls when an
// entry it holds lacks Full.
func (p *Planner) Upgrade(ctx context.Context, storeID coreid.StoreID, id coreid.DocumentID) (Result, error) {
	s, ok := p.stores[storeID]
	if !ok {
		return Result{}, fmt.Errorf("search: store %s: %w", storeID, coreid.ErrNotFound)
	}

	doc, err := s.Get(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("search: upgrade %s: %w", id, err)
	}

	return Result{
		ID:       doc.ID,
		Summary:  summarize(doc),
		Context:  buildContext(ctx, p.graph, doc),
		Full:     buildFull(ctx, s, doc),
		Metadata: doc.Metadata,
	}, nil
}
