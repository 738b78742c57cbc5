package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/embedclient"
	"github.com/mvp-joe/project-cortex/internal/store"
)

// Planner answers hybrid search requests across one or more Stores (spec
// §4.4).
type Planner struct {
	stores   map[coreid.StoreID]store.Store
	embedder embedclient.Provider
	graph    GraphSearcher
}

// NewPlanner builds a Planner over the given Stores. embedder computes the
// query vector for vector/hybrid modes; graph may be nil, in which case
// "contextual" detail omits related concepts and imports.
func NewPlanner(stores map[coreid.StoreID]store.Store, embedder embedclient.Provider, g GraphSearcher) *Planner {
	return &Planner{stores: stores, embedder: embedder, graph: g}
}

// Plan executes req and returns a populated Envelope. Searches always
// return a valid envelope, possibly with an empty result list, never an
// error for "no matches" (spec §7: "Searches always return a valid
// envelope").
func (p *Planner) Plan(ctx context.Context, req Request) (Envelope, error) {
	start := time.Now()
	req = req.normalize()

	if len(req.StoreIDs) == 0 {
		return Envelope{}, fmt.Errorf("search: at least one store id is required: %w", coreid.ErrInvalid)
	}

	var queryVector []float32
	if req.Mode != ModeFTS {
		vectors, err := p.embedder.Embed(ctx, []string{req.Query})
		if err != nil {
			return Envelope{}, fmt.Errorf("search: embed query: %w", err)
		}
		if len(vectors) == 0 {
			return Envelope{}, fmt.Errorf("search: embedder returned no vector")
		}
		queryVector = vectors[0]
	}

	fetchLimit := req.Limit * Overfetch

	candidates := make(map[coreid.DocumentID]*candidate)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, storeID := range req.StoreIDs {
		s, ok := p.stores[storeID]
		if !ok {
			return Envelope{}, fmt.Errorf("search: unknown store %s: %w", storeID, coreid.ErrNotFound)
		}
		s := s
		g.Go(func() error {
			return p.fetchStore(gctx, s, queryVector, fetchLimit, req, candidates, &mu)
		})
	}
	if err := g.Wait(); err != nil {
		return Envelope{}, err
	}

	ranked := fuse(candidates, req)

	maxRawCosine := 0.0
	sawVector := false
	for _, c := range candidates {
		if c.hasVector && c.rawCosine > maxRawCosine {
			maxRawCosine = c.rawCosine
			sawVector = true
		}
	}

	if req.RawCosineFloor != nil && len(ranked) == 0 {
		return Envelope{
			Mode:         req.Mode,
			Results:      []Result{},
			TotalResults: 0,
			ElapsedMS:    time.Since(start).Milliseconds(),
			Confidence:   ConfidenceLow,
		}, nil
	}

	if len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}

	results := make([]Result, 0, len(ranked))
	for _, rc := range ranked {
		results = append(results, p.materialize(ctx, rc, req))
	}

	return Envelope{
		Mode:         req.Mode,
		Results:      results,
		TotalResults: len(results),
		ElapsedMS:    time.Since(start).Milliseconds(),
		Confidence:   confidenceFor(maxRawCosine, sawVector),
	}, nil
}

// fetchStore requests candidates from one Store's enabled backends
// concurrently and merges them into the shared candidates map.
func (p *Planner) fetchStore(
	ctx context.Context,
	s store.Store,
	queryVector []float32,
	fetchLimit int,
	req Request,
	candidates map[coreid.DocumentID]*candidate,
	mu *sync.Mutex,
) error {
	g, gctx := errgroup.WithContext(ctx)

	var vectorHits, ftsHits []store.SearchHit

	if req.Mode != ModeFTS {
		g.Go(func() error {
			hits, err := s.Search(gctx, queryVector, fetchLimit, req.Filter)
			if err != nil {
				return fmt.Errorf("search: vector query: %w", err)
			}
			vectorHits = hits
			return nil
		})
	}
	if req.Mode != ModeVector {
		g.Go(func() error {
			hits, err := s.FTS(gctx, req.Query, fetchLimit, req.Filter)
			if err != nil {
				return fmt.Errorf("search: fts query: %w", err)
			}
			ftsHits = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	seen := make(map[coreid.DocumentID]bool, len(vectorHits)+len(ftsHits))
	for _, hit := range vectorHits {
		seen[hit.DocumentID] = true
	}
	for _, hit := range ftsHits {
		seen[hit.DocumentID] = true
	}

	// Hydrate full documents for every id this Store's hits named, needed
	// for file-type bonus and detail materialization. Done outside the
	// lock since Get is this Store's own read, independent of the shared
	// candidates map.
	docs := make(map[coreid.DocumentID]store.Document, len(seen))
	for id := range seen {
		doc, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		docs[id] = doc
	}

	mu.Lock()
	defer mu.Unlock()
	for _, hit := range vectorHits {
		c := candidates[hit.DocumentID]
		if c == nil {
			c = &candidate{id: hit.DocumentID, doc: docs[hit.DocumentID]}
			candidates[hit.DocumentID] = c
		}
		c.hasVector = true
		c.rawCosine = hit.Score
	}
	for _, hit := range ftsHits {
		c := candidates[hit.DocumentID]
		if c == nil {
			c = &candidate{id: hit.DocumentID, doc: docs[hit.DocumentID]}
			candidates[hit.DocumentID] = c
		}
		c.hasFTS = true
		c.rawFTS = hit.Score
	}
	return nil
}

// materialize builds the caller-visible Result for one ranked candidate.
func (p *Planner) materialize(ctx context.Context, rc rankedCandidate, req Request) Result {
	result := Result{
		ID:        rc.id,
		Score:     rc.score,
		RawCosine: rc.rawCosine,
		Summary:   summarize(rc.doc),
		Metadata:  rc.doc.Metadata,
	}

	s := p.stores[rc.doc.Metadata.StoreID]

	switch req.Detail {
	case DetailContextual:
		result.Context = buildContext(ctx, p.graph, rc.doc)
	case DetailFull:
		result.Context = buildContext(ctx, p.graph, rc.doc)
		result.Full = buildFull(ctx, s, rc.doc)
	}
	return result
}
