package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mvp-joe/project-cortex/internal/chunker"
	"github.com/mvp-joe/project-cortex/internal/chunker/lang"
	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/embedclient"
	"github.com/mvp-joe/project-cortex/internal/graph"
	"github.com/mvp-joe/project-cortex/internal/indexer"
	"github.com/mvp-joe/project-cortex/internal/jobs"
	"github.com/mvp-joe/project-cortex/internal/rcache"
	"github.com/mvp-joe/project-cortex/internal/registry"
	"github.com/mvp-joe/project-cortex/internal/store"
	"github.com/mvp-joe/project-cortex/internal/watcher"
)

// Context is the running system: one Registry, one job Engine, one
// embedding client, one Indexer, one Watcher, and one result cache,
// shared across every Store the Registry knows about. It is the single
// object cmd/cortexctl depends on.
type Context struct {
	opts     Options
	Registry *registry.Registry
	Jobs     *jobs.Engine
	Embedder embedclient.Provider
	Watcher  *watcher.Watcher
	Cache    *rcache.Cache

	dispatcher *chunker.Dispatcher
	langs      *lang.Registry

	mu     sync.Mutex
	stores map[coreid.StoreID]store.Store
}

// Open wires every collaborator together under opts.DataDir, creating the
// directory tree if it doesn't exist yet.
func Open(opts Options) (*Context, error) {
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("core: creating data dir %s: %w", opts.DataDir, err)
	}

	reg, err := registry.Open(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("core: opening registry: %w", err)
	}

	engine, err := jobs.NewEngine(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("core: opening job engine: %w", err)
	}

	cache, err := rcache.New()
	if err != nil {
		return nil, fmt.Errorf("core: building result cache: %w", err)
	}

	embedder := embedclient.NewHTTPProvider(opts.EmbedEndpoint, opts.EmbedDimensions)

	langRegistry := lang.NewRegistry()
	chunker.RegisterBuiltins(langRegistry)
	dispatcher := chunker.NewDispatcher(langRegistry, chunker.Options{
		WindowSize:    opts.ChunkSize,
		WindowOverlap: opts.ChunkOverlap,
	})

	ix := indexer.New(dispatcher, embedder, nil, nil)

	c := &Context{
		opts:       opts,
		Registry:   reg,
		Jobs:       engine,
		Embedder:   embedder,
		Cache:      cache,
		dispatcher: dispatcher,
		langs:      langRegistry,
		stores:     make(map[coreid.StoreID]store.Store),
	}
	c.Watcher = watcher.New(ix)
	return c, nil
}

// Close releases every collaborator holding background resources. Every
// watch is stopped and open Stores are closed; in-flight jobs are left
// running (spec has no "shut down while a job is in flight" contract —
// closing the core process does not cancel out-of-process workers).
func (c *Context) Close() error {
	c.Watcher.UnwatchAll()

	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for id, s := range c.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("core: closing store %s: %w", id, err)
		}
	}
	c.Cache.Close()
	if err := c.Embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// openStore lazily opens and caches the Store backing a registered entry,
// reusing the instance across calls within this Context's lifetime.
func (c *Context) openStore(id coreid.StoreID) (store.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.stores[id]; ok {
		return s, nil
	}
	s, err := store.Initialize(context.Background(), c.opts.DataDir, id, c.opts.EmbedDimensions)
	if err != nil {
		return nil, fmt.Errorf("core: opening store %s: %w", id, err)
	}
	c.stores[id] = s
	return s, nil
}

// graphSearcherFor builds a graph.Searcher over id's code graph, suitable
// for one Search call's "contextual" detail enrichment.
func (c *Context) graphSearcherFor(id coreid.StoreID) (graph.Searcher, error) {
	gs, err := graph.NewStorage(c.storeDataDir(id))
	if err != nil {
		return nil, err
	}
	return graph.NewSearcher(gs)
}

// storeDataDir returns <data>/stores/<id>, matching internal/store's own
// private layout (store.DeleteStore removes exactly this directory).
func (c *Context) storeDataDir(id coreid.StoreID) string {
	return filepath.Join(c.opts.DataDir, "stores", string(id))
}
