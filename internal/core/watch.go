package core

import (
	"context"
	"time"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/watcher"
)

// Watch starts watching a local-directory Store for changes, debounced by
// debounce, reindexing incrementally on settle (spec §4.8). Idempotent per
// Store.
func (c *Context) Watch(ctx context.Context, storeID coreid.StoreID, debounce time.Duration, onReindex watcher.OnReindex, onError watcher.OnError) error {
	s, err := c.Registry.Get(storeID)
	if err != nil {
		return err
	}
	target := watcher.Target{
		StoreID:   storeID,
		RootDir:   s.Path,
		DataRoot:  c.opts.DataDir,
		Dimension: c.opts.EmbedDimensions,
	}
	return c.Watcher.Watch(ctx, target, debounce, onReindex, onError)
}

// Unwatch stops watching storeID, if it was being watched.
func (c *Context) Unwatch(storeID coreid.StoreID) error {
	return c.Watcher.Unwatch(storeID)
}
