// Package indexer implements spec.md §4.5: for a given Store, walk its
// root, chunk and embed every eligible file, and write the resulting
// Documents in batches, reporting progress and honoring cooperative
// cancellation.
package indexer

import "context"

// Progress is one tick of an indexing run (spec §4.5 step 5: "{current,
// total, message}"), delivered over an explicit channel rather than a
// stored callback so the worker and its caller never share a lifetime
// (spec §9's progress-callback design note).
type Progress struct {
	Current int
	Total   int
	Message string
}

// CancellationPoller is the subset of the job engine's status surface the
// indexer polls once per progress tick (spec §4.5: "on each progress tick,
// poll the Job's status. Observing cancelled aborts the loop"). Kept
// narrow and local, the way internal/search's GraphSearcher narrows
// internal/graph.Searcher, so this package never imports the job engine.
type CancellationPoller interface {
	IsCancelled(ctx context.Context) (bool, error)
}

// Options configures one Run.
type Options struct {
	// RootDir is the Store's source root to walk.
	RootDir string

	// TextExtensions is the configured text-extension set (spec §4.5
	// step 1). Defaults to DefaultTextExtensions when nil.
	TextExtensions map[string]bool

	// BatchSize caps documents accumulated before a write (spec §4.5
	// step 4: "batches of ≤256"). Defaults to 256 when 0.
	BatchSize int

	// Incremental, when true, skips files whose content hash matches the
	// manifest recorded by the previous run (spec §4.5 step 2).
	Incremental bool
}

func (o Options) withDefaults() Options {
	if o.TextExtensions == nil {
		o.TextExtensions = DefaultTextExtensions()
	}
	if o.BatchSize <= 0 || o.BatchSize > 256 {
		o.BatchSize = 256
	}
	return o
}

// DefaultIgnoreDirs are pruned at any depth during the walk (spec §4.5
// step 1). Shared with the watcher's event filter (spec §4.12) so the two
// components never drift on what counts as ignorable.
func DefaultIgnoreDirs() map[string]bool {
	return map[string]bool{
		".git":         true,
		"node_modules": true,
		"dist":         true,
		"build":        true,
	}
}

// DefaultTextExtensions is the built-in text-extension set: every
// extension the chunker or graph builder knows how to parse, plus plain
// documentation and config extensions with no dedicated adapter.
func DefaultTextExtensions() map[string]bool {
	return map[string]bool{
		".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
		".py": true, ".rs": true, ".rb": true, ".java": true,
		".c": true, ".cc": true, ".cpp": true, ".h": true, ".hpp": true,
		".php": true, ".cs": true,
		".md": true, ".mdx": true, ".txt": true,
		".json": true, ".yaml": true, ".yml": true, ".toml": true,
	}
}
