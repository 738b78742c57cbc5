package indexer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mvp-joe/project-cortex/internal/chunker"
	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/embedclient"
	"github.com/mvp-joe/project-cortex/internal/graph"
	"github.com/mvp-joe/project-cortex/internal/store"
)

// Indexer runs spec §4.5's scan→chunk→embed→write algorithm against one
// Store at a time. A single Indexer is reusable across Stores: the
// language/embedding collaborators it holds are process-wide, while the
// per-Store collaborators (the Store itself, its graph storage, its data
// directory) are supplied per Run via Target.
type Indexer struct {
	dispatcher *chunker.Dispatcher
	embedder   embedclient.Provider
	graph      graph.Builder
	poller     CancellationPoller
}

// New builds an Indexer. poller may be nil, in which case Run never
// observes cancellation (suitable for tests and one-off CLI runs outside
// the job engine).
func New(dispatcher *chunker.Dispatcher, embedder embedclient.Provider, graphBuilder graph.Builder, poller CancellationPoller) *Indexer {
	return &Indexer{dispatcher: dispatcher, embedder: embedder, graph: graphBuilder, poller: poller}
}

// Target bundles the per-Store collaborators one Run needs.
type Target struct {
	StoreID      coreid.StoreID
	Store        store.Store
	GraphStorage graph.Storage
	DataDir      string // store's data directory; manifest.json lives here
}

// Run executes spec §4.5's algorithm against target, reporting progress on
// progressCh (at least once per file) and aborting with a wrapped
// coreid.ErrCancelled if the poller reports cancellation. progressCh may be
// nil to discard progress. Documents already committed in prior batches
// remain on a cancelled or failed run; only the in-flight, not-yet-written
// batch is lost.
func (ix *Indexer) Run(ctx context.Context, target Target, opts Options, progressCh chan<- Progress) error {
	opts = opts.withDefaults()

	files, err := walk(opts.RootDir, DefaultIgnoreDirs(), opts.TextExtensions)
	if err != nil {
		return fmt.Errorf("indexer: walk %s: %w", opts.RootDir, err)
	}

	m, err := loadManifest(target.DataDir)
	if err != nil {
		return fmt.Errorf("indexer: load manifest: %w", err)
	}

	var batch []store.Document
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := target.Store.AddDocuments(ctx, batch); err != nil {
			return fmt.Errorf("indexer: write batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	report := func(current int, message string) {
		if progressCh == nil {
			return
		}
		select {
		case progressCh <- Progress{Current: current, Total: len(files), Message: message}:
		case <-ctx.Done():
		}
	}

	for i, path := range files {
		if ix.poller != nil {
			cancelled, err := ix.poller.IsCancelled(ctx)
			if err != nil {
				return fmt.Errorf("indexer: poll cancellation: %w", err)
			}
			if cancelled {
				return fmt.Errorf("indexer: %w", coreid.ErrCancelled)
			}
		}

		relPath, err := filepath.Rel(opts.RootDir, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		docs, fileHash, skipped, err := ix.processFile(ctx, target.StoreID, path, relPath, opts, m)
		if err != nil {
			log.Printf("indexer: skipping %s: %v", relPath, err)
			report(i+1, relPath)
			continue
		}
		if !skipped {
			batch = append(batch, docs...)
			m.FileChecksums[relPath] = fileHash
			if len(batch) >= opts.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		report(i+1, relPath)
	}

	if err := flush(); err != nil {
		return err
	}

	if err := ix.updateGraph(ctx, target, opts, files); err != nil {
		return err
	}

	if err := m.save(target.DataDir); err != nil {
		return fmt.Errorf("indexer: save manifest: %w", err)
	}
	return nil
}

// processFile implements spec §4.5 steps 2–3 for one file: read, hash,
// incremental-skip check, chunk, embed, and compose Documents.
func (ix *Indexer) processFile(
	ctx context.Context,
	storeID coreid.StoreID,
	path, relPath string,
	opts Options,
	m *manifest,
) (docs []store.Document, fileHash string, skipped bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", false, fmt.Errorf("read: %w", err)
	}
	fileHash = coreid.FileHash(content)

	if opts.Incremental && m.FileChecksums[relPath] == fileHash {
		return nil, fileHash, true, nil
	}

	chunks := ix.dispatcher.Chunk(string(content), relPath)
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := embedclient.EmbedBatch(ctx, ix.embedder, texts, nil)
	if err != nil {
		return nil, "", false, fmt.Errorf("embed: %w", err)
	}

	fileType := store.Classify(relPath)
	now := time.Now().UTC()

	docs = make([]store.Document, len(chunks))
	for i, c := range chunks {
		var id coreid.DocumentID
		kind := store.KindChunk
		if len(chunks) == 1 {
			id = coreid.DocumentIDForFile(storeID, fileHash)
			kind = store.KindFile
		} else {
			id = coreid.DocumentIDForChunk(storeID, fileHash, i)
		}

		docs[i] = store.Document{
			ID:      id,
			Content: c.Content,
			Vector:  vectors[i],
			Metadata: store.Metadata{
				StoreID:        storeID,
				Kind:           kind,
				IndexedAt:      now,
				SourcePath:     relPath,
				FileHash:       fileHash,
				ChunkIndex:     c.ChunkIndex,
				TotalChunks:    c.TotalChunks,
				FileType:       fileType,
				SectionHeader:  c.SectionHeader,
				SymbolName:     c.SymbolName,
				HasDocComments: c.HasDocComment,
			},
		}
	}
	return docs, fileHash, false, nil
}

// updateGraph refreshes the Store's code graph after a run: a full build
// the first time (no graph on disk yet), otherwise incremental over the
// files this run just processed (spec §4.2, shared via SPEC_FULL.md's
// indexer↔graph wiring).
func (ix *Indexer) updateGraph(ctx context.Context, target Target, opts Options, files []string) error {
	if ix.graph == nil || target.GraphStorage == nil {
		return nil
	}

	previous, err := target.GraphStorage.Load()
	if err != nil {
		return fmt.Errorf("indexer: load graph: %w", err)
	}

	var data *graph.GraphData
	if previous == nil {
		data, err = ix.graph.BuildFull(ctx, files)
	} else {
		data, err = ix.graph.BuildIncremental(ctx, previous, files, nil)
	}
	if err != nil {
		return fmt.Errorf("indexer: build graph: %w", err)
	}

	if err := target.GraphStorage.Save(data); err != nil {
		return fmt.Errorf("indexer: save graph: %w", err)
	}
	return nil
}
