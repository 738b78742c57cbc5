// Package crawl implements spec.md §4.9: the boundary between an external
// crawler (browser automation, LLM extraction — out of scope here) and a
// web Store. It turns crawled pages into single-chunk Documents the same
// way internal/indexer turns files into Documents, without sub-chunking.
package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/embedclient"
	"github.com/mvp-joe/project-cortex/internal/store"
)

// Page is one crawled web page, supplied by the external crawler.
type Page struct {
	URL      string
	Title    string
	Markdown string
	Summary  string // optional LLM-extracted summary; empty if absent
}

// contentToEmbed returns the summary if present, else the markdown
// rendering (spec §4.9: "the content-to-embed (extracted if present,
// else markdown)").
func (p Page) contentToEmbed() string {
	if p.Summary != "" {
		return p.Summary
	}
	return p.Markdown
}

// Progress reports ingestion progress, one tick per page.
type Progress struct {
	Current int
	Total   int
	Message string
}

// CancellationPoller is polled between pages, mirroring
// internal/indexer.CancellationPoller — defined locally rather than
// imported so internal/crawl and internal/indexer stay decoupled; a
// jobs.Poller satisfies both structurally.
type CancellationPoller interface {
	IsCancelled(ctx context.Context) (bool, error)
}

const writeBatchSize = 256

// Ingest writes pages into s as single-chunk web Documents. Embedding
// goes through embedclient.EmbedBatch (spec §4.7's batch contract);
// writes commit in batches of up to 256 (spec §4.3's batch contract,
// reused here). Cancellation is polled once per page; on cancellation
// Ingest returns a wrapped coreid.ErrCancelled, leaving documents already
// committed in place.
func Ingest(
	ctx context.Context,
	storeID coreid.StoreID,
	s store.Store,
	pages []Page,
	embedder embedclient.Provider,
	poller CancellationPoller,
	progressCh chan<- Progress,
) error {
	total := len(pages)
	texts := make([]string, total)
	for i, page := range pages {
		texts[i] = page.contentToEmbed()
	}

	vectors, err := embedclient.EmbedBatch(ctx, embedder, texts, nil)
	if err != nil {
		return fmt.Errorf("crawl: embedding pages: %w", err)
	}

	batch := make([]store.Document, 0, writeBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.AddDocuments(ctx, batch); err != nil {
			return fmt.Errorf("crawl: writing batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for i, page := range pages {
		if poller != nil {
			cancelled, err := poller.IsCancelled(ctx)
			if err != nil {
				return fmt.Errorf("crawl: checking cancellation: %w", err)
			}
			if cancelled {
				return fmt.Errorf("crawl: %w", coreid.ErrCancelled)
			}
		}

		batch = append(batch, buildDocument(storeID, page, texts[i], vectors[i]))
		if len(batch) >= writeBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}

		if progressCh != nil {
			select {
			case progressCh <- Progress{Current: i + 1, Total: total, Message: page.URL}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return flush()
}

func buildDocument(storeID coreid.StoreID, page Page, content string, vector []float32) store.Document {
	return store.Document{
		ID:      coreid.DocumentIDForURL(storeID, page.URL),
		Content: content,
		Vector:  vector,
		Metadata: store.Metadata{
			StoreID:     storeID,
			Kind:        store.KindWeb,
			IndexedAt:   time.Now().UTC(),
			SourceURL:   page.URL,
			FileHash:    coreid.URLHash(page.URL),
			ChunkIndex:  0,
			TotalChunks: 1,
			FileType:    classifyPage(page),
		},
	}
}

// classifyPage applies the same documentation/changelog-leaning rules
// spec §4.7 uses for files, run against the page's URL path rather than
// a filesystem path — crawled pages have no file extension to classify
// by, but titles/URLs commonly still carry "changelog", "readme", etc.
func classifyPage(page Page) store.FileType {
	return store.Classify(page.URL)
}
