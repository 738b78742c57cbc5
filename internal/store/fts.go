package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

const ftsBatchSize = 1000

// ftsIndex wraps a memory-only bleve index, rebuilt from canonical storage
// on Initialize and updated incrementally on writes, matching the teacher's
// bleve mapping approach.
type ftsIndex struct {
	mu    sync.RWMutex
	index bleve.Index
}

func newFTSIndex() (*ftsIndex, error) {
	index, err := bleve.NewMemOnly(buildFTSMapping())
	if err != nil {
		return nil, fmt.Errorf("store: create fts index: %w", err)
	}
	return &ftsIndex{index: index}, nil
}

// buildFTSMapping mirrors the teacher's per-field mapping: the content
// field gets the standard analyzer with term vectors for highlighting and
// phrase search, metadata filter fields get the keyword analyzer for exact
// matching.
func buildFTSMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	content := bleve.NewTextFieldMapping()
	content.Analyzer = "standard"
	content.Store = true
	content.Index = true
	content.IncludeTermVectors = true

	keyword := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = "keyword"
		fm.Store = true
		fm.Index = true
		return fm
	}

	idMapping := bleve.NewTextFieldMapping()
	idMapping.Analyzer = "keyword"
	idMapping.Store = true
	idMapping.Index = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("id", idMapping)
	docMapping.AddFieldMappingsAt("content", content)
	docMapping.AddFieldMappingsAt("kind", keyword())
	docMapping.AddFieldMappingsAt("file_type", keyword())
	docMapping.AddFieldMappingsAt("source_path", keyword())

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func ftsDocument(doc Document) map[string]any {
	return map[string]any{
		"id":          doc.ID.String(),
		"content":     doc.Content,
		"kind":        string(doc.Metadata.Kind),
		"file_type":   string(doc.Metadata.FileType),
		"source_path": doc.Metadata.SourcePath,
	}
}

// rebuild replaces the bleve index with one freshly built from docs,
// batching inserts the way the teacher's indexChunks does.
func (f *ftsIndex) rebuild(ctx context.Context, docs []Document) error {
	index, err := bleve.NewMemOnly(buildFTSMapping())
	if err != nil {
		return fmt.Errorf("store: create fts index: %w", err)
	}

	if err := batchIndex(ctx, index, docs); err != nil {
		index.Close()
		return err
	}

	f.mu.Lock()
	old := f.index
	f.index = index
	f.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

func batchIndex(ctx context.Context, index bleve.Index, docs []Document) error {
	batch := index.NewBatch()
	for i, doc := range docs {
		if i%ftsBatchSize == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if err := batch.Index(doc.ID.String(), ftsDocument(doc)); err != nil {
			return fmt.Errorf("store: batch index document %s: %w", doc.ID, err)
		}
		if batch.Size() >= ftsBatchSize {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("store: execute fts batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("store: execute final fts batch: %w", err)
		}
	}
	return nil
}

// add upserts documents into the live index (bleve's batch Index on an
// existing id replaces it, giving upsert-by-id semantics).
func (f *ftsIndex) add(ctx context.Context, docs []Document) error {
	f.mu.RLock()
	index := f.index
	f.mu.RUnlock()
	return batchIndex(ctx, index, docs)
}

// delete removes documents by id.
func (f *ftsIndex) delete(ids []coreid.DocumentID) error {
	f.mu.RLock()
	index := f.index
	f.mu.RUnlock()

	batch := index.NewBatch()
	for _, id := range ids {
		batch.Delete(id.String())
	}
	if batch.Size() == 0 {
		return nil
	}
	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("store: delete from fts index: %w", err)
	}
	return nil
}

// search runs a lexical query, returning up to k hits matching filter.
func (f *ftsIndex) search(queryText string, k int, filter Filter) ([]SearchHit, error) {
	f.mu.RLock()
	index := f.index
	f.mu.RUnlock()

	q := bleve.NewQueryStringQuery(queryText)
	searchRequest := bleve.NewSearchRequestOptions(q, k*resultMultiplier, 0, false)
	searchRequest.Fields = []string{"id", "kind", "file_type"}

	result, err := index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("store: fts search: %w", err)
	}

	hits := make([]SearchHit, 0, k)
	for _, hit := range result.Hits {
		if filter.Kind != "" {
			if kind, _ := hit.Fields["kind"].(string); kind != string(filter.Kind) {
				continue
			}
		}
		if filter.FileType != "" {
			if ft, _ := hit.Fields["file_type"].(string); ft != string(filter.FileType) {
				continue
			}
		}
		id, _ := hit.Fields["id"].(string)
		hits = append(hits, SearchHit{DocumentID: coreid.DocumentID(id), Score: hit.Score})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

func (f *ftsIndex) close() error {
	f.mu.RLock()
	index := f.index
	f.mu.RUnlock()
	if index == nil {
		return nil
	}
	return index.Close()
}
