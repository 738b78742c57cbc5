package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// resultMultiplier gives QueryEmbedding headroom for the file_type
// post-filter pass (only Kind is native-filterable via chromem's WHERE
// clause; FileType is reconstructed from metadata and checked afterward),
// matching the teacher's DefaultResultMultiplier approach.
const resultMultiplier = 3

// vectorIndex wraps a chromem-go collection with the RWMutex atomic-swap
// pattern the teacher uses for its chromem-backed searcher: queries hold a
// collection reference under a read lock, and a rebuild swaps the pointer
// under a write lock so in-flight queries keep seeing their own snapshot.
type vectorIndex struct {
	dimension int

	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
}

func newVectorIndex(dimension int) *vectorIndex {
	return &vectorIndex{dimension: dimension, db: chromem.NewDB()}
}

// rebuild replaces the in-memory collection with one built from docs. It is
// the only way the vector index is ever populated from disk: vectors are
// never persisted by chromem-go itself, only reconstructed from the
// documents table on Initialize and on incremental reload, mirroring how
// the teacher rebuilds its bleve and chromem indexes from canonical storage
// rather than serializing either of them directly.
func (v *vectorIndex) rebuild(ctx context.Context, docs []Document) error {
	collection, err := v.db.CreateCollection(fmt.Sprintf("documents-%p", v), nil, nil)
	if err != nil {
		return fmt.Errorf("store: create vector collection: %w", err)
	}

	for _, doc := range docs {
		if err := collection.AddDocument(ctx, toChromemDocument(doc)); err != nil {
			return fmt.Errorf("store: add document %s to vector index: %w", doc.ID, err)
		}
	}

	v.mu.Lock()
	v.collection = collection
	v.mu.Unlock()
	return nil
}

// add upserts documents into the live collection (chromem-go's AddDocument
// already replaces same-id entries, giving upsert-by-id semantics).
func (v *vectorIndex) add(ctx context.Context, docs []Document) error {
	v.mu.RLock()
	collection := v.collection
	v.mu.RUnlock()
	if collection == nil {
		return fmt.Errorf("store: vector index not initialized")
	}

	for _, doc := range docs {
		if len(doc.Vector) != v.dimension {
			return fmt.Errorf("store: document %s has dimension %d, want %d: %w",
				doc.ID, len(doc.Vector), v.dimension, coreid.ErrDimensionMismatch)
		}
	}

	added := make([]coreid.DocumentID, 0, len(docs))
	for _, doc := range docs {
		if err := collection.AddDocument(ctx, toChromemDocument(doc)); err != nil {
			// Best-effort rollback of the partial batch already added to
			// this in-memory collection. The caller has already committed
			// the batch to SQLite (the source of truth) and rebuilds this
			// index from it when add fails.
			for _, id := range added {
				collection.Delete(ctx, nil, nil, id.String())
			}
			return fmt.Errorf("store: add document %s to vector index: %w", doc.ID, err)
		}
		added = append(added, doc.ID)
	}
	return nil
}

// delete removes documents by id from the live collection.
func (v *vectorIndex) delete(ctx context.Context, ids []coreid.DocumentID) error {
	v.mu.RLock()
	collection := v.collection
	v.mu.RUnlock()
	if collection == nil {
		return nil
	}
	for _, id := range ids {
		if err := collection.Delete(ctx, nil, nil, id.String()); err != nil {
			return fmt.Errorf("store: delete document %s from vector index: %w", id, err)
		}
	}
	return nil
}

// query runs a cosine nearest-neighbor search, returning up to k hits
// matching filter.
func (v *vectorIndex) query(ctx context.Context, queryVector []float32, k int, filter Filter) ([]SearchHit, error) {
	if len(queryVector) != v.dimension {
		return nil, fmt.Errorf("store: query vector dimension %d, want %d: %w",
			len(queryVector), v.dimension, coreid.ErrDimensionMismatch)
	}

	v.mu.RLock()
	collection := v.collection
	v.mu.RUnlock()
	if collection == nil {
		return nil, fmt.Errorf("store: vector index not initialized")
	}

	where := map[string]string{}
	if filter.Kind != "" {
		where["kind"] = string(filter.Kind)
	}

	n := k * resultMultiplier
	if count := collection.Count(); n > count {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	docs, err := collection.QueryEmbedding(ctx, queryVector, n, where, nil)
	if err != nil {
		return nil, fmt.Errorf("store: vector query: %w", err)
	}

	hits := make([]SearchHit, 0, k)
	for _, doc := range docs {
		if filter.FileType != "" && doc.Metadata["file_type"] != string(filter.FileType) {
			continue
		}
		hits = append(hits, SearchHit{
			DocumentID: coreid.DocumentID(doc.ID),
			Score:      float64(doc.Similarity),
		})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

// encodeVector serializes a vector as little-endian float32 bytes for
// storage in the documents table's vector column, the form it's rehydrated
// from on every vectorIndex.rebuild.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("store: vector blob length %d not a multiple of 4", len(buf))
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v, nil
}

func toChromemDocument(doc Document) chromem.Document {
	return chromem.Document{
		ID:        doc.ID.String(),
		Content:   doc.Content,
		Embedding: doc.Vector,
		Metadata: map[string]string{
			"kind":      string(doc.Metadata.Kind),
			"file_type": string(doc.Metadata.FileType),
		},
	}
}
