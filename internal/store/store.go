package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// Store is the per-Store persistence surface of spec.md §4.3: cosine
// nearest-neighbor over the dense vector, BM25-style lexical search over
// content, and metadata filtering, all backed by one SQLite file holding
// the canonical records the other two indexes are rebuilt from.
type Store interface {
	AddDocuments(ctx context.Context, docs []Document) error
	DeleteDocuments(ctx context.Context, ids []coreid.DocumentID) error
	Search(ctx context.Context, queryVector []float32, k int, filter Filter) ([]SearchHit, error)
	FTS(ctx context.Context, queryText string, k int, filter Filter) ([]SearchHit, error)
	Get(ctx context.Context, id coreid.DocumentID) (Document, error)
	SiblingChunks(ctx context.Context, fileHash string) ([]Document, error)
	Close() error
}

// store implements Store over one SQLite database plus its derived
// in-memory vector and lexical indexes.
type store struct {
	id        coreid.StoreID
	dimension int

	// writeMu serializes writers per Store (spec §4.3's concurrency
	// contract); readers never take it, so concurrent Search/FTS calls
	// proceed unimpeded while a write is building its next snapshot.
	writeMu sync.Mutex

	db     *sql.DB
	vector *vectorIndex
	fts    *ftsIndex
}

// dataDir returns <data>/stores/<id> for store id under root.
func dataDir(root string, id coreid.StoreID) string {
	return filepath.Join(root, "stores", id.String())
}

// Initialize opens (creating if missing) the SQLite database backing store
// id under root, then rebuilds its in-memory vector and lexical indexes
// from the canonical records. Initialize is idempotent: calling it again on
// an already-initialized store is a cheap reload.
func Initialize(ctx context.Context, root string, id coreid.StoreID, dimension int) (Store, error) {
	dir := dataDir(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "documents.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}

	if err := CreateSchema(db, dimension); err != nil {
		db.Close()
		return nil, err
	}

	storedDim, err := StoredDimension(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if storedDim != dimension {
		db.Close()
		return nil, fmt.Errorf("store: %s was initialized with dimension %d, got %d: %w",
			id, storedDim, dimension, coreid.ErrDimensionMismatch)
	}

	fts, err := newFTSIndex()
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &store{
		id:        id,
		dimension: dimension,
		db:        db,
		vector:    newVectorIndex(dimension),
		fts:       fts,
	}

	if err := s.reload(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DeleteStore removes store id's entire on-disk directory (database and any
// derived index files).
func DeleteStore(root string, id coreid.StoreID) error {
	if err := os.RemoveAll(dataDir(root, id)); err != nil {
		return fmt.Errorf("store: delete store %s: %w", id, err)
	}
	return nil
}

// reload rebuilds both derived indexes from the canonical documents table.
func (s *store) reload(ctx context.Context) error {
	docs, err := s.loadAll(ctx)
	if err != nil {
		return err
	}
	if err := s.vector.rebuild(ctx, docs); err != nil {
		return err
	}
	if err := s.fts.rebuild(ctx, docs); err != nil {
		return err
	}
	return nil
}

func (s *store) loadAll(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, metadata, vector FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("store: load documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, content, metadataJSON string
		var vectorBlob []byte
		if err := rows.Scan(&id, &content, &metadataJSON, &vectorBlob); err != nil {
			return nil, fmt.Errorf("store: scan document row: %w", err)
		}
		doc, err := decodeDocument(id, content, metadataJSON, vectorBlob)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// AddDocuments upserts docs as one atomic batch (spec §4.3: "Batch insert
// is the atomic unit. A failed batch leaves the store unchanged"). The
// SQLite transaction commits first; the chromem add and bleve batch happen
// only after that commit succeeds. If either secondary write fails, both
// derived indexes are rebuilt from the committed records via reload, so
// they stay consistent with each other; the canonical record has already
// landed and is not undone.
func (s *store) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	for _, doc := range docs {
		if len(doc.Vector) != s.dimension {
			return fmt.Errorf("store: document %s has dimension %d, want %d: %w",
				doc.ID, len(doc.Vector), s.dimension, coreid.ErrDimensionMismatch)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin add transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("store: marshal metadata for %s: %w", doc.ID, err)
		}
		vectorBlob := encodeVector(doc.Vector)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (id, content, metadata, vector, file_hash, file_type, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				content = excluded.content,
				metadata = excluded.metadata,
				vector = excluded.vector,
				file_hash = excluded.file_hash,
				file_type = excluded.file_type,
				updated_at = excluded.updated_at`,
			doc.ID.String(), doc.Content, string(metadataJSON), vectorBlob,
			doc.Metadata.FileHash, string(doc.Metadata.FileType), now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("store: upsert document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit add transaction: %w", err)
	}

	if err := s.vector.add(ctx, docs); err != nil {
		// The canonical record already committed; resync both derived
		// indexes from disk so they don't diverge from each other.
		_ = s.reload(ctx)
		return err
	}
	if err := s.fts.add(ctx, docs); err != nil {
		_ = s.reload(ctx)
		return err
	}
	return nil
}

// DeleteDocuments removes docs by id from all three backends.
func (s *store) DeleteDocuments(ctx context.Context, ids []coreid.DocumentID) error {
	if len(ids) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id.String()); err != nil {
			return fmt.Errorf("store: delete document %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit delete transaction: %w", err)
	}

	if err := s.vector.delete(ctx, ids); err != nil {
		return err
	}
	if err := s.fts.delete(ids); err != nil {
		return err
	}
	return nil
}

// Get fetches one document's canonical record by id (spec §6: used by
// search's "full" detail level to re-read a chunk's own content).
func (s *store) Get(ctx context.Context, id coreid.DocumentID) (Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, content, metadata, vector FROM documents WHERE id = ?`, id.String())

	var rowID, content, metadataJSON string
	var vectorBlob []byte
	if err := row.Scan(&rowID, &content, &metadataJSON, &vectorBlob); err != nil {
		if err == sql.ErrNoRows {
			return Document{}, fmt.Errorf("store: document %s: %w", id, coreid.ErrNotFound)
		}
		return Document{}, fmt.Errorf("store: get document %s: %w", id, err)
	}
	return decodeDocument(rowID, content, metadataJSON, vectorBlob)
}

// SiblingChunks returns every chunk of the file identified by fileHash,
// ordered by chunk_index, so callers can locate a chunk's previous and
// next neighbor for the "full" detail level (spec §4.4: "adjacent chunks
// of the same file (previous and next by chunk_index)").
func (s *store) SiblingChunks(ctx context.Context, fileHash string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, metadata, vector FROM documents WHERE file_hash = ? ORDER BY id`, fileHash)
	if err != nil {
		return nil, fmt.Errorf("store: load sibling chunks for %s: %w", fileHash, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, content, metadataJSON string
		var vectorBlob []byte
		if err := rows.Scan(&id, &content, &metadataJSON, &vectorBlob); err != nil {
			return nil, fmt.Errorf("store: scan sibling chunk row: %w", err)
		}
		doc, err := decodeDocument(id, content, metadataJSON, vectorBlob)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Metadata.ChunkIndex < docs[j].Metadata.ChunkIndex
	})
	return docs, rows.Err()
}

// Search runs cosine nearest-neighbor search over the dense vector index.
func (s *store) Search(ctx context.Context, queryVector []float32, k int, filter Filter) ([]SearchHit, error) {
	return s.vector.query(ctx, queryVector, k, filter)
}

// FTS runs BM25-style lexical search over document content.
func (s *store) FTS(ctx context.Context, queryText string, k int, filter Filter) ([]SearchHit, error) {
	return s.fts.search(queryText, k, filter)
}

func (s *store) Close() error {
	if err := s.fts.close(); err != nil {
		return err
	}
	return s.db.Close()
}

func decodeDocument(id, content, metadataJSON string, vectorBlob []byte) (Document, error) {
	var metadata Metadata
	if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
		return Document{}, fmt.Errorf("store: unmarshal metadata for %s: %w", id, err)
	}
	vector, err := decodeVector(vectorBlob)
	if err != nil {
		return Document{}, fmt.Errorf("store: decode vector for %s: %w", id, err)
	}
	return Document{
		ID:       coreid.DocumentID(id),
		Content:  content,
		Vector:   vector,
		Metadata: metadata,
	}, nil
}
