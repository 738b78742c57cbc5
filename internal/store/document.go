// Package store implements the per-Store document persistence of spec.md
// §4.3: a cosine-similarity vector index, a BM25-style lexical index, and
// the canonical records both are rebuilt from.
package store

import (
	"time"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// DocumentKind is the metadata "kind" attribute of spec.md §3.
type DocumentKind string

const (
	KindFile  DocumentKind = "file"
	KindChunk DocumentKind = "chunk"
	KindWeb   DocumentKind = "web"
)

// Metadata is the envelope attached to every Document (spec.md §3).
type Metadata struct {
	StoreID        coreid.StoreID `json:"store_id"`
	Kind           DocumentKind   `json:"kind"`
	IndexedAt      time.Time      `json:"indexed_at"`
	SourcePath     string         `json:"source_path,omitempty"`
	SourceURL      string         `json:"source_url,omitempty"`
	FileHash       string         `json:"file_hash"`
	ChunkIndex     int            `json:"chunk_index"`
	TotalChunks    int            `json:"total_chunks"`
	FileType       FileType       `json:"file_type"`
	SectionHeader  string         `json:"section_header,omitempty"`
	SymbolName     string         `json:"symbol_name,omitempty"`
	HasDocComments bool           `json:"has_doc_comments"`
}

// Document is the unit of retrieval (spec.md §3).
type Document struct {
	ID       coreid.DocumentID `json:"id"`
	Content  string            `json:"content"`
	Vector   []float32         `json:"vector"`
	Metadata Metadata          `json:"metadata"`
}

// Filter narrows search/fts results by metadata. A zero-value field means
// "don't filter on this attribute"; both fields set is an AND, mirroring
// the teacher's buildWhereFilter.
type Filter struct {
	FileType FileType
	Kind     DocumentKind
}

// SearchHit is one result of a similarity or lexical query.
type SearchHit struct {
	DocumentID coreid.DocumentID
	Score      float64
}
