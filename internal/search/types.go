// Package search implements the hybrid search planner and ranker of
// spec.md §4.4: fan out a query across one or more Stores, fuse dense and
// lexical scores, re-rank by file-type bonus, and materialize results at
// the caller's chosen detail level.
package search

import (
	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/store"
)

// Mode selects which backend(s) a query consults.
type Mode string

const (
	ModeVector Mode = "vector"
	ModeFTS    Mode = "fts"
	ModeHybrid Mode = "hybrid"
)

// DetailLevel controls how much of a result is materialized.
type DetailLevel string

const (
	DetailMinimal    DetailLevel = "minimal"
	DetailContextual DetailLevel = "contextual"
	DetailFull       DetailLevel = "full"
)

// Confidence is derived from the best raw cosine similarity seen across
// all candidates (spec §4.4 step 8).
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

const (
	// DefaultLimit is n when the caller doesn't specify one.
	DefaultLimit = 10
	// Overfetch is the multiplier applied to limit when requesting
	// candidates from each backend, giving fusion and filtering headroom.
	Overfetch = 4

	defaultVectorWeight = 0.6
	defaultFTSWeight    = 0.4

	highConfidenceFloor   = 0.65
	mediumConfidenceFloor = 0.45
)

// Request is one hybrid search request.
type Request struct {
	Query          string
	StoreIDs       []coreid.StoreID
	Mode           Mode
	Limit          int
	FusedThreshold *float64 // T in [0,1]; nil disables the filter
	RawCosineFloor *float64 // R in [0,1]; nil disables the filter
	IncludeContent bool
	Detail         DetailLevel
	Filter         store.Filter

	// VectorWeight/FTSWeight override the fusion weights hybrid mode uses
	// (spec §4.4 step 3's "weighted fusion"). Both nil keeps the built-in
	// 0.6/0.4 split; callers that set one must set the other.
	VectorWeight *float64
	FTSWeight    *float64
}

// normalize fills in Request defaults (spec §4.4: "limit n (default 10)").
func (r Request) normalize() Request {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Mode == "" {
		r.Mode = ModeHybrid
	}
	if r.Detail == "" {
		r.Detail = DetailMinimal
	}
	return r
}

// Summary is the always-present, minimal-detail view of a result (spec
// §6: "summary (kind, name, location, one-line purpose)").
type Summary struct {
	Kind     store.DocumentKind `json:"kind"`
	Name     string             `json:"name"`
	Location string             `json:"location"`
	Purpose  string             `json:"purpose"`
}

// Context is the "contextual" detail level's addition: imports, related
// graph neighbors, and a short preview.
type Context struct {
	Imports         []string `json:"imports"`
	RelatedConcepts []string `json:"related_concepts"`
	ContentPreview  string   `json:"content_preview"`
}

// Full is the "full" detail level's addition: the chunk's entire content
// plus its immediate siblings in the same file.
type Full struct {
	Content       string   `json:"content"`
	PreviousChunk string   `json:"previous_chunk,omitempty"`
	NextChunk     string   `json:"next_chunk,omitempty"`
}

// Result is one ranked, materialized search hit (spec §6's search result
// envelope).
type Result struct {
	ID        coreid.DocumentID `json:"id"`
	Score     float64           `json:"score"`
	RawCosine float64           `json:"raw_cosine,omitempty"`
	Summary   Summary           `json:"summary"`
	Context   *Context          `json:"context,omitempty"`
	Full      *Full             `json:"full,omitempty"`
	Metadata  store.Metadata    `json:"metadata"`
}

// Envelope is the full response of a Plan call: ranked results plus the
// query-level metadata spec §4.4 requires ("mode used, total-results,
// elapsed-ms, optional confidence tag").
type Envelope struct {
	Mode         Mode       `json:"mode"`
	Results      []Result   `json:"results"`
	TotalResults int        `json:"total_results"`
	ElapsedMS    int64      `json:"elapsed_ms"`
	Confidence   Confidence `json:"confidence,omitempty"`
}
