// Package chunker implements the chunk dispatcher of spec §4.1: turning a
// file's content into an ordered list of language-aware Chunks suitable
// for embedding.
package chunker

import "github.com/mvp-joe/project-cortex/internal/chunker/lang"

// Chunk is a pre-Document value produced by the dispatcher (spec §3).
type Chunk struct {
	Content       string
	StartOffset   int
	EndOffset     int
	ChunkIndex    int
	TotalChunks   int // filled retroactively once the final count is known
	SectionHeader string
	SymbolName    string
	SymbolKind    lang.SymbolKind
	HasDocComment bool
}

// Import re-exports the language adapter's Import shape as the chunker's
// public type (spec §4.1: extract_imports).
type Import = lang.Import

// CodeSymbol re-exports the language adapter's Symbol shape (spec §3).
type CodeSymbol = lang.Symbol

// Options configures the dispatcher's sliding-window and markdown
// strategies (spec §4.1 defaults: S=768 bytes, O=100 bytes).
type Options struct {
	WindowSize    int
	WindowOverlap int
}

// DefaultOptions returns the spec's stated defaults.
func DefaultOptions() Options {
	return Options{WindowSize: 768, WindowOverlap: 100}
}

func (o Options) validate() Options {
	if o.WindowSize <= 0 {
		o.WindowSize = 768
	}
	if o.WindowOverlap < 0 || o.WindowOverlap >= o.WindowSize {
		o.WindowOverlap = 100
		if o.WindowOverlap >= o.WindowSize {
			o.WindowOverlap = o.WindowSize / 2
		}
	}
	return o
}
