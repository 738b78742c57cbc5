// Package lang implements the per-language capability set referenced by
// spec §4.1 and §9: parse, extract_imports, optional chunk, optional
// analyze_call_relationships, dispatched by file extension.
package lang

// SymbolKind mirrors spec §3's CodeSymbol.kind enumeration.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindType      SymbolKind = "type"
	KindConstant  SymbolKind = "constant"
	KindObject    SymbolKind = "object"
	KindRoom      SymbolKind = "room"
	KindGlobal    SymbolKind = "global"
	KindRoutine   SymbolKind = "routine"
	KindVerb      SymbolKind = "verb"
	KindSyntax    SymbolKind = "syntax"
)

// Symbol is a top-level declaration discovered by an Adapter.
type Symbol struct {
	Kind       SymbolKind
	Name       string
	Exported   bool
	Async      bool
	StartLine  int // 1-indexed, inclusive
	EndLine    int // 1-indexed, inclusive
	StartByte  int
	EndByte    int
	Signature  string
	NestedName []string // methods nested under this symbol (e.g. struct methods)

	// HasDocComment is true when the declaration is immediately preceded
	// by a comment (spec §3's Document.has_doc_comments attribute).
	HasDocComment bool
}

// Import is one resolved import/require/use statement.
type Import struct {
	Source     string
	Specifiers []string
	IsType     bool
}

// Call is a candidate call-expression discovered by an AnalyzeCalls pass.
type Call struct {
	CallerName string // enclosing top-level symbol name, "" if none
	CalleeName string
	Line       int
	Confidence float64
}

// Adapter is the capability set a language contributes to the chunker, the
// code graph builder, and (optionally) the chunk dispatcher itself.
type Adapter interface {
	// Language returns the adapter's language identifier, used by the
	// registry to detect idempotent re-registration vs. a genuine
	// conflict (spec §4.1).
	Language() string

	// Parse returns the ordered top-level declarations in content.
	Parse(content []byte) ([]Symbol, error)

	// ExtractImports returns the file's import/require/use statements.
	ExtractImports(content []byte) ([]Import, error)
}

// CallAnalyzer is an optional capability: a language-specific call-graph
// pass with higher confidence than the built-in lexical scan (spec §4.2).
type CallAnalyzer interface {
	AnalyzeCalls(content []byte, symbols []Symbol) ([]Call, error)
}

// Chunker is an optional capability: a language may provide its own
// chunking strategy instead of the dispatcher's generic "one chunk per
// top-level symbol, oversize re-split" strategy (spec §4.1).
type Chunker interface {
	Chunk(content []byte) ([]ChunkSpan, error)
}

// ChunkSpan is a byte-range a Chunker carves directly out of content.
type ChunkSpan struct {
	StartByte  int
	EndByte    int
	SymbolName string
	SymbolKind SymbolKind
}
