package chunker

import (
	"path/filepath"
	"strings"

	"github.com/mvp-joe/project-cortex/internal/chunker/lang"
)

// Dispatcher selects a chunking strategy by file extension and exposes
// the chunker's three public operations (spec §4.1): chunk, parse_file,
// and extract_imports.
type Dispatcher struct {
	registry *lang.Registry
	opts     Options
}

// NewDispatcher builds a Dispatcher with the given adapter registry
// (shared with the code graph builder) and chunking options. The
// built-in code extensions (.ts/.tsx/.js/.jsx/.py/.rs/.go) are always
// installed on registry by the caller via RegisterBuiltins before
// constructing the Dispatcher — see internal/core. Markdown (.md/.mdx)
// needs no registration: Chunk handles it directly.
func NewDispatcher(registry *lang.Registry, opts Options) *Dispatcher {
	return &Dispatcher{registry: registry, opts: opts.validate()}
}

// RegisterBuiltins installs the dispatcher's own handlers for the
// built-in code extensions onto registry, per spec §4.1. Markdown is not
// registered here since it is handled directly by Chunk, never through
// the adapter registry.
func RegisterBuiltins(registry *lang.Registry) {
	registry.RegisterBuiltin(".go", lang.NewGoAdapter())
	ts := lang.NewTypeScriptAdapter()
	tsx := lang.NewTSXAdapter()
	registry.RegisterBuiltin(".ts", ts)
	registry.RegisterBuiltin(".tsx", tsx)
	registry.RegisterBuiltin(".js", ts)
	registry.RegisterBuiltin(".jsx", tsx)
	registry.RegisterBuiltin(".py", lang.NewPythonAdapter())
	registry.RegisterBuiltin(".rs", lang.NewRustAdapter())
}

func isMarkdown(ext string) bool { return ext == ".md" || ext == ".mdx" }

// Chunk implements spec §4.1's chunk(content, path?) → [Chunk]. It always
// returns at least one chunk; empty content yields a single empty chunk;
// total_chunks is filled retroactively.
func (d *Dispatcher) Chunk(content string, path string) []Chunk {
	ext := strings.ToLower(filepath.Ext(path))

	var chunks []Chunk
	switch {
	case isMarkdown(ext):
		chunks = chunkMarkdown(content, d.opts)
	default:
		if adapter, ok := d.registry.Resolve(ext); ok {
			if chunkAdapter, ok := adapter.(lang.Chunker); ok {
				chunks = d.chunkViaAdapter(content, chunkAdapter)
				break
			}
			symbols, err := adapter.Parse([]byte(content))
			if err != nil {
				chunks = slidingWindow(content, d.opts)
				break
			}
			chunks = chunkCode(content, symbols, d.opts)
			break
		}
		chunks = slidingWindow(content, d.opts)
	}

	if len(chunks) == 0 {
		chunks = []Chunk{{Content: ""}}
	}
	for i := range chunks {
		chunks[i].ChunkIndex = i
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}

func (d *Dispatcher) chunkViaAdapter(content string, adapter lang.Chunker) []Chunk {
	spans, err := adapter.Chunk([]byte(content))
	if err != nil || len(spans) == 0 {
		return slidingWindow(content, d.opts)
	}
	out := make([]Chunk, 0, len(spans))
	for _, s := range spans {
		if s.StartByte < 0 || s.EndByte > len(content) || s.StartByte >= s.EndByte {
			continue
		}
		out = append(out, Chunk{
			Content:     content[s.StartByte:s.EndByte],
			StartOffset: s.StartByte,
			EndOffset:   s.EndByte,
			SymbolName:  s.SymbolName,
			SymbolKind:  s.SymbolKind,
		})
	}
	if len(out) == 0 {
		return slidingWindow(content, d.opts)
	}
	return out
}

// ParseFile implements spec §4.1's parse_file(path, content) → [CodeSymbol].
// Unknown extensions consult the adapter registry; otherwise an empty
// list is returned (no crash).
func (d *Dispatcher) ParseFile(path string, content string) ([]CodeSymbol, error) {
	ext := strings.ToLower(filepath.Ext(path))
	adapter, ok := d.registry.Resolve(ext)
	if !ok {
		return nil, nil
	}
	return adapter.Parse([]byte(content))
}

// ExtractImports implements spec §4.1's extract_imports(path, content).
func (d *Dispatcher) ExtractImports(path string, content string) ([]Import, error) {
	ext := strings.ToLower(filepath.Ext(path))
	adapter, ok := d.registry.Resolve(ext)
	if !ok {
		return nil, nil
	}
	return adapter.ExtractImports([]byte(content))
}
