package chunker

import "github.com/mvp-joe/project-cortex/internal/chunker/lang"

// chunkCode implements spec §4.1's code strategy: one chunk per top-level
// declaration (as found by the language adapter's AST/tree-sitter parse,
// so brace/string/comment boundaries are never miscounted — they're real
// parser boundaries, not a lexical brace-matcher). Oversize declarations
// are re-split by sliding window, preserving symbol_name on every
// sub-chunk. A file with no recognized top-level declarations falls back
// to the sliding window over the whole file.
func chunkCode(content string, symbols []lang.Symbol, opts Options) []Chunk {
	if content == "" {
		return []Chunk{{Content: ""}}
	}
	if len(symbols) == 0 {
		return slidingWindow(content, opts)
	}

	opts = opts.validate()
	var chunks []Chunk
	for _, sym := range symbols {
		start, end := sym.StartByte, sym.EndByte
		if start < 0 || end > len(content) || start >= end {
			continue
		}
		body := content[start:end]

		if len(body) <= opts.WindowSize {
			chunks = append(chunks, Chunk{
				Content:       body,
				StartOffset:   start,
				EndOffset:     end,
				SymbolName:    sym.Name,
				SymbolKind:    sym.Kind,
				HasDocComment: sym.HasDocComment,
			})
			continue
		}

		for _, sub := range slidingWindowSymbol(body, opts, "", sym.Name, sym.Kind) {
			sub.StartOffset += start
			sub.EndOffset += start
			sub.HasDocComment = sym.HasDocComment
			chunks = append(chunks, sub)
		}
	}

	if len(chunks) == 0 {
		return slidingWindow(content, opts)
	}
	return chunks
}
