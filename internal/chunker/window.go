package chunker

import "github.com/mvp-joe/project-cortex/internal/chunker/lang"

// slidingWindow splits content into overlapping byte windows per spec
// §4.1: window k spans [k*(S-O), k*(S-O)+S), the last chunk truncated at
// end-of-content. Returns at least one chunk, including for empty content.
func slidingWindow(content string, opts Options) []Chunk {
	opts = opts.validate()
	size, overlap := opts.WindowSize, opts.WindowOverlap
	stride := size - overlap

	if len(content) == 0 {
		return []Chunk{{Content: "", StartOffset: 0, EndOffset: 0}}
	}

	var chunks []Chunk
	for start := 0; start < len(content); start += stride {
		end := start + size
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, Chunk{
			Content:     content[start:end],
			StartOffset: start,
			EndOffset:   end,
		})
		if end == len(content) {
			break
		}
	}
	return chunks
}

// slidingWindowSymbol is slidingWindow plus a symbol name/kind carried
// onto every sub-chunk, used when re-splitting an oversize semantic chunk
// (markdown section or code declaration) per spec §4.1.
func slidingWindowSymbol(content string, opts Options, sectionHeader, symbolName string, symbolKind lang.SymbolKind) []Chunk {
	base := slidingWindow(content, opts)
	for i := range base {
		base[i].SectionHeader = sectionHeader
		base[i].SymbolName = symbolName
		base[i].SymbolKind = symbolKind
	}
	return base
}
