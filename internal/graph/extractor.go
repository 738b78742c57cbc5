package graph

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mvp-joe/project-cortex/internal/chunker"
	"github.com/mvp-joe/project-cortex/internal/chunker/lang"
)

// rawCall is a call discovered in a file before cross-symbol resolution
// (spec §4.2 step 3: "resolve calls within a file to local symbols first,
// then to imported symbols").
type rawCall struct {
	callerName string
	calleeName string
	line       int
	confidence float64
}

// Extractor parses a single file into the graph contribution spec §4.2
// step 1 describes: one node per symbol, import edges, and the raw calls
// to be resolved by Builder once every file in the build is known.
type Extractor interface {
	ExtractFile(filePath string) (*FileGraphData, []rawCall, error)
}

type dispatcherExtractor struct {
	rootDir    string
	dispatcher *chunker.Dispatcher
	registry   *lang.Registry
}

// NewExtractor creates an Extractor backed by the chunker's language
// adapter dispatcher (spec §4.2: "parse to symbols and imports" reuses the
// same per-language Adapter the chunker uses for code-strategy chunking).
func NewExtractor(rootDir string, dispatcher *chunker.Dispatcher, registry *lang.Registry) Extractor {
	return &dispatcherExtractor{rootDir: rootDir, dispatcher: dispatcher, registry: registry}
}

func (e *dispatcherExtractor) ExtractFile(filePath string) (*FileGraphData, []rawCall, error) {
	relPath, err := filepath.Rel(e.rootDir, filePath)
	if err != nil {
		relPath = filePath
	}
	relPath = filepath.ToSlash(relPath)

	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	symbols, err := e.dispatcher.ParseFile(relPath, string(source))
	if err != nil {
		return nil, nil, err
	}
	imports, err := e.dispatcher.ExtractImports(relPath, string(source))
	if err != nil {
		return nil, nil, err
	}

	data := &FileGraphData{FilePath: relPath}
	for _, sym := range symbols {
		data.Nodes = append(data.Nodes, Node{
			ID:        relPath + ":" + sym.Name,
			Kind:      symbolKindToNodeKind(sym.Kind),
			File:      relPath,
			StartLine: sym.StartLine,
			EndLine:   sym.EndLine,
		})
	}
	for _, imp := range imports {
		data.Edges = append(data.Edges, Edge{
			From:       relPath,
			To:         imp.Source,
			Type:       EdgeImports,
			Confidence: 1.0,
			Location:   Location{File: relPath, Line: 0},
		})
	}

	calls := e.extractCalls(relPath, source, symbols)
	return data, calls, nil
}

// extractCalls prefers a language adapter's precise CallAnalyzer, falling
// back to a lexical scan (spec §4.2 step 2) when the file's adapter
// doesn't implement one (or there is no adapter for the extension at all).
func (e *dispatcherExtractor) extractCalls(relPath string, source []byte, symbols []chunker.CodeSymbol) []rawCall {
	ext := strings.ToLower(filepath.Ext(relPath))
	if adapter, ok := e.registry.Resolve(ext); ok {
		if analyzer, ok := adapter.(lang.CallAnalyzer); ok {
			found, err := analyzer.AnalyzeCalls(source, symbols)
			if err == nil {
				calls := make([]rawCall, 0, len(found))
				for _, c := range found {
					calls = append(calls, rawCall{
						callerName: c.CallerName,
						calleeName: c.CalleeName,
						line:       c.Line,
						confidence: c.Confidence,
					})
				}
				return calls
			}
		}
	}
	return lexicalCallScan(string(source), symbols)
}

// callPattern matches an identifier immediately followed by "(" (spec
// §4.2 step 2's lexical fallback). It is intentionally permissive: the
// special-form filter below is what keeps false positives out of the
// graph, not the regex.
var callPattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// specialForms are language control-flow keywords that can appear
// immediately before "(" but are never callables (spec §4.2 step 2:
// "filters language special forms... that must not be treated as
// callables").
var specialForms = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "def": true, "fn": true, "match": true,
	"elif": true, "else": true, "do": true,
}

// lexicalCallScan finds call-shaped identifiers outside of string and
// comment runs, stripped beforehand by a minimal run tracker. It is
// deliberately conservative: any identifier-paren pair inside a string or
// // or /* */ comment is excluded, and special forms are filtered by name.
// Each call's caller is whichever symbol's line range contains it, since a
// lexical scan has no parse-tree notion of "enclosing function" the way a
// CallAnalyzer does; calls outside every symbol's range are attributed to
// the file itself.
func lexicalCallScan(content string, symbols []chunker.CodeSymbol) []rawCall {
	stripped := stripStringsAndComments(content)
	var calls []rawCall
	line := 1
	lastIdx := 0
	for _, m := range callPattern.FindAllStringSubmatchIndex(stripped, -1) {
		name := stripped[m[2]:m[3]]
		line += strings.Count(stripped[lastIdx:m[0]], "\n")
		lastIdx = m[0]
		if specialForms[name] {
			continue
		}
		before := strings.TrimRight(stripped[:m[0]], " \t")
		switch before[strings.LastIndexAny(before, " \t\n")+1:] {
		case "function", "def", "fn", "func":
			continue // a declaration's own name, not a call
		}
		calls = append(calls, rawCall{
			callerName: enclosingSymbol(symbols, line),
			calleeName: name,
			line:       line,
			confidence: 0.5,
		})
	}
	return calls
}

// enclosingSymbol returns the name of the symbol whose start/end line range
// contains line, or "" (file-level) if none does.
func enclosingSymbol(symbols []chunker.CodeSymbol, line int) string {
	for _, sym := range symbols {
		if line >= sym.StartLine && line <= sym.EndLine {
			return sym.Name
		}
	}
	return ""
}

// stripStringsAndComments blanks out (preserving newlines, so line numbers
// stay correct; each blanked rune becomes one space byte) the contents of
// string literals and // and /* */ comments, so the call-pattern regex
// never matches inside them.
func stripStringsAndComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	runes := []rune(content)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '/' && i+1 < len(runes) && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				b.WriteByte(' ')
				i++
			}
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			b.WriteString("  ")
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				if runes[i] == '\n' {
					b.WriteByte('\n')
				} else {
					b.WriteByte(' ')
				}
				i++
			}
			if i+1 < len(runes) {
				b.WriteString("  ")
				i += 2
			}
		case c == '"' || c == '\'' || c == '`':
			quote := c
			b.WriteByte(' ')
			i++
			for i < len(runes) && runes[i] != quote {
				if runes[i] == '\\' && i+1 < len(runes) {
					b.WriteByte(' ')
					i++
				}
				if i < len(runes) {
					if runes[i] == '\n' {
						b.WriteByte('\n')
					} else {
						b.WriteByte(' ')
					}
					i++
				}
			}
			if i < len(runes) {
				b.WriteByte(' ')
				i++
			}
		default:
			b.WriteRune(c)
			i++
		}
	}
	return b.String()
}

func symbolKindToNodeKind(k lang.SymbolKind) NodeKind {
	switch k {
	case lang.KindFunction, lang.KindRoutine, lang.KindVerb:
		return NodeFunction
	case lang.KindClass, lang.KindRoom:
		return NodeClass
	case lang.KindInterface:
		return NodeInterface
	case lang.KindType, lang.KindSyntax:
		return NodeType
	case lang.KindConstant:
		return NodeConstant
	case lang.KindObject:
		return NodeObject
	default:
		return NodeGlobal
	}
}
