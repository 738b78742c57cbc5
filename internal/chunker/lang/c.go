package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

var cDecls = map[string]declRule{
	"function_definition": {kind: KindFunction, nameKind: ""},
	"struct_specifier":    {kind: KindClass, nameKind: "name"},
	"enum_specifier":      {kind: KindType, nameKind: "name"},
	"type_definition":     {kind: KindType, nameKind: ""},
}

// NewCAdapter returns the registered (non-built-in) .c/.h adapter.
func NewCAdapter() Adapter {
	grammar := sitter.NewLanguage(c.Language())
	return newTreeSitterAdapter(grammar, "c", cDecls, extractCImports)
}

func extractCImports(root *sitter.Node, source []byte) []Import {
	var out []Import
	walk(root, func(n *sitter.Node) bool {
		if n.Kind() != "preproc_include" {
			return true
		}
		path := ""
		if pathNode := n.ChildByFieldName("path"); pathNode != nil {
			path = trimAngleOrQuotes(nodeText(pathNode, source))
		}
		if path != "" {
			out = append(out, Import{Source: path})
		}
		return false
	})
	return out
}

func trimAngleOrQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '<' || s[0] == '"') {
		return s[1 : len(s)-1]
	}
	return s
}
