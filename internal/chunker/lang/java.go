package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

var javaDecls = map[string]declRule{
	"class_declaration":     {kind: KindClass, nameKind: "name"},
	"interface_declaration": {kind: KindInterface, nameKind: "name"},
	"enum_declaration":      {kind: KindType, nameKind: "name"},
	"record_declaration":    {kind: KindClass, nameKind: "name"},
}

// NewJavaAdapter returns the registered (non-built-in) .java adapter.
func NewJavaAdapter() Adapter {
	grammar := sitter.NewLanguage(java.Language())
	return newTreeSitterAdapter(grammar, "java", javaDecls, extractJavaImports)
}

func extractJavaImports(root *sitter.Node, source []byte) []Import {
	var out []Import
	walk(root, func(n *sitter.Node) bool {
		if n.Kind() != "import_declaration" {
			return true
		}
		var path string
		for i := uint(0); i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c == nil {
				continue
			}
			switch c.Kind() {
			case "scoped_identifier", "identifier":
				path = nodeText(c, source)
			}
		}
		if path != "" {
			out = append(out, Import{Source: path})
		}
		return false
	})
	return out
}
