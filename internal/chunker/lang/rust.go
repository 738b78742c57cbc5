package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

var rustDecls = map[string]declRule{
	"function_item":  {kind: KindFunction, nameKind: "name"},
	"struct_item":    {kind: KindClass, nameKind: "name"},
	"enum_item":      {kind: KindType, nameKind: "name"},
	"trait_item":     {kind: KindInterface, nameKind: "name"},
	"type_item":      {kind: KindType, nameKind: "name"},
	"const_item":     {kind: KindConstant, nameKind: "name"},
	"static_item":    {kind: KindGlobal, nameKind: "name"},
	"mod_item":       {kind: KindObject, nameKind: "name"},
	"impl_item":      {kind: KindClass, nameKind: "type"},
}

// NewRustAdapter returns the built-in .rs adapter.
func NewRustAdapter() Adapter {
	grammar := sitter.NewLanguage(rust.Language())
	return newTreeSitterAdapter(grammar, "rust", rustDecls, extractRustImports)
}

func extractRustImports(root *sitter.Node, source []byte) []Import {
	var out []Import
	walk(root, func(n *sitter.Node) bool {
		if n.Kind() != "use_declaration" {
			return true
		}
		var specs []string
		path := ""
		walk(n, func(inner *sitter.Node) bool {
			switch inner.Kind() {
			case "scoped_identifier", "identifier":
				if path == "" {
					path = nodeText(inner, source)
				}
				specs = append(specs, nodeText(inner, source))
			}
			return true
		})
		out = append(out, Import{Source: path, Specifiers: specs})
		return false
	})
	return out
}
