package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

var phpDecls = map[string]declRule{
	"function_definition":  {kind: KindFunction, nameKind: "name"},
	"class_declaration":    {kind: KindClass, nameKind: "name"},
	"interface_declaration": {kind: KindInterface, nameKind: "name"},
	"trait_declaration":    {kind: KindClass, nameKind: "name"},
	"const_declaration":    {kind: KindConstant, nameKind: ""},
}

// NewPHPAdapter returns the registered (non-built-in) .php adapter.
func NewPHPAdapter() Adapter {
	grammar := sitter.NewLanguage(php.LanguagePHP())
	return newTreeSitterAdapter(grammar, "php", phpDecls, extractPHPImports)
}

func extractPHPImports(root *sitter.Node, source []byte) []Import {
	var out []Import
	walk(root, func(n *sitter.Node) bool {
		if n.Kind() != "namespace_use_declaration" {
			return true
		}
		var specs []string
		walk(n, func(inner *sitter.Node) bool {
			if inner.Kind() == "qualified_name" || inner.Kind() == "name" {
				specs = append(specs, nodeText(inner, source))
			}
			return true
		})
		if len(specs) > 0 {
			out = append(out, Import{Source: specs[0], Specifiers: specs})
		}
		return false
	})
	return out
}
