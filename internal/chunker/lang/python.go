package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

var pyDecls = map[string]declRule{
	"class_definition":          {kind: KindClass, nameKind: "name"},
	"function_definition":       {kind: KindFunction, nameKind: "name"},
	"decorated_definition":      {kind: KindFunction, nameKind: ""}, // unwrapped below
	"async_function_definition": {kind: KindFunction, nameKind: "name"},
}

// NewPythonAdapter returns the built-in .py adapter.
func NewPythonAdapter() Adapter {
	grammar := sitter.NewLanguage(python.Language())
	a := newTreeSitterAdapter(grammar, "python", pyDecls, extractPythonImports)
	a.unwrap = unwrapPythonDecorator
	return a
}

// unwrapPythonDecorator descends into a decorated_definition's inner
// function/class so the declaration table matches on the real node kind
// instead of the decorator wrapper.
func unwrapPythonDecorator(n *sitter.Node) *sitter.Node {
	if n.Kind() != "decorated_definition" {
		return n
	}
	if def := n.ChildByFieldName("definition"); def != nil {
		return def
	}
	return n
}

func extractPythonImports(root *sitter.Node, source []byte) []Import {
	var out []Import
	walk(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			var specs []string
			for i := uint(0); i < n.ChildCount(); i++ {
				c := n.Child(i)
				if c != nil && (c.Kind() == "dotted_name" || c.Kind() == "aliased_import") {
					specs = append(specs, nodeText(c, source))
				}
			}
			if len(specs) > 0 {
				out = append(out, Import{Source: specs[0], Specifiers: specs})
			}
			return false
		case "import_from_statement":
			module := n.ChildByFieldName("module_name")
			src := ""
			if module != nil {
				src = nodeText(module, source)
			}
			var specs []string
			walk(n, func(inner *sitter.Node) bool {
				isModule := module != nil && inner.StartByte() == module.StartByte() && inner.EndByte() == module.EndByte()
				if inner.Kind() == "dotted_name" && !isModule {
					specs = append(specs, nodeText(inner, source))
				}
				return true
			})
			out = append(out, Import{Source: src, Specifiers: specs})
			return false
		}
		return true
	})
	return out
}
