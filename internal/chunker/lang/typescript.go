package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var tsDecls = map[string]declRule{
	"function_declaration":   {kind: KindFunction, nameKind: "name"},
	"class_declaration":      {kind: KindClass, nameKind: "name"},
	"interface_declaration":  {kind: KindInterface, nameKind: "name"},
	"type_alias_declaration": {kind: KindType, nameKind: "name"},
	"enum_declaration":       {kind: KindType, nameKind: "name"},
	"lexical_declaration":    {kind: KindGlobal, nameKind: ""}, // const/let at top level
	"variable_declaration":   {kind: KindGlobal, nameKind: ""},
}

// newTSFamilyAdapter builds the adapter shared by .ts/.tsx/.js/.jsx. The
// TypeScript grammar is a strict superset of JavaScript, so one grammar
// (selecting the TSX variant when JSX syntax may appear) covers all four
// built-in extensions without a separate JavaScript grammar in the
// dependency pack.
func newTSFamilyAdapter(jsx bool) Adapter {
	var grammar *sitter.Language
	id := "typescript"
	if jsx {
		grammar = sitter.NewLanguage(typescript.LanguageTSX())
		id = "tsx"
	} else {
		grammar = sitter.NewLanguage(typescript.LanguageTypescript())
	}
	a := newTreeSitterAdapter(grammar, id, tsDecls, extractTSImports)
	a.unwrap = unwrapExportWrapper
	return a
}

// NewTypeScriptAdapter returns the built-in .ts adapter.
func NewTypeScriptAdapter() Adapter { return newTSFamilyAdapter(false) }

// NewTSXAdapter returns the built-in .tsx/.jsx adapter.
func NewTSXAdapter() Adapter { return newTSFamilyAdapter(true) }

func extractTSImports(root *sitter.Node, source []byte) []Import {
	var out []Import
	walk(root, func(n *sitter.Node) bool {
		if n.Kind() != "import_statement" {
			return true
		}
		isType := false
		var specs []string
		var sourcePath string
		for i := uint(0); i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c == nil {
				continue
			}
			switch c.Kind() {
			case "string":
				sourcePath = trimQuotes(nodeText(c, source))
			case "type": // `import type { ... }`: the keyword is a direct child
				isType = true
			case "import_clause":
				isType = isType || hasTypeKeyword(c, source)
				collectImportSpecifiers(c, source, &specs)
			}
		}
		if sourcePath != "" {
			out = append(out, Import{Source: sourcePath, Specifiers: specs, IsType: isType})
		}
		return false // imports don't nest
	})
	return out
}

func hasTypeKeyword(clause *sitter.Node, source []byte) bool {
	for i := uint(0); i < clause.ChildCount(); i++ {
		if nodeText(clause.Child(i), source) == "type" {
			return true
		}
	}
	return false
}

func collectImportSpecifiers(clause *sitter.Node, source []byte, out *[]string) {
	walk(clause, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "identifier":
			*out = append(*out, nodeText(n, source))
			return false
		case "import_specifier":
			if name := n.ChildByFieldName("name"); name != nil {
				*out = append(*out, nodeText(name, source))
			}
			return false
		}
		return true
	})
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
