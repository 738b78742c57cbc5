package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// declRule maps a tree-sitter node kind, at the top level of a source
// file, to the CodeSymbol kind it should produce and the field used to
// recover its name.
type declRule struct {
	kind     SymbolKind
	nameKind string // field name holding the identifier, "" to use first identifier child
}

// treeSitterAdapter is the shared implementation behind every tree-sitter
// backed language in this package, parameterized by a table of top-level
// declaration node kinds and a language-specific import extractor,
// following the teacher's treeSitterParser helper (common parse/walk
// plumbing, per-language extraction callbacks).
type treeSitterAdapter struct {
	language    *sitter.Language
	lang        string
	decls       map[string]declRule
	extractImpl func(root *sitter.Node, source []byte) []Import
	unwrap      func(*sitter.Node) *sitter.Node
}

func newTreeSitterAdapter(language *sitter.Language, id string, decls map[string]declRule, extractImports func(root *sitter.Node, source []byte) []Import) *treeSitterAdapter {
	return &treeSitterAdapter{
		language:    language,
		lang:        id,
		decls:       decls,
		extractImpl: extractImports,
		unwrap:      func(n *sitter.Node) *sitter.Node { return n },
	}
}

func (a *treeSitterAdapter) Language() string { return a.lang }

func (a *treeSitterAdapter) parseTree(content []byte) (*sitter.Tree, *sitter.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(a.language)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, nil, errParseFailed
	}
	return tree, tree.RootNode(), nil
}

func (a *treeSitterAdapter) Parse(content []byte) ([]Symbol, error) {
	tree, root, err := a.parseTree(content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var symbols []Symbol
	childCount := int(root.ChildCount())
	for i := 0; i < childCount; i++ {
		child := root.Child(uint(i))
		if child == nil {
			continue
		}
		node := a.unwrap(child)
		rule, ok := a.decls[node.Kind()]
		if !ok {
			continue
		}
		name := declName(node, content, rule.nameKind)
		if name == "" {
			continue
		}
		symbols = append(symbols, Symbol{
			Kind:          rule.kind,
			Name:          name,
			Exported:      true, // exported-ness is a Go-specific concept; other languages default true
			StartLine:     int(child.StartPosition().Row) + 1,
			EndLine:       int(child.EndPosition().Row) + 1,
			StartByte:     int(child.StartByte()),
			EndByte:       int(child.EndByte()),
			HasDocComment: precedingCommentAdjacent(root, i, child),
		})
	}
	return symbols, nil
}

// precedingCommentAdjacent reports whether the top-level sibling just
// before root's i'th child is a comment ending on the line immediately
// above decl's start (spec §3's has_doc_comments, generalized across
// every tree-sitter grammar's "comment"/"line_comment"/"block_comment"
// node kinds rather than one per language).
func precedingCommentAdjacent(root *sitter.Node, i int, decl *sitter.Node) bool {
	if i == 0 {
		return false
	}
	prev := root.Child(uint(i - 1))
	if prev == nil || !isCommentKind(prev.Kind()) {
		return false
	}
	return int(prev.EndPosition().Row)+1 >= int(decl.StartPosition().Row)
}

func isCommentKind(kind string) bool {
	return strings.Contains(kind, "comment")
}

func (a *treeSitterAdapter) ExtractImports(content []byte) ([]Import, error) {
	tree, root, err := a.parseTree(content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return a.extractImpl(root, content), nil
}

// unwrapExportWrapper descends into "export_statement"-shaped wrapper
// nodes (TypeScript/JS) so the declaration table matches the inner
// declaration kind.
func unwrapExportWrapper(n *sitter.Node) *sitter.Node {
	if n.Kind() == "export_statement" {
		for i := uint(0); i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c != nil && c.Kind() != "export" && c.Kind() != "default" {
				return c
			}
		}
	}
	return n
}

func declName(node *sitter.Node, source []byte, field string) string {
	var nameNode *sitter.Node
	if field != "" {
		nameNode = node.ChildByFieldName(field)
	}
	if nameNode == nil {
		nameNode = node.ChildByFieldName("name")
	}
	if nameNode == nil {
		// Fall back to the first identifier-shaped child (e.g. Rust's
		// impl-block type_identifier, or anonymous declarators).
		for i := uint(0); i < node.ChildCount(); i++ {
			c := node.Child(i)
			if c == nil {
				continue
			}
			switch c.Kind() {
			case "identifier", "type_identifier", "property_identifier", "constant":
				nameNode = c
			}
			if nameNode != nil {
				break
			}
		}
	}
	if nameNode == nil {
		// Last resort: depth-first search for the first identifier in the
		// subtree (e.g. a C function_definition's name lives under a
		// nested function_declarator, not a direct child).
		walk(node, func(c *sitter.Node) bool {
			if c != node {
				switch c.Kind() {
				case "identifier", "field_identifier", "type_identifier":
					if nameNode == nil {
						nameNode = c
					}
					return false
				}
			}
			return nameNode == nil
		})
	}
	if nameNode == nil {
		return ""
	}
	return string(source[nameNode.StartByte():nameNode.EndByte()])
}

// walk runs visitor over every node in the subtree rooted at n, depth
// first, stopping descent wherever visitor returns false.
func walk(n *sitter.Node, visitor func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visitor(n) {
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		walk(n.Child(i), visitor)
	}
}

func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

type parseError string

func (e parseError) Error() string { return string(e) }

const errParseFailed = parseError("lang: tree-sitter parse failed")
