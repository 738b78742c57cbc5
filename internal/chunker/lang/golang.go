package lang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// goAdapter parses Go source with the standard library's go/parser. No
// tree-sitter grammar for Go ships in this module's dependency pack, and
// go/parser is the ecosystem-standard AST for Go itself, not a stdlib
// stand-in for a missing third-party library (see DESIGN.md).
type goAdapter struct{}

// NewGoAdapter returns the built-in Go language adapter.
func NewGoAdapter() Adapter { return &goAdapter{} }

func (g *goAdapter) Language() string { return "go" }

func (g *goAdapter) Parse(content []byte) ([]Symbol, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", content, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var symbols []Symbol
	methodsByType := map[string][]string{}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil && len(d.Recv.List) > 0 {
				typeName := receiverTypeName(d.Recv.List[0].Type)
				methodsByType[typeName] = append(methodsByType[typeName], d.Name.Name)
				continue
			}
			symbols = append(symbols, Symbol{
				Kind:          KindFunction,
				Name:          d.Name.Name,
				Exported:      ast.IsExported(d.Name.Name),
				StartLine:     fset.Position(d.Pos()).Line,
				EndLine:       fset.Position(d.End()).Line,
				StartByte:     int(d.Pos()) - 1,
				EndByte:       int(d.End()) - 1,
				Signature:     funcSignature(d),
				HasDocComment: d.Doc != nil,
			})
		case *ast.GenDecl:
			symbols = append(symbols, genDeclSymbols(fset, d)...)
		}
	}

	// Attach collected methods to their receiver type's symbol.
	for i := range symbols {
		if symbols[i].Kind == KindType || symbols[i].Kind == KindInterface || symbols[i].Kind == KindClass {
			symbols[i].NestedName = methodsByType[symbols[i].Name]
		}
	}

	return symbols, nil
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}

func funcSignature(d *ast.FuncDecl) string {
	var b strings.Builder
	b.WriteString("func ")
	if d.Recv != nil && len(d.Recv.List) > 0 {
		b.WriteString("(recv) ")
	}
	b.WriteString(d.Name.Name)
	b.WriteString("(...)")
	return b.String()
}

func genDeclSymbols(fset *token.FileSet, d *ast.GenDecl) []Symbol {
	var out []Symbol
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			kind := KindType
			if _, ok := s.Type.(*ast.InterfaceType); ok {
				kind = KindInterface
			} else if _, ok := s.Type.(*ast.StructType); ok {
				kind = KindClass
			}
			out = append(out, Symbol{
				Kind:          kind,
				Name:          s.Name.Name,
				Exported:      ast.IsExported(s.Name.Name),
				StartLine:     fset.Position(d.Pos()).Line,
				EndLine:       fset.Position(d.End()).Line,
				StartByte:     int(d.Pos()) - 1,
				EndByte:       int(d.End()) - 1,
				HasDocComment: d.Doc != nil || s.Doc != nil,
			})
		case *ast.ValueSpec:
			kind := KindGlobal
			if d.Tok == token.CONST {
				kind = KindConstant
			}
			for _, name := range s.Names {
				if name.Name == "_" {
					continue
				}
				out = append(out, Symbol{
					Kind:          kind,
					Name:          name.Name,
					Exported:      ast.IsExported(name.Name),
					StartLine:     fset.Position(d.Pos()).Line,
					EndLine:       fset.Position(d.End()).Line,
					StartByte:     int(d.Pos()) - 1,
					EndByte:       int(d.End()) - 1,
					HasDocComment: d.Doc != nil || s.Doc != nil,
				})
			}
		}
	}
	return out
}

func (g *goAdapter) ExtractImports(content []byte) ([]Import, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", content, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}

	var imports []Import
	for _, imp := range file.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		var specs []string
		if imp.Name != nil {
			specs = append(specs, imp.Name.Name)
		}
		imports = append(imports, Import{
			Source:     path,
			Specifiers: specs,
			IsType:     false,
		})
	}
	return imports, nil
}

// AnalyzeCalls implements CallAnalyzer with higher confidence than the
// generic lexical scan, since go/ast resolves call expressions precisely.
func (g *goAdapter) AnalyzeCalls(content []byte, symbols []Symbol) ([]Call, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", content, 0)
	if err != nil {
		return nil, err
	}

	var calls []Call
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		callerName := fn.Name.Name
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			name := calleeName(call.Fun)
			if name == "" || isGoKeywordLikeCall(name) {
				return true
			}
			calls = append(calls, Call{
				CallerName: callerName,
				CalleeName: name,
				Line:       fset.Position(call.Pos()).Line,
				Confidence: 0.9,
			})
			return true
		})
	}
	return calls, nil
}

func calleeName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	default:
		return ""
	}
}

// isGoKeywordLikeCall filters Go builtins that parse as call expressions
// but aren't ordinary function calls worth graph edges for (spec §4.2:
// "filters language special forms... that must not be treated as
// callables"). Builtins still resolve as calls in Go's grammar (make,
// len, ...), so they're excluded by name instead of by syntax.
func isGoKeywordLikeCall(name string) bool {
	switch name {
	case "make", "len", "cap", "append", "copy", "delete", "panic", "recover",
		"print", "println", "new", "close", "complex", "real", "imag":
		return true
	}
	return false
}
