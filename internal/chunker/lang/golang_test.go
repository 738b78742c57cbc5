package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoAdapter_Parse_FunctionsAndTypes(t *testing.T) {
	t.Parallel()

	src := `package sample

type Widget struct {
	Name string
}

func (w *Widget) Describe() string {
	return w.Name
}

func NewWidget(name string) *Widget {
	return &Widget{Name: name}
}

const MaxWidgets = 10

var defaultWidget = Widget{Name: "default"}
`
	a := NewGoAdapter()
	symbols, err := a.Parse([]byte(src))
	require.NoError(t, err)

	byName := map[string]Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	widget, ok := byName["Widget"]
	require.True(t, ok)
	assert.Equal(t, KindClass, widget.Kind)
	assert.Contains(t, widget.NestedName, "Describe")

	newWidget, ok := byName["NewWidget"]
	require.True(t, ok)
	assert.Equal(t, KindFunction, newWidget.Kind)
	assert.True(t, newWidget.Exported)

	maxWidgets, ok := byName["MaxWidgets"]
	require.True(t, ok)
	assert.Equal(t, KindConstant, maxWidgets.Kind)

	defaultWidget, ok := byName["defaultWidget"]
	require.True(t, ok)
	assert.Equal(t, KindGlobal, defaultWidget.Kind)
	assert.False(t, defaultWidget.Exported)

	// Describe() is attached to Widget as a method, not surfaced as its own
	// top-level function symbol.
	_, describeIsTopLevel := byName["Describe"]
	assert.False(t, describeIsTopLevel)
}

func TestGoAdapter_Parse_HasDocComment(t *testing.T) {
	t.Parallel()

	src := `package sample

// NewWidget builds a Widget.
func NewWidget(name string) *Widget {
	return nil
}

func Undocumented() {}

// MaxWidgets bounds how many Widgets may exist.
const MaxWidgets = 10

var noDoc = 1
`
	a := NewGoAdapter()
	symbols, err := a.Parse([]byte(src))
	require.NoError(t, err)

	byName := map[string]Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	assert.True(t, byName["NewWidget"].HasDocComment)
	assert.False(t, byName["Undocumented"].HasDocComment)
	assert.True(t, byName["MaxWidgets"].HasDocComment)
	assert.False(t, byName["noDoc"].HasDocComment)
}

func TestGoAdapter_Parse_BlankIdentifierSkipped(t *testing.T) {
	t.Parallel()

	src := `package sample

var _ = someInterfaceCheck

func someInterfaceCheck() {}
`
	a := NewGoAdapter()
	symbols, err := a.Parse([]byte(src))
	require.NoError(t, err)

	for _, s := range symbols {
		assert.NotEqual(t, "_", s.Name)
	}
}

func TestGoAdapter_ExtractImports(t *testing.T) {
	t.Parallel()

	src := `package sample

import (
	"fmt"
	renamed "os"
)
`
	a := NewGoAdapter()
	imports, err := a.ExtractImports([]byte(src))
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "fmt", imports[0].Source)
	assert.Equal(t, "os", imports[1].Source)
	assert.Equal(t, []string{"renamed"}, imports[1].Specifiers)
}

func TestGoAdapter_AnalyzeCalls_FiltersBuiltins(t *testing.T) {
	t.Parallel()

	src := `package sample

func DoWork() {
	items := make([]int, 0, len(items))
	Helper()
}

func Helper() {}
`
	a := NewGoAdapter()
	symbols, err := a.Parse([]byte(src))
	require.NoError(t, err)

	analyzer, ok := a.(CallAnalyzer)
	require.True(t, ok)

	calls, err := analyzer.AnalyzeCalls([]byte(src), symbols)
	require.NoError(t, err)

	var names []string
	for _, c := range calls {
		names = append(names, c.CalleeName)
	}
	assert.Contains(t, names, "Helper")
	assert.NotContains(t, names, "make")
	assert.NotContains(t, names, "len")
}
