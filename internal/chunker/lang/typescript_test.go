package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeScriptAdapter_Parse(t *testing.T) {
	t.Parallel()

	src := `import { helper } from "./helper"

export interface Widget {
  name: string
}

export function build(name: string): Widget {
  return { name }
}

class Internal {}
`
	a := NewTypeScriptAdapter()
	symbols, err := a.Parse([]byte(src))
	require.NoError(t, err)

	var names []string
	for _, s := range symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "build")
	assert.Contains(t, names, "Internal")
}

func TestTypeScriptAdapter_ExtractImports(t *testing.T) {
	t.Parallel()

	src := `import { a, b } from "./mod"
import type { Only } from "./types"
`
	a := NewTypeScriptAdapter()
	imports, err := a.ExtractImports([]byte(src))
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "./mod", imports[0].Source)
	assert.ElementsMatch(t, []string{"a", "b"}, imports[0].Specifiers)
	assert.Equal(t, "./types", imports[1].Source)
	assert.True(t, imports[1].IsType)
}

func TestTSXAdapter_ParsesJSXFile(t *testing.T) {
	t.Parallel()

	src := `export function Button() {
  return <button>Click</button>
}
`
	a := NewTSXAdapter()
	symbols, err := a.Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Button", symbols[0].Name)
}
