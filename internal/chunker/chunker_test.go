package chunker

import (
	"testing"

	"github.com/mvp-joe/project-cortex/internal/chunker/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher() *Dispatcher {
	registry := lang.NewRegistry()
	RegisterBuiltins(registry)
	return NewDispatcher(registry, DefaultOptions())
}

func TestDispatcher_Chunk_EmptyContentAlwaysReturnsOneChunk(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher()
	chunks := d.Chunk("", "main.go")
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[0].TotalChunks)
}

func TestDispatcher_Chunk_MarkdownByExtension(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher()
	content := "# Title\nbody text\n"
	chunks := d.Chunk(content, "README.md")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Title", chunks[0].SectionHeader)
}

func TestDispatcher_Chunk_GoSourceByExtension(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher()
	content := "package main\n\nfunc Hello() {\n\tprintln(\"hi\")\n}\n"
	chunks := d.Chunk(content, "main.go")
	require.True(t, len(chunks) >= 1)
	assert.Equal(t, "Hello", chunks[0].SymbolName)
}

func TestDispatcher_Chunk_UnknownExtensionFallsBackToSlidingWindow(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher()
	content := "some plain text content with no known extension"
	chunks := d.Chunk(content, "notes.xyz")
	require.Len(t, chunks, 1)
	assert.Equal(t, content, chunks[0].Content)
}

func TestDispatcher_Chunk_FillsChunkIndexAndTotal(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher()
	content := "# A\nshort\n# B\nalso short\n"
	chunks := d.Chunk(content, "doc.md")
	require.Len(t, chunks, 2)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, 2, c.TotalChunks)
	}
}

func TestDispatcher_ParseFile_UnknownExtensionReturnsEmpty(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher()
	symbols, err := d.ParseFile("notes.xyz", "whatever")
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestDispatcher_ExtractImports_Go(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher()
	content := "package main\n\nimport (\n\t\"fmt\"\n\t\"os\"\n)\n\nfunc main() {}\n"
	imports, err := d.ExtractImports("main.go", content)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "fmt", imports[0].Source)
	assert.Equal(t, "os", imports[1].Source)
}
