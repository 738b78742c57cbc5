package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindow_EmptyContent(t *testing.T) {
	t.Parallel()

	chunks := slidingWindow("", DefaultOptions())
	require.Len(t, chunks, 1)
	assert.Equal(t, "", chunks[0].Content)
}

func TestSlidingWindow_SingleWindow(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("a", 100)
	chunks := slidingWindow(content, Options{WindowSize: 768, WindowOverlap: 100})
	require.Len(t, chunks, 1)
	assert.Equal(t, content, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, 100, chunks[0].EndOffset)
}

func TestSlidingWindow_OverlapAndTruncation(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("x", 1000)
	opts := Options{WindowSize: 300, WindowOverlap: 50}
	chunks := slidingWindow(content, opts)

	require.True(t, len(chunks) > 1)
	stride := opts.WindowSize - opts.WindowOverlap
	for i, c := range chunks {
		assert.Equal(t, i*stride, c.StartOffset)
		if i < len(chunks)-1 {
			assert.Equal(t, i*stride+opts.WindowSize, c.EndOffset)
		}
	}
	// last chunk is truncated at end of content, never overruns
	last := chunks[len(chunks)-1]
	assert.Equal(t, len(content), last.EndOffset)
	assert.LessOrEqual(t, last.EndOffset-last.StartOffset, opts.WindowSize)

	// consecutive windows overlap by exactly opts.WindowOverlap bytes
	for i := 1; i < len(chunks); i++ {
		overlapStart := chunks[i].StartOffset
		prevEnd := chunks[i-1].EndOffset
		if prevEnd > overlapStart {
			assert.Equal(t, opts.WindowOverlap, prevEnd-overlapStart)
		}
	}
}

func TestSlidingWindow_InvalidOptionsFallBackToDefaults(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("y", 50)
	chunks := slidingWindow(content, Options{WindowSize: 0, WindowOverlap: -5})
	require.Len(t, chunks, 1)
	assert.Equal(t, content, chunks[0].Content)
}

func TestSlidingWindowSymbol_CarriesMetadata(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("z", 500)
	chunks := slidingWindowSymbol(content, Options{WindowSize: 200, WindowOverlap: 20}, "Header", "MyFunc", "function")
	require.True(t, len(chunks) > 1)
	for _, c := range chunks {
		assert.Equal(t, "Header", c.SectionHeader)
		assert.Equal(t, "MyFunc", c.SymbolName)
		assert.EqualValues(t, "function", c.SymbolKind)
	}
}
