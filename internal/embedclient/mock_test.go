package embedclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Embed_DeterministicPerText(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(16)
	first, err := provider.Embed(context.Background(), []string{"hello"})
	require.NoError(t, err)
	second, err := provider.Embed(context.Background(), []string{"hello"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first[0], 16)
}

func TestMockProvider_Embed_DifferentTextsDifferentVectors(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(16)
	result, err := provider.Embed(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	assert.NotEqual(t, result[0], result[1])
}

func TestMockProvider_Embed_VectorsAreL2Normalized(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(8)
	result, err := provider.Embed(context.Background(), []string{"normalize me"})
	require.NoError(t, err)

	var sumSquares float64
	for _, x := range result[0] {
		sumSquares += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sumSquares, 0.001)
}

func TestMockProvider_Embed_RejectsOversizeBatch(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(8)
	texts := make([]string, MaxBatchSize+1)
	_, err := provider.Embed(context.Background(), texts)
	assert.Error(t, err)
}

func TestMockProvider_Embed_ReturnsConfiguredError(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(8)
	provider.SetEmbedError(errors.New("boom"))

	_, err := provider.Embed(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "boom")
}

func TestMockProvider_Close_TracksCallAndConfiguredError(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(8)
	assert.False(t, provider.IsClosed())

	provider.SetCloseError(errors.New("close failed"))
	err := provider.Close()
	assert.ErrorContains(t, err, "close failed")
	assert.True(t, provider.IsClosed())
}

func TestMockProvider_Dimensions(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(384)
	assert.Equal(t, 384, provider.Dimensions())
}
