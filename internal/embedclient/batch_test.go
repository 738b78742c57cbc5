package embedclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedBatch_SplitsAcrossProviderBatches(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(8)
	texts := make([]string, MaxBatchSize*2+5)
	for i := range texts {
		texts[i] = string(rune('a' + i%26))
	}

	progressCh := make(chan BatchProgress, len(texts))
	results, err := EmbedBatch(context.Background(), provider, texts, progressCh)
	close(progressCh)

	require.NoError(t, err)
	require.Len(t, results, len(texts))

	var lastProgress BatchProgress
	count := 0
	for p := range progressCh {
		count++
		lastProgress = p
	}
	assert.Equal(t, 3, count) // ceil(69/32) == 3 batches
	assert.Equal(t, len(texts), lastProgress.ProcessedChunks)
	assert.Equal(t, 3, lastProgress.TotalBatches)
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(8)
	results, err := EmbedBatch(context.Background(), provider, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEmbedBatch_PropagatesProviderError(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(8)
	provider.SetEmbedError(assert.AnError)

	_, err := EmbedBatch(context.Background(), provider, []string{"x"}, nil)
	assert.Error(t, err)
}

func TestEmbedBatch_RespectsCancelledContext(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EmbedBatch(ctx, provider, []string{"x"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
