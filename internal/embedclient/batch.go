package embedclient

import (
	"context"
	"fmt"
)

// BatchProgress reports embedding progress across an EmbedBatch call.
type BatchProgress struct {
	BatchIndex      int
	TotalBatches    int
	ProcessedChunks int
	TotalChunks     int
}

// EmbedBatch embeds an arbitrarily large slice of texts by splitting it
// into MaxBatchSize-sized calls to provider.Embed (spec §4.7: "embed_batch
// ([text]) → [Vector<dim>]"), reporting progress on progressCh if non-nil.
// Results preserve input order across every batch.
func EmbedBatch(
	ctx context.Context,
	provider Provider,
	texts []string,
	progressCh chan<- BatchProgress,
) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	numBatches := (len(texts) + MaxBatchSize - 1) / MaxBatchSize
	results := make([][]float32, len(texts))
	processed := 0

	for batchIdx := 0; batchIdx < numBatches; batchIdx++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := batchIdx * MaxBatchSize
		end := start + MaxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		embeddings, err := provider.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedclient: batch %d/%d: %w", batchIdx+1, numBatches, err)
		}
		copy(results[start:end], embeddings)

		processed += end - start
		if progressCh != nil {
			progressCh <- BatchProgress{
				BatchIndex:      batchIdx + 1,
				TotalBatches:    numBatches,
				ProcessedChunks: processed,
				TotalChunks:     len(texts),
			}
		}
	}
	return results, nil
}
