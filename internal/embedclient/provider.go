// Package embedclient implements the embedding client of spec.md §4.7: an
// opaque text-to-vector function, batched, with results returned in input
// order regardless of internal parallelism.
package embedclient

import (
	"context"
	"math"
)

// MaxBatchSize is the largest batch a single Embed call accepts (spec
// §4.7: "Batch size ≤32").
const MaxBatchSize = 32

// Provider converts text into fixed-dimension, L2-normalized vectors.
type Provider interface {
	// Embed converts texts into their vector representations, returned in
	// the same order as texts. len(texts) must be ≤ MaxBatchSize; callers
	// needing more should use EmbedBatch.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed dimensionality of vectors this
	// provider produces.
	Dimensions() int

	// Close releases resources held by the provider (connections,
	// subprocesses).
	Close() error
}

// L2Normalize scales v in place so its Euclidean norm is 1 (spec §4.7:
// "Vectors are L2-normalized"). A zero vector is left unchanged.
func L2Normalize(v []float32) {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSquares))
	for i := range v {
		v[i] /= norm
	}
}
