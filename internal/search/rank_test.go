package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/store"
)

func TestMinMaxNormalize_SingleValueIsOne(t *testing.T) {
	t.Parallel()

	out := minMaxNormalize(map[coreid.DocumentID]float64{"a": 0.3})
	assert.Equal(t, 1.0, out["a"])
}

func TestMinMaxNormalize_ScalesAcrossRange(t *testing.T) {
	t.Parallel()

	out := minMaxNormalize(map[coreid.DocumentID]float64{"a": 0, "b": 5, "c": 10})
	assert.Equal(t, 0.0, out["a"])
	assert.Equal(t, 0.5, out["b"])
	assert.Equal(t, 1.0, out["c"])
}

func TestMinMaxNormalize_EqualValuesAllOne(t *testing.T) {
	t.Parallel()

	out := minMaxNormalize(map[coreid.DocumentID]float64{"a": 2, "b": 2})
	assert.Equal(t, 1.0, out["a"])
	assert.Equal(t, 1.0, out["b"])
}

func mkCandidate(id coreid.DocumentID, ft store.FileType, rawCosine, rawFTS float64, hasVector, hasFTS bool) *candidate {
	return &candidate{
		id:        id,
		doc:       store.Document{ID: id, Metadata: store.Metadata{FileType: ft}},
		rawCosine: rawCosine,
		rawFTS:    rawFTS,
		hasVector: hasVector,
		hasFTS:    hasFTS,
	}
}

func TestFuse_AppliesFileTypeBonus(t *testing.T) {
	t.Parallel()

	candidates := map[coreid.DocumentID]*candidate{
		"doc": mkCandidate("doc", store.FileTypeDocumentationPrimary, 0.5, 0, true, false),
	}
	ranked := fuse(candidates, Request{Mode: ModeVector})
	assert.InDelta(t, 1.0*1.25, ranked[0].score, 0.0001)
}

func TestFuse_RawCosineFloorDiscardsLowSimilarity(t *testing.T) {
	t.Parallel()

	floor := 0.5
	candidates := map[coreid.DocumentID]*candidate{
		"low":  mkCandidate("low", store.FileTypeSource, 0.1, 0, true, false),
		"high": mkCandidate("high", store.FileTypeSource, 0.9, 0, true, false),
	}
	ranked := fuse(candidates, Request{Mode: ModeVector, RawCosineFloor: &floor})
	assert.Len(t, ranked, 1)
	assert.Equal(t, coreid.DocumentID("high"), ranked[0].id)
}

func TestFuse_FusedThresholdDiscardsLowScore(t *testing.T) {
	t.Parallel()

	threshold := 0.9
	candidates := map[coreid.DocumentID]*candidate{
		"a": mkCandidate("a", store.FileTypeSource, 0.5, 0, true, false), // normalizes to 0
		"b": mkCandidate("b", store.FileTypeSource, 0.9, 0, true, false), // normalizes to 1
	}
	ranked := fuse(candidates, Request{Mode: ModeVector, FusedThreshold: &threshold})
	assert.Len(t, ranked, 1)
	assert.Equal(t, coreid.DocumentID("b"), ranked[0].id)
}

func TestFuse_TiesBreakByRawCosineThenID(t *testing.T) {
	t.Parallel()

	candidates := map[coreid.DocumentID]*candidate{
		"b": mkCandidate("b", store.FileTypeSource, 0.4, 0, true, false),
		"a": mkCandidate("a", store.FileTypeSource, 0.4, 0, true, false),
	}
	ranked := fuse(candidates, Request{Mode: ModeVector})
	assert.Equal(t, coreid.DocumentID("a"), ranked[0].id)
}

func TestConfidenceFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ConfidenceHigh, confidenceFor(0.7, true))
	assert.Equal(t, ConfidenceMedium, confidenceFor(0.5, true))
	assert.Equal(t, ConfidenceLow, confidenceFor(0.1, true))
	assert.Equal(t, ConfidenceLow, confidenceFor(0.9, false))
}
