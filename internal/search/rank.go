package search

import (
	"math"
	"sort"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/store"
)

// fileTypeBonus is the re-ranking multiplier applied after fusion (spec
// §4.4 step 6).
var fileTypeBonus = map[store.FileType]float64{
	store.FileTypeDocumentationPrimary: 1.25,
	store.FileTypeDocumentation:        1.15,
	store.FileTypeSource:               1.00,
	store.FileTypeExample:              0.95,
	store.FileTypeTest:                 0.85,
	store.FileTypeSourceInternal:       0.80,
	store.FileTypeChangelog:            0.70,
	store.FileTypeConfig:               0.90,
	store.FileTypeOther:                0.85,
}

func bonusFor(ft store.FileType) float64 {
	if b, ok := fileTypeBonus[ft]; ok {
		return b
	}
	return 1.0
}

// candidate is one document surfaced by either backend, before fusion.
type candidate struct {
	id        coreid.DocumentID
	doc       store.Document
	rawCosine float64 // vector backend's raw similarity, 0 if not a vector hit
	rawFTS    float64 // lexical backend's raw score, 0 if not an fts hit
	hasVector bool
	hasFTS    bool
}

// minMaxNormalize scales values to [0,1] via min-max over the set. Per spec
// §4.4 step 3, a single-element set normalizes to 1.0 (min==max is
// undefined otherwise).
func minMaxNormalize(values map[coreid.DocumentID]float64) map[coreid.DocumentID]float64 {
	out := make(map[coreid.DocumentID]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if len(values) == 1 {
		for id := range values {
			out[id] = 1.0
		}
		return out
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		for id := range values {
			out[id] = 1.0
		}
		return out
	}
	for id, v := range values {
		out[id] = (v - min) / (max - min)
	}
	return out
}

// fuse combines candidates into ranked results per spec §4.4 steps 3–7.
func fuse(candidates map[coreid.DocumentID]*candidate, req Request) []rankedCandidate {
	wv, wf := defaultVectorWeight, defaultFTSWeight
	if req.VectorWeight != nil && req.FTSWeight != nil {
		wv, wf = *req.VectorWeight, *req.FTSWeight
	}
	switch req.Mode {
	case ModeVector:
		wv, wf = 1, 0
	case ModeFTS:
		wv, wf = 0, 1
	}

	rawVector := make(map[coreid.DocumentID]float64, len(candidates))
	rawFTS := make(map[coreid.DocumentID]float64, len(candidates))
	for id, c := range candidates {
		if c.hasVector {
			rawVector[id] = c.rawCosine
		}
		if c.hasFTS {
			rawFTS[id] = c.rawFTS
		}
	}
	normVector := minMaxNormalize(rawVector)
	normFTS := minMaxNormalize(rawFTS)

	ranked := make([]rankedCandidate, 0, len(candidates))
	for id, c := range candidates {
		if req.RawCosineFloor != nil && c.hasVector && c.rawCosine < *req.RawCosineFloor {
			continue
		}

		vScore := normVector[id]
		fScore := normFTS[id]
		fused := wv*vScore + wf*fScore

		if req.FusedThreshold != nil && fused < *req.FusedThreshold {
			continue
		}

		bonused := fused * bonusFor(c.doc.Metadata.FileType)
		ranked = append(ranked, rankedCandidate{
			candidate: c,
			score:     bonused,
		})
	}

	// Step 7: descending score, ties broken by larger raw cosine then
	// smaller document id lexicographically.
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.rawCosine != b.rawCosine {
			return a.rawCosine > b.rawCosine
		}
		return a.id < b.id
	})

	return ranked
}

type rankedCandidate struct {
	*candidate
	score float64
}

// confidenceFor derives the envelope-level confidence tag from the best
// raw cosine similarity observed (spec §4.4: "≥0.65 high, ≥0.45 medium,
// otherwise low").
func confidenceFor(maxRawCosine float64, sawAny bool) Confidence {
	if !sawAny {
		return ConfidenceLow
	}
	switch {
	case maxRawCosine >= highConfidenceFloor:
		return ConfidenceHigh
	case maxRawCosine >= mediumConfidenceFloor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
