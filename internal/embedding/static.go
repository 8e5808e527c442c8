package embedding

import (
	"context"
	"hash/fnv"

	"github.com/pgvector/pgvector-go"
)

// StaticEmbedder is a deterministic, hash-derived Embedder for tests that
// exercise the ingest/search pipeline without a live model. It has no
// grounding in the corpus; it is a stdlib-only test utility, never a
// production path (see DESIGN.md).
type StaticEmbedder struct {
	Dimensions int
}

// NewStaticEmbedder builds a StaticEmbedder producing vectors of the
// given dimensionality (768 if dims <= 0).
func NewStaticEmbedder(dims int) *StaticEmbedder {
	if dims <= 0 {
		dims = 768
	}
	return &StaticEmbedder{Dimensions: dims}
}

// EmbedBatch derives each vector deterministically from its text's FNV
// hash, so identical inputs always embed identically and distinct inputs
// embed differently, without needing a real model.
func (e *StaticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors := make([]pgvector.Vector, len(texts))
	for i, t := range texts {
		vectors[i] = pgvector.NewVector(deterministicVector(t, e.Dimensions))
	}
	return vectors, nil
}

func deterministicVector(text string, dims int) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, dims)
	state := seed
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int32(state>>32)) / float32(1<<31)
	}
	return vec
}
