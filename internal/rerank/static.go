package rerank

import (
	"context"
	"strings"
)

// StaticReranker scores each passage by the fraction of query words it
// contains, for tests that need a Reranker without a live cross-encoder.
// Not grounded on the corpus; a stdlib-only test utility (see DESIGN.md).
type StaticReranker struct{}

// Score implements Reranker with a naive lexical-overlap score.
func (StaticReranker) Score(ctx context.Context, query string, passages []string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	queryWords := strings.Fields(strings.ToLower(query))
	scores := make([]float64, len(passages))
	for i, p := range passages {
		lower := strings.ToLower(p)
		hits := 0
		for _, w := range queryWords {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		if len(queryWords) > 0 {
			scores[i] = float64(hits) / float64(len(queryWords))
		}
	}
	return scores, nil
}
