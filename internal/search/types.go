// Package search implements Cléa-API's hybrid retrieval engine: query
// embedding, SQL candidate selection, cross-encoder reranking, score
// normalization, confidence classification, optional hierarchical
// enrichment, and best-effort audit logging. Grounded on
// original_source/vectordb/src/search.py for the SQL template and
// rag/internal/service/vector_search_svc.go for the Go gorm idiom.
package search

import (
	"time"

	"github.com/google/uuid"
)

// Request is a hybrid_search call, per spec.md §4.7.
type Request struct {
	Query             string
	TopK              int
	Theme             string
	DocumentType      string
	CorpusID          string
	StartDate         *time.Time
	EndDate           *time.Time
	HierarchyLevel    *int
	Hierarchical      bool
	FilterByRelevance bool
	NormalizeScores   bool
}

// Context carries a result's ancestor chunks when Request.Hierarchical
// is set; missing levels are nil.
type Context struct {
	Level0 *string
	Level1 *string
	Level2 *string
}

// Result is one ranked chunk in a Response, per spec.md §4.7's response
// shape.
type Result struct {
	ChunkID        uuid.UUID
	DocumentID     uuid.UUID
	Title          string
	Content        string
	Theme          string
	DocumentType   string
	PublishDate    time.Time
	Score          float64
	HierarchyLevel int
	Context        *Context
}

// Response is hybrid_search's return value, per spec.md §4.7.
type Response struct {
	Query        string
	TopK         int
	TotalResults int
	Results      []Result
	Confidence   Confidence
	Normalized   bool
	Message      string
}

// clampTopK enforces spec.md §4.7/§8's [1, 100] bound. Non-positive
// values (including the zero value of an omitted field) clamp up to 1,
// not to the default of 10 — callers that want the default must set
// TopK themselves before calling HybridSearch.
func clampTopK(topK int) int {
	if topK <= 0 {
		return 1
	}
	if topK > 100 {
		return 100
	}
	return topK
}
