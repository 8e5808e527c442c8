package handler

import (
	"net/http"
	"time"

	"github.com/WillIsback/clea-api/internal/search"
	"github.com/gin-gonic/gin"
)

// SearchHandler exposes hybrid_search over HTTP.
type SearchHandler struct {
	engine *search.Engine
}

// NewSearchHandler builds a SearchHandler.
func NewSearchHandler(engine *search.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
	// TopK is a pointer so an explicit 0 (clamp to 1, per spec.md §8) can
	// be told apart from an omitted field (default 10).
	TopK              *int       `json:"top_k"`
	Theme             string     `json:"theme"`
	DocumentType      string     `json:"document_type"`
	CorpusID          string     `json:"corpus_id"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	HierarchyLevel    *int       `json:"hierarchy_level"`
	Hierarchical      bool       `json:"hierarchical"`
	FilterByRelevance bool       `json:"filter_by_relevance"`
	NormalizeScores   bool       `json:"normalize_scores"`
}

// Search implements spec.md §4.7's hybrid_search over HTTP. It never
// fails on the happy path: degraded conditions surface as a response
// field, not an HTTP error.
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topK := 10
	if req.TopK != nil {
		topK = *req.TopK
	}

	resp, err := h.engine.HybridSearch(c.Request.Context(), search.Request{
		Query:             req.Query,
		TopK:              topK,
		Theme:             req.Theme,
		DocumentType:      req.DocumentType,
		CorpusID:          req.CorpusID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		HierarchyLevel:    req.HierarchyLevel,
		Hierarchical:      req.Hierarchical,
		FilterByRelevance: req.FilterByRelevance,
		NormalizeScores:   req.NormalizeScores,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
