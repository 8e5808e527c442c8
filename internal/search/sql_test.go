package search

import (
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
)

func TestBuildCandidateSQL_NoFilters(t *testing.T) {
	req := Request{Query: "q", TopK: 10}
	sql, args := buildCandidateSQL(req, pgvector.NewVector([]float32{1, 2}), 30)
	assert.Contains(t, sql, "WHERE 1=1")
	assert.NotContains(t, sql, "d.theme = ?")
	assert.Len(t, args, 3) // vector, limit expanded, limit top_k
}

func TestBuildCandidateSQL_AllFilters(t *testing.T) {
	start := time.Now()
	end := start.Add(24 * time.Hour)
	level := 2
	req := Request{
		Query: "q", TopK: 10,
		Theme: "science", DocumentType: "pdf", CorpusID: "corpus-1",
		StartDate: &start, EndDate: &end, HierarchyLevel: &level,
	}
	sql, args := buildCandidateSQL(req, pgvector.NewVector([]float32{1, 2}), 30)
	assert.Contains(t, sql, "d.theme = ?")
	assert.Contains(t, sql, "d.document_type = ?")
	assert.Contains(t, sql, "d.publish_date BETWEEN ? AND ?")
	assert.Contains(t, sql, "d.corpus_id = ?")
	assert.Contains(t, sql, "c.hierarchy_level = ?")
	assert.Len(t, args, 9) // vector, theme, dtype, start, end, corpus, level, expanded, top_k
}
