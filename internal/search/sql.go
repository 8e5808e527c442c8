package search

import (
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// buildCandidateSQL assembles the parameterized statement of spec.md
// §4.7 step 2: a fixed template plus a closed set of optional predicate
// fragments, every literal bound as a parameter — never interpolated.
func buildCandidateSQL(req Request, queryVector pgvector.Vector, expanded int) (string, []any) {
	var predicates []string
	args := []any{queryVector}

	if req.Theme != "" {
		predicates = append(predicates, "d.theme = ?")
		args = append(args, req.Theme)
	}
	if req.DocumentType != "" {
		predicates = append(predicates, "d.document_type = ?")
		args = append(args, req.DocumentType)
	}
	if req.StartDate != nil && req.EndDate != nil {
		predicates = append(predicates, "d.publish_date BETWEEN ? AND ?")
		args = append(args, *req.StartDate, *req.EndDate)
	}
	if req.CorpusID != "" {
		predicates = append(predicates, "d.corpus_id = ?")
		args = append(args, req.CorpusID)
	}
	if req.HierarchyLevel != nil {
		predicates = append(predicates, "c.hierarchy_level = ?")
		args = append(args, *req.HierarchyLevel)
	}

	where := "WHERE 1=1"
	if len(predicates) > 0 {
		where += " AND " + strings.Join(predicates, " AND ")
	}

	args = append(args, expanded, req.TopK)

	sql := fmt.Sprintf(`
		WITH ranked AS (
			SELECT c.id AS chunk_id, c.document_id, c.content, c.hierarchy_level,
			       d.title, d.theme, d.document_type, d.publish_date,
			       c.embedding <=> ? AS distance
			FROM chunks c
			JOIN documents d ON d.id = c.document_id
			%s AND d.deleted_at IS NULL AND c.deleted_at IS NULL
			ORDER BY distance
			LIMIT ?
		)
		SELECT * FROM ranked ORDER BY distance LIMIT ?
	`, where)

	return sql, args
}
