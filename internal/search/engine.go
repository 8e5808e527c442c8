package search

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/WillIsback/clea-api/internal/embedding"
	"github.com/WillIsback/clea-api/internal/model"
	"github.com/WillIsback/clea-api/internal/rerank"
	"github.com/WillIsback/clea-api/internal/store"
)

const expandFactor = 3

// Engine orchestrates the hybrid retrieval pipeline of spec.md §4.7.
type Engine struct {
	store    *store.Store
	embedder embedding.Embedder
	reranker rerank.Reranker
}

// New builds an Engine over its three collaborators.
func New(st *store.Store, embedder embedding.Embedder, reranker rerank.Reranker) *Engine {
	return &Engine{store: st, embedder: embedder, reranker: reranker}
}

// HybridSearch implements spec.md §4.7's ten-step algorithm. Model
// failures and timeouts degrade to an empty, low-confidence Response
// instead of an error, so the API stays usable when inference is
// unavailable; any other candidate-fetch failure is returned as an error.
func (e *Engine) HybridSearch(ctx context.Context, req Request) (Response, error) {
	req.TopK = clampTopK(req.TopK)
	expanded := req.TopK * expandFactor

	vectors, err := e.embedder.EmbedBatch(ctx, []string{req.Query})
	if err != nil {
		return e.degraded(ctx, req, "Le service d'indexation sémantique est momentanément indisponible."), nil
	}
	queryVector := vectors[0]

	sql, args := buildCandidateSQL(req, queryVector, expanded)
	rows, err := e.store.FetchCandidates(ctx, sql, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return e.degraded(ctx, req, "La recherche a expiré avant de produire un résultat."), nil
		}
		return Response{}, err
	}

	if len(rows) == 0 {
		resp := Response{
			Query:      req.Query,
			TopK:       req.TopK,
			Confidence: Confidence{Level: 0.1, Message: offDomainMessage},
			Normalized: req.NormalizeScores,
			Message:    offDomainMessage,
		}
		e.audit(ctx, req, resp)
		return resp, nil
	}

	passages := make([]string, len(rows))
	for i, r := range rows {
		passages[i] = r.Content
	}
	rawScores, err := e.reranker.Score(ctx, req.Query, passages)
	degradedRerank := false
	if err != nil {
		degradedRerank = true
		rawScores = distanceFallbackScores(rows)
	}

	scores := rawScores
	if req.NormalizeScores {
		scores = Normalize(rawScores)
	}

	results := make([]Result, len(rows))
	for i, r := range rows {
		results[i] = Result{
			ChunkID:        r.ChunkID,
			DocumentID:     r.DocumentID,
			Title:          r.Title,
			Content:        r.Content,
			Theme:          r.Theme,
			DocumentType:   r.DocumentType,
			PublishDate:    r.PublishDate,
			Score:          scores[i],
			HierarchyLevel: r.HierarchyLevel,
		}
	}

	sortResultsDescending(results)

	if len(results) > req.TopK {
		results = results[:req.TopK]
	}

	topScores := make([]float64, len(results))
	for i, r := range results {
		topScores[i] = r.Score
	}
	confidence := Classify(topScores)

	if req.FilterByRelevance {
		var filtered []Result
		for _, r := range results {
			if r.Score >= minRelevance {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	if req.Hierarchical {
		for i := range results {
			chain, err := e.store.FetchParentChain(ctx, results[i].ChunkID)
			if err != nil {
				continue
			}
			results[i].Context = chainToContext(chain)
		}
	}

	message := confidence.Message
	if degradedRerank {
		message = "Classement par pertinence indisponible: résultats ordonnés par similarité vectorielle."
	}

	resp := Response{
		Query:        req.Query,
		TopK:         req.TopK,
		TotalResults: len(results),
		Results:      results,
		Confidence:   confidence,
		Normalized:   req.NormalizeScores,
		Message:      message,
	}
	e.audit(ctx, req, resp)
	return resp, nil
}

func (e *Engine) degraded(ctx context.Context, req Request, message string) Response {
	resp := Response{
		Query:      req.Query,
		TopK:       req.TopK,
		Confidence: Confidence{Level: 0.1, Message: message},
		Message:    message,
	}
	e.audit(ctx, req, resp)
	return resp
}

func (e *Engine) audit(ctx context.Context, req Request, resp Response) {
	rec := model.SearchQuery{
		QueryText:       req.Query,
		Theme:           req.Theme,
		DocumentType:    req.DocumentType,
		CorpusID:        req.CorpusID,
		ResultsCount:    len(resp.Results),
		ConfidenceLevel: resp.Confidence.Level,
		CreatedAt:       time.Now(),
	}
	e.store.LogSearch(ctx, rec)
}

// distanceFallbackScores converts cosine distance (lower is closer)
// into a descending relevance score when the reranker is unavailable,
// per spec.md §7's "reranker down ⇒ results ordered by distance" rule.
func distanceFallbackScores(rows []store.CandidateRow) []float64 {
	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = 1 - r.Distance
	}
	return scores
}

// sortResultsDescending orders by score descending; ties break by
// lower chunk id first, per spec.md §4.7's tie-break rule.
func sortResultsDescending(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID.String() < results[j].ChunkID.String()
	})
}

func chainToContext(chain store.ParentChain) *Context {
	ctx := &Context{}
	if chain.Level0 != nil {
		ctx.Level0 = &chain.Level0.Content
	}
	if chain.Level1 != nil {
		ctx.Level1 = &chain.Level1.Content
	}
	if chain.Level2 != nil {
		ctx.Level2 = &chain.Level2.Content
	}
	return ctx
}
