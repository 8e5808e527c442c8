// Package rerank provides the cross-encoder reranking component: given a
// query and a pool of candidate passages, it returns one relevance score
// per passage. Shaped after embedding.Service's HTTP client plumbing;
// grounded on original_source/vectordb/src/ranking.py's contract of
// unbounded real scores where higher means more relevant.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/WillIsback/clea-api/internal/apperr"
)

// Reranker scores passages against a query, per spec.md §4.4.
type Reranker interface {
	Score(ctx context.Context, query string, passages []string) ([]float64, error)
}

// Service is the default Reranker: an HTTP cross-encoder endpoint.
type Service struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewService builds a Reranker against baseURL/model.
func NewService(baseURL, model string) *Service {
	if baseURL == "" {
		baseURL = "http://localhost:8089"
	}
	return &Service{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type rerankRequest struct {
	Query    string   `json:"query"`
	Passages []string `json:"passages"`
	Model    string   `json:"model,omitempty"`
}

type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

// Score returns one score per passage, in the same order as passages.
func (s *Service) Score(ctx context.Context, query string, passages []string) ([]float64, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(rerankRequest{Query: query, Passages: passages, Model: s.model})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperr.ErrInferenceFailed, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("%w: status %d: %s", apperr.ErrModelUnavailable, resp.StatusCode, string(respBody))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", apperr.ErrInferenceFailed, resp.StatusCode, string(respBody))
	}

	var parsed rerankResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", apperr.ErrInferenceFailed, err)
	}
	if len(parsed.Scores) != len(passages) {
		return nil, fmt.Errorf("%w: expected %d scores, got %d", apperr.ErrInferenceFailed, len(passages), len(parsed.Scores))
	}
	return parsed.Scores, nil
}
