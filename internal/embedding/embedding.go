// Package embedding provides the vector-embedding component: an
// OpenAI-compatible HTTP client grounded on
// rag/internal/service/embedding_svc.go, plus a deterministic test
// double for use in tests that don't need a live model.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/WillIsback/clea-api/internal/apperr"
	"github.com/pgvector/pgvector-go"
)

// Embedder turns text into dense vectors, per spec.md §4.3.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([]pgvector.Vector, error)
}

// maxContextChars bounds the text sent per item; longer inputs are
// right-truncated, per spec.md §4.3's documented truncation policy.
const maxContextChars = 8000

// Service is the default Embedder: an OpenAI-compatible embeddings
// endpoint reached over HTTP.
type Service struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
}

// NewService builds an Embedder against baseURL/model, defaulting
// dimensions to 768 per spec.md §4.3.
func NewService(apiKey, baseURL, model string, dimensions int) *Service {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	if dimensions <= 0 {
		dimensions = 768
	}
	return &Service{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type embedRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedBatch embeds every text in one request. Each text is
// right-truncated to maxContextChars runes before being sent.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	truncated := make([]string, len(texts))
	for i, t := range texts {
		truncated[i] = rightTruncate(t, maxContextChars)
	}

	body, err := json.Marshal(embedRequest{
		Input:      truncated,
		Model:      s.model,
		Dimensions: s.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

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

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", apperr.ErrInferenceFailed, err)
	}

	vectors := make([]pgvector.Vector, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", apperr.ErrInferenceFailed, d.Index)
		}
		if len(d.Embedding) != s.dimensions {
			return nil, fmt.Errorf("%w: expected %d dimensions, got %d", apperr.ErrInferenceFailed, s.dimensions, len(d.Embedding))
		}
		vectors[d.Index] = pgvector.NewVector(d.Embedding)
	}
	return vectors, nil
}

func rightTruncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}
