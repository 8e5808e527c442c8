package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WillIsback/clea-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Score_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := rerankResponse{Scores: make([]float64, len(req.Passages))}
		for i := range resp.Scores {
			resp.Scores[i] = float64(i)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewService(server.URL, "model")
	scores, err := svc.Score(context.Background(), "query", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, scores)
}

func TestService_Score_EmptyPassages(t *testing.T) {
	svc := NewService("http://unused", "model")
	scores, err := svc.Score(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Nil(t, scores)
}

func TestService_Score_ModelUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewService(server.URL, "model")
	_, err := svc.Score(context.Background(), "q", []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrModelUnavailable))
}

func TestService_Score_MismatchedScoreCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{1}})
	}))
	defer server.Close()

	svc := NewService(server.URL, "model")
	_, err := svc.Score(context.Background(), "q", []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInferenceFailed))
}

func TestStaticReranker_ScoresByOverlap(t *testing.T) {
	r := StaticReranker{}
	scores, err := r.Score(context.Background(), "apple banana", []string{"apple pie", "banana split", "no match"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, scores[0])
	assert.Equal(t, 0.5, scores[1])
	assert.Equal(t, 0.0, scores[2])
}
