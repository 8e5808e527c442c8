package embedding

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

func TestService_EmbedBatch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := embedResponse{}
		for i := range req.Input {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: make([]float32, 768)})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewService("key", server.URL, "model", 768)
	vectors, err := svc.EmbedBatch(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
}

func TestService_EmbedBatch_EmptyInput(t *testing.T) {
	svc := NewService("key", "http://unused", "model", 768)
	vectors, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestService_EmbedBatch_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer server.Close()

	svc := NewService("key", server.URL, "model", 768)
	_, err := svc.EmbedBatch(context.Background(), []string{"hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrModelUnavailable))
}

func TestService_EmbedBatch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	svc := NewService("key", server.URL, "model", 768)
	_, err := svc.EmbedBatch(context.Background(), []string{"hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInferenceFailed))
}

func TestService_EmbedBatch_WrongDimensions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := embedResponse{Data: []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{{Index: 0, Embedding: make([]float32, 10)}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewService("key", server.URL, "model", 768)
	_, err := svc.EmbedBatch(context.Background(), []string{"hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInferenceFailed))
}

func TestRightTruncate(t *testing.T) {
	assert.Equal(t, "hello", rightTruncate("hello", 10))
	assert.Equal(t, "he", rightTruncate("hello", 2))
}

func TestStaticEmbedder_Deterministic(t *testing.T) {
	e := NewStaticEmbedder(16)
	v1, err := e.EmbedBatch(context.Background(), []string{"same text"})
	require.NoError(t, err)
	v2, err := e.EmbedBatch(context.Background(), []string{"same text"})
	require.NoError(t, err)
	assert.Equal(t, v1[0].Slice(), v2[0].Slice())
}

func TestStaticEmbedder_DistinctInputsDiffer(t *testing.T) {
	e := NewStaticEmbedder(16)
	vectors, err := e.EmbedBatch(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.NotEqual(t, vectors[0].Slice(), vectors[1].Slice())
}

func TestStaticEmbedder_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewStaticEmbedder(16)
	_, err := e.EmbedBatch(ctx, []string{"x"})
	assert.Error(t, err)
}
