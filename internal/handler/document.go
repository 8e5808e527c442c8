package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/WillIsback/clea-api/internal/apperr"
	"github.com/WillIsback/clea-api/internal/config"
	"github.com/WillIsback/clea-api/internal/embedding"
	"github.com/WillIsback/clea-api/internal/model"
	"github.com/WillIsback/clea-api/internal/segment"
	"github.com/WillIsback/clea-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler exposes document ingest/update/delete over HTTP.
type DocumentHandler struct {
	store    *store.Store
	embedder embedding.Embedder
	cfg      *config.Config
}

// NewDocumentHandler builds a DocumentHandler.
func NewDocumentHandler(st *store.Store, embedder embedding.Embedder, cfg *config.Config) *DocumentHandler {
	return &DocumentHandler{store: st, embedder: embedder, cfg: cfg}
}

type createDocumentRequest struct {
	Title        string     `json:"title" binding:"required"`
	Content      string     `json:"content" binding:"required"`
	Theme        string     `json:"theme"`
	DocumentType string     `json:"document_type"`
	PublishDate  *time.Time `json:"publish_date"`
	CorpusID     string     `json:"corpus_id"`
}

type ingestResponse struct {
	DocumentID  uuid.UUID `json:"document_id"`
	ChunkCount  int       `json:"chunk_count"`
	CorpusID    string    `json:"corpus_id"`
	IndexNeeded bool      `json:"index_needed"`
}

// Create ingests a new document: segments its content and persists the
// resulting chunk tree, per spec.md §4.5's add_document_with_chunks.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta := model.Document{
		Title:        req.Title,
		Theme:        req.Theme,
		DocumentType: req.DocumentType,
		CorpusID:     req.CorpusID,
	}
	if req.PublishDate != nil {
		meta.PublishDate = *req.PublishDate
	}

	ctx := c.Request.Context()
	chunks, errc := segment.Segment(ctx, req.Content, h.cfg.MaxChunkLength)

	result, err := h.store.AddDocumentWithChunks(ctx, meta, chunks, h.embedder, 10)
	if segErr := <-errc; segErr != nil {
		writeError(c, segErr)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ingestResponse{
		DocumentID:  result.DocumentID,
		ChunkCount:  result.ChunkCount,
		CorpusID:    result.CorpusID,
		IndexNeeded: result.IndexNeeded,
	})
}

type appendChunksRequest struct {
	Content string `json:"content" binding:"required"`
}

// AppendChunks segments additional content and appends it to an
// existing document, per spec.md §4.5's update_document.
func (h *DocumentHandler) AppendChunks(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	var req appendChunksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	chunks, errc := segment.Segment(ctx, req.Content, h.cfg.MaxChunkLength)

	err = h.store.UpdateDocument(ctx, store.DocumentPatch{DocumentID: id}, chunks, h.embedder)
	if segErr := <-errc; segErr != nil {
		writeError(c, segErr)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// Delete removes a document and cascades its chunks, per spec.md
// §4.5's delete_document.
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	if err := h.store.DeleteDocument(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps apperr sentinels to the appropriate HTTP status, per
// spec.md §7's "ingestion failures return the failing condition
// verbatim" rule.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInputTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrIntegrityViolation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrModelUnavailable), errors.Is(err, apperr.ErrInferenceFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrIndexExists), errors.Is(err, apperr.ErrIndexMissing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(499, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
