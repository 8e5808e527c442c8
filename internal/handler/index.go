package handler

import (
	"net/http"

	"github.com/WillIsback/clea-api/internal/index"
	"github.com/gin-gonic/gin"
)

// IndexHandler exposes per-corpus ANN index lifecycle operations.
type IndexHandler struct {
	mgr *index.Manager
}

// NewIndexHandler builds an IndexHandler.
func NewIndexHandler(mgr *index.Manager) *IndexHandler {
	return &IndexHandler{mgr: mgr}
}

// Create builds a corpus's ANN index, per spec.md §4.6's
// create_simple_index.
func (h *IndexHandler) Create(c *gin.Context) {
	corpusID := c.Param("corpus_id")
	result, err := h.mgr.CreateSimpleIndex(c.Request.Context(), corpusID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Drop removes a corpus's ANN index, per spec.md §4.6's drop_index.
func (h *IndexHandler) Drop(c *gin.Context) {
	corpusID := c.Param("corpus_id")
	result, err := h.mgr.DropIndex(c.Request.Context(), corpusID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckStatus reports a single corpus's index state.
func (h *IndexHandler) CheckStatus(c *gin.Context) {
	corpusID := c.Param("corpus_id")
	status, err := h.mgr.CheckStatus(c.Request.Context(), corpusID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// CheckAll reports index state for every known corpus.
func (h *IndexHandler) CheckAll(c *gin.Context) {
	statuses, err := h.mgr.CheckAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
