// Package handler implements Cléa-API's Gin REST surface, grounded on
// rag/internal/handler/router.go's route-grouping shape.
package handler

import (
	"net/http"

	"github.com/WillIsback/clea-api/internal/config"
	"github.com/WillIsback/clea-api/internal/embedding"
	"github.com/WillIsback/clea-api/internal/index"
	"github.com/WillIsback/clea-api/internal/middleware"
	"github.com/WillIsback/clea-api/internal/search"
	"github.com/WillIsback/clea-api/internal/store"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires Cléa-API's handlers into a Gin engine, per
// SPEC_FULL.md §6's enumerated routes.
func SetupRouter(cfg *config.Config, st *store.Store, embedder embedding.Embedder, engine *search.Engine, idxMgr *index.Manager) *gin.Engine {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(nil))

	r.GET("/health", healthCheck)
	r.GET("/ready", readinessCheck(st))
	r.GET("/live", livenessCheck)

	docHandler := NewDocumentHandler(st, embedder, cfg)
	searchHandler := NewSearchHandler(engine)
	indexHandler := NewIndexHandler(idxMgr)

	v1 := r.Group("/v1")
	{
		documents := v1.Group("/documents")
		{
			documents.POST("", docHandler.Create)
			documents.POST("/:id/chunks", docHandler.AppendChunks)
			documents.DELETE("/:id", docHandler.Delete)
		}

		v1.POST("/search", searchHandler.Search)

		corpora := v1.Group("/corpora")
		{
			corpora.GET("/index", indexHandler.CheckAll)
			corpora.POST("/:corpus_id/index", indexHandler.Create)
			corpora.DELETE("/:corpus_id/index", indexHandler.Drop)
			corpora.GET("/:corpus_id/index", indexHandler.CheckStatus)
		}
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "clea-api"})
}

func readinessCheck(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

func livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
