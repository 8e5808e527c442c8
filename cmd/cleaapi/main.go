// Command cleaapi starts the Cléa-API hybrid retrieval service: it
// connects to Postgres, runs migrations, wires the ingest and search
// pipelines, and serves the REST surface. Grounded on
// rag/cmd/server/main.go.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/WillIsback/clea-api/internal/config"
	"github.com/WillIsback/clea-api/internal/database"
	"github.com/WillIsback/clea-api/internal/embedding"
	"github.com/WillIsback/clea-api/internal/handler"
	"github.com/WillIsback/clea-api/internal/index"
	"github.com/WillIsback/clea-api/internal/rerank"
	"github.com/WillIsback/clea-api/internal/search"
	"github.com/WillIsback/clea-api/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	st := store.New(db, cfg.LogSearchQueries)
	embedder := embedding.NewService(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	reranker := rerank.NewService(cfg.RerankerBaseURL, cfg.RerankerModel)
	engine := search.New(st, embedder, reranker)
	idxMgr := index.New(db)

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	sweeper := index.NewSweeper(idxMgr, cfg.SweepInterval())
	sweeper.Start(sweepCtx)

	r := handler.SetupRouter(cfg, st, embedder, engine, idxMgr)

	addr := cfg.Host + ":" + cfg.Port
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("clea-api starting", "addr", addr)
		errCh <- r.Run(addr)
	}()

	select {
	case err := <-errCh:
		slog.Error("server stopped", "error", err)
	case <-stop:
		slog.Info("shutdown signal received")
	}

	cancelSweep()
	sweeper.Stop()
}
