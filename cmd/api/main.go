// Package main provides the RuleForge API service entry point.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ruleforge/ruleforge/internal/catalog"
	"github.com/ruleforge/ruleforge/internal/config"
	"github.com/ruleforge/ruleforge/internal/embedding"
	"github.com/ruleforge/ruleforge/internal/httpapi"
	"github.com/ruleforge/ruleforge/internal/indexer"
	"github.com/ruleforge/ruleforge/internal/llm"
	"github.com/ruleforge/ruleforge/internal/rules"
	"github.com/ruleforge/ruleforge/internal/search"
	"github.com/ruleforge/ruleforge/internal/storage"
	"github.com/ruleforge/ruleforge/internal/summary"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg := config.Load()
	logger := slog.Default()

	// Vector index: an unconfigured endpoint means search degrades, the
	// rest of the service keeps working.
	var index *storage.QdrantIndex
	if cfg.QdrantConfigured() {
		var err error
		index, err = storage.NewQdrantIndex(cfg.QdrantHost, cfg.QdrantPort, logger)
		if err != nil {
			logger.Warn("Qdrant unreachable, semantic search disabled", "error", err)
			index = storage.NewDisabled(logger)
		}
	} else {
		logger.Warn("Qdrant not configured, semantic search disabled")
		index = storage.NewDisabled(logger)
	}
	defer index.Close()

	if err := index.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	embedder := embedding.NewEmbedder(embedding.NewClient(cfg.EmbeddingAPIKey), 0)
	if !embedder.Enabled() {
		logger.Warn("Embedding model not configured, indexing and search disabled")
	}

	chat := llm.NewChatClient(cfg.RuleAPIKey, cfg.RuleBaseURL, cfg.RuleModel, 0)
	if !chat.Enabled() {
		logger.Warn("Rule model not configured, extraction falls back to pattern matching")
	}

	store, err := catalog.OpenStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open catalog store: %v", err)
	}
	defer store.Close()

	server := httpapi.NewServer(&httpapi.Config{
		Store:      store,
		Pipeline:   indexer.NewPipeline(index, embedder, logger),
		Facade:     search.NewFacade(index, embedder, logger),
		Syncer:     catalog.NewSyncer(store, index, embedder, logger),
		Engine:     rules.NewEngine(chat, "groq", nil, logger),
		Summarizer: summary.NewSummarizer(chat, nil, logger),
		Index:      index,
		Logger:     logger,
	})

	addr := "0.0.0.0:" + cfg.Port
	httpServer := &http.Server{Addr: addr, Handler: server.Routes()}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	logger.Info("Starting API server", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}
