// Package main provides the admin CLI for the variable catalog index.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/catalog"
	"github.com/ruleforge/ruleforge/internal/config"
	"github.com/ruleforge/ruleforge/internal/embedding"
	"github.com/ruleforge/ruleforge/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "ruleforge-sync",
	Short: "Variable catalog index management tool",
	Long:  "CLI tool for reconciling the variable catalog into the Qdrant index",
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync new catalog variables into the index",
	Long: `Reads all variables from the relational catalog and indexes the ones
not yet present, using variable_code as the dedup key. Idempotent.

Environment variables:
  QDRANT_HOST    Qdrant hostname (required)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY OpenAI API key for embeddings (required)
  DATABASE_PATH  sqlite database path (default: ruleforge.db)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(false)
	},
}

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Delete all indexed variables and rebuild from the catalog",
	Long: `Removes every variable-type point from the index, then runs a full
sync. Use after schema or embedding-model changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(true)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show collection statistics",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resyncCmd)
	rootCmd.AddCommand(infoCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*storage.QdrantIndex, *catalog.Store, *embedding.Embedder, error) {
	cfg := config.Load()
	if !cfg.QdrantConfigured() {
		return nil, nil, nil, fmt.Errorf("QDRANT_HOST not set")
	}

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.QdrantHost, cfg.QdrantPort)
	index, err := storage.NewQdrantIndex(cfg.QdrantHost, cfg.QdrantPort, slog.Default())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	if err := index.EnsureCollection(context.Background()); err != nil {
		index.Close()
		return nil, nil, nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	fmt.Println("Qdrant healthy, collection ready")

	store, err := catalog.OpenStore(cfg.DatabasePath)
	if err != nil {
		index.Close()
		return nil, nil, nil, fmt.Errorf("failed to open catalog store: %w", err)
	}

	embedder := embedding.NewEmbedder(embedding.NewClient(cfg.EmbeddingAPIKey), 0)
	if !embedder.Enabled() {
		index.Close()
		store.Close()
		return nil, nil, nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	return index, store, embedder, nil
}

func runSync(force bool) error {
	ctx := context.Background()
	start := time.Now()

	index, store, embedder, err := setup()
	if err != nil {
		return err
	}
	defer index.Close()
	defer store.Close()

	syncer := catalog.NewSyncer(store, index, embedder, slog.Default())

	var result *catalog.SyncResult
	if force {
		fmt.Println("Force resyncing all variables...")
		result, err = syncer.ForceResync(ctx)
	} else {
		fmt.Println("Syncing new variables...")
		result, err = syncer.SyncFromStore(ctx)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Sync complete!")
	fmt.Printf("  Synced:  %d\n", result.Synced)
	fmt.Printf("  Skipped: %d\n", result.Skipped)
	fmt.Printf("  Total:   %d\n", result.Total)
	fmt.Printf("  Duration: %s\n", time.Since(start).Round(time.Millisecond))

	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	index, store, _, err := setup()
	if err != nil {
		return err
	}
	defer index.Close()
	defer store.Close()

	info, err := index.GetCollectionInfo(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	variables, err := store.ListVariables(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list variables: %w", err)
	}

	fmt.Printf("Collection: %s\n", storage.CollectionName)
	fmt.Printf("  Indexed points:    %d\n", info.PointsCount)
	fmt.Printf("  Catalog variables: %d\n", len(variables))
	return nil
}
