// Package search exposes typed semantic search over the vector index with
// graceful degradation when index-side filtering is unavailable.
package search

import (
	"context"
	"log/slog"

	"github.com/ruleforge/ruleforge/internal/storage"
)

const (
	DefaultLimit          = 10
	DefaultScoreThreshold = 0.3
)

// Index is the slice of the vector index client the facade needs.
type Index interface {
	Enabled() bool
	Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32, filterType string) ([]*storage.ScoredPoint, error)
}

// Embedder turns the caller's free-text query into a vector.
type Embedder interface {
	Enabled() bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Facade performs typed semantic search operations.
// Misconfiguration and remote failure never surface as errors; the facade
// returns degraded-but-well-formed empty results instead.
type Facade struct {
	index    Index
	embedder Embedder
	logger   *slog.Logger
}

// NewFacade creates a search facade over the given index and embedder.
func NewFacade(index Index, embedder Embedder, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{index: index, embedder: embedder, logger: logger}
}

// SemanticSearch embeds the query and searches the index. With a filterType
// it attempts an index-filtered search first; if that fails (missing payload
// index) or returns nothing, it retries unfiltered and filters result
// payloads client-side. Results are ordered by descending score, at most
// limit long. Zero limit and threshold select the defaults.
func (f *Facade) SemanticSearch(ctx context.Context, query string, limit int, scoreThreshold float64, filterType string) []*storage.ScoredPoint {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if scoreThreshold <= 0 {
		scoreThreshold = DefaultScoreThreshold
	}
	if !f.index.Enabled() || !f.embedder.Enabled() {
		f.logger.Debug("Search skipped, index or embedder disabled")
		return nil
	}

	vector, err := f.embedder.Embed(ctx, query)
	if err != nil {
		f.logger.Warn("Query embedding failed", "error", err)
		return nil
	}

	threshold := float32(scoreThreshold)

	if filterType != "" {
		results, err := f.index.Search(ctx, vector, limit, threshold, filterType)
		if err == nil && len(results) > 0 {
			return results
		}
		if err != nil {
			f.logger.Warn("Filtered search failed, falling back to unfiltered",
				"filter", filterType, "error", err)
		}
		// Zero filtered results are indistinguishable from a missing index
		// here; both paths fall back to an unfiltered search.
	}

	results, err := f.index.Search(ctx, vector, limit, threshold, "")
	if err != nil {
		f.logger.Warn("Search failed", "error", err)
		return nil
	}

	if filterType == "" {
		return results
	}

	filtered := make([]*storage.ScoredPoint, 0, len(results))
	for _, result := range results {
		if storage.PayloadString(result.Payload, "type") == filterType {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// SearchDocuments searches document points only.
func (f *Facade) SearchDocuments(ctx context.Context, query string, limit int) []*storage.ScoredPoint {
	return f.SemanticSearch(ctx, query, limit, 0, storage.PointTypeDocument)
}

// SearchVariables searches variable points only.
func (f *Facade) SearchVariables(ctx context.Context, query string, limit int) []*storage.ScoredPoint {
	return f.SemanticSearch(ctx, query, limit, 0, storage.PointTypeVariable)
}

// SimilarVariables finds catalog variables similar to a given variable name.
func (f *Facade) SimilarVariables(ctx context.Context, variableName string, limit int) []*storage.ScoredPoint {
	if limit <= 0 {
		limit = 5
	}
	return f.SearchVariables(ctx, variableName, limit)
}
