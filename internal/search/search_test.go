package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleforge/ruleforge/internal/storage"
)

type fakeIndex struct {
	enabled bool
	// scripted per filterType; "" key serves the unfiltered path
	results map[string][]*storage.ScoredPoint
	errs    map[string]error
	calls   []string
}

func (f *fakeIndex) Enabled() bool { return f.enabled }

func (f *fakeIndex) Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32, filterType string) ([]*storage.ScoredPoint, error) {
	f.calls = append(f.calls, filterType)
	if err := f.errs[filterType]; err != nil {
		return nil, err
	}
	results := f.results[filterType]
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type fakeEmbedder struct {
	enabled bool
	err     error
}

func (f *fakeEmbedder) Enabled() bool { return f.enabled }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, storage.VectorDimension), nil
}

func point(id string, score float64, pointType string) *storage.ScoredPoint {
	return &storage.ScoredPoint{ID: id, Score: score, Payload: map[string]any{"type": pointType}}
}

func TestSemanticSearch_FilteredPathPreferred(t *testing.T) {
	index := &fakeIndex{
		enabled: true,
		results: map[string][]*storage.ScoredPoint{
			storage.PointTypeVariable: {
				point("a", 0.9, storage.PointTypeVariable),
				point("b", 0.7, storage.PointTypeVariable),
			},
		},
	}
	facade := NewFacade(index, &fakeEmbedder{enabled: true}, nil)

	results := facade.SearchVariables(context.Background(), "loan term", 10)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.Equal(t, []string{storage.PointTypeVariable}, index.calls, "no fallback when the filtered path succeeds")
}

func TestSemanticSearch_FallbackFiltersClientSide(t *testing.T) {
	index := &fakeIndex{
		enabled: true,
		errs:    map[string]error{storage.PointTypeVariable: errors.New("payload index missing")},
		results: map[string][]*storage.ScoredPoint{
			"": {
				point("doc", 0.95, storage.PointTypeDocument),
				point("var", 0.8, storage.PointTypeVariable),
			},
		},
	}
	facade := NewFacade(index, &fakeEmbedder{enabled: true}, nil)

	results := facade.SearchVariables(context.Background(), "loan term", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "var", results[0].ID)
	assert.Equal(t, storage.PointTypeVariable, storage.PayloadString(results[0].Payload, "type"))
}

func TestSemanticSearch_ZeroFilteredResultsFallsBack(t *testing.T) {
	index := &fakeIndex{
		enabled: true,
		results: map[string][]*storage.ScoredPoint{
			storage.PointTypeDocument: {},
			"": {
				point("doc", 0.6, storage.PointTypeDocument),
			},
		},
	}
	facade := NewFacade(index, &fakeEmbedder{enabled: true}, nil)

	results := facade.SearchDocuments(context.Background(), "termination clause", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "doc", results[0].ID)
	assert.Equal(t, []string{storage.PointTypeDocument, ""}, index.calls)
}

func TestSemanticSearch_LimitRespected(t *testing.T) {
	index := &fakeIndex{
		enabled: true,
		results: map[string][]*storage.ScoredPoint{
			"": {
				point("a", 0.9, storage.PointTypeDocument),
				point("b", 0.8, storage.PointTypeDocument),
				point("c", 0.7, storage.PointTypeDocument),
			},
		},
	}
	facade := NewFacade(index, &fakeEmbedder{enabled: true}, nil)

	results := facade.SemanticSearch(context.Background(), "query", 2, 0.3, "")
	assert.Len(t, results, 2)
}

func TestSemanticSearch_DisabledReturnsEmpty(t *testing.T) {
	facade := NewFacade(&fakeIndex{enabled: false}, &fakeEmbedder{enabled: true}, nil)
	assert.Nil(t, facade.SemanticSearch(context.Background(), "query", 10, 0.3, ""))

	facade = NewFacade(&fakeIndex{enabled: true}, &fakeEmbedder{enabled: false}, nil)
	assert.Nil(t, facade.SemanticSearch(context.Background(), "query", 10, 0.3, ""))
}

func TestSemanticSearch_EmbeddingFailureReturnsEmpty(t *testing.T) {
	index := &fakeIndex{enabled: true}
	facade := NewFacade(index, &fakeEmbedder{enabled: true, err: errors.New("rate limited")}, nil)

	results := facade.SemanticSearch(context.Background(), "query", 10, 0.3, "")
	assert.Nil(t, results)
	assert.Empty(t, index.calls, "index must not be queried without a vector")
}

func TestSimilarVariables_DefaultLimit(t *testing.T) {
	var points []*storage.ScoredPoint
	for i := 0; i < 8; i++ {
		points = append(points, point(string(rune('a'+i)), 0.9-float64(i)*0.05, storage.PointTypeVariable))
	}
	index := &fakeIndex{
		enabled: true,
		results: map[string][]*storage.ScoredPoint{storage.PointTypeVariable: points},
	}
	facade := NewFacade(index, &fakeEmbedder{enabled: true}, nil)

	results := facade.SimilarVariables(context.Background(), "CUSTOMER_AGE", 0)
	assert.Len(t, results, 5)
}
