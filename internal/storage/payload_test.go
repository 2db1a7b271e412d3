package storage

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	original := map[string]any{
		"type":          PointTypeVariable,
		"variable_code": "DTI_RATIO",
		"text_length":   int64(4096),
		"score_weight":  0.75,
		"active":        true,
		"tags":          []any{"credit", "risk"},
	}

	converted := payloadToMap(qdrant.NewValueMap(original))
	assert.Equal(t, original, converted)
}

func TestValueToAny_Null(t *testing.T) {
	payload := payloadToMap(map[string]*qdrant.Value{
		"missing": {Kind: &qdrant.Value_NullValue{NullValue: qdrant.NullValue_NULL_VALUE}},
	})
	assert.Nil(t, payload["missing"])
}

func TestPayloadString(t *testing.T) {
	payload := map[string]any{
		"type":        PointTypeDocument,
		"text_length": int64(12),
	}

	assert.Equal(t, PointTypeDocument, PayloadString(payload, "type"))
	assert.Empty(t, PayloadString(payload, "text_length"), "non-string kinds yield empty")
	assert.Empty(t, PayloadString(payload, "absent"))
}

func TestDisabledIndex_NoOps(t *testing.T) {
	index := NewDisabled(nil)
	ctx := context.Background()

	require.False(t, index.Enabled())
	assert.ErrorIs(t, index.Health(ctx), ErrQdrantUnreachable)
	assert.NoError(t, index.EnsureCollection(ctx))

	err := index.UpsertPoints(ctx, []*Point{{Vector: make([]float32, VectorDimension)}})
	assert.NoError(t, err)

	results, err := index.Search(ctx, make([]float32, VectorDimension), 10, 0.3, "")
	assert.NoError(t, err)
	assert.Empty(t, results)

	points, err := index.ScrollAll(ctx, "")
	assert.NoError(t, err)
	assert.Empty(t, points)

	index.DeleteByIDs(ctx, []string{"some-id"})

	info, err := index.GetCollectionInfo(ctx)
	assert.NoError(t, err)
	assert.Zero(t, info.PointsCount)

	assert.NoError(t, index.Close())
}
