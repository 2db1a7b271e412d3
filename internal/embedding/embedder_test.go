package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_DisabledWithoutKey(t *testing.T) {
	client := NewClient("")
	assert.False(t, client.Enabled())

	client = NewClient("sk-test")
	assert.True(t, client.Enabled())
}

func TestEmbedder_DisabledReturnsErrDisabled(t *testing.T) {
	embedder := NewEmbedder(NewClient(""), 0)
	require.False(t, embedder.Enabled())

	_, err := embedder.Embed(context.Background(), "some text")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = embedder.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestEmbed_EmptyResponseErrors(t *testing.T) {
	// API responds 200 with no embeddings in the data list.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object": "list", "data": [], "model": "text-embedding-3-small", "usage": {"prompt_tokens": 0, "total_tokens": 0}}`))
	}))
	defer server.Close()

	client := NewClient("sk-test", option.WithBaseURL(server.URL))
	embedder := NewEmbedder(client, 0)

	_, err := embedder.Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 embeddings, got 0")
}

func TestToFloat32(t *testing.T) {
	got := toFloat32([]float64{0.5, -1.25, 0})
	assert.Equal(t, []float32{0.5, -1.25, 0}, got)

	assert.Empty(t, toFloat32(nil))
}

func TestIsRateLimitError(t *testing.T) {
	assert.True(t, isRateLimitError(&openai.Error{StatusCode: 429}))
	assert.False(t, isRateLimitError(&openai.Error{StatusCode: 500}))
	assert.False(t, isRateLimitError(errors.New("dial tcp: connection refused")))
}
