package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChatClient_DisabledWithoutKey(t *testing.T) {
	client := NewChatClient("", "", "llama-3.3-70b-versatile", 0)
	assert.False(t, client.Enabled())

	_, err := client.Complete(context.Background(), "", "hello", 0.3, 100)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewChatClient_Enabled(t *testing.T) {
	client := NewChatClient("test-key", "https://api.groq.com/openai/v1", "llama-3.3-70b-versatile", 4)
	assert.True(t, client.Enabled())
	assert.Equal(t, "llama-3.3-70b-versatile", client.Model())
}
