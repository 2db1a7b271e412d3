// Package llm wraps the chat completion client used for rule extraction and
// summarization. The client targets any OpenAI-compatible endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultWorkers bounds concurrent completion calls so a slow remote call
// cannot block the rest of the service.
const DefaultWorkers = 2

// ErrDisabled is returned when no API key was configured.
// Callers treat it as a degraded mode and fall back locally.
var ErrDisabled = errors.New("chat model disabled")

// ChatClient issues chat completions through a bounded worker gate.
// A ChatClient constructed without an API key is disabled.
type ChatClient struct {
	client *openai.Client
	model  string
	sem    chan struct{}
}

// NewChatClient creates a chat client for the given endpoint and model.
// An empty apiKey yields a disabled client; an empty baseURL targets the
// default OpenAI endpoint. workers <= 0 selects DefaultWorkers.
func NewChatClient(apiKey, baseURL, model string, workers int) *ChatClient {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	c := &ChatClient{
		model: model,
		sem:   make(chan struct{}, workers),
	}
	if apiKey == "" {
		return c
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	c.client = &client
	return c
}

// Enabled reports whether completions can be issued.
func (c *ChatClient) Enabled() bool {
	return c.client != nil
}

// Model returns the configured model name.
func (c *ChatClient) Model() string {
	return c.model
}

// Complete sends one chat completion and returns the raw assistant text.
// An empty systemPrompt sends only the user message. The call waits for a
// worker slot; context cancellation while waiting aborts the call.
func (c *ChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int64) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completion returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}
