package embedding

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client wraps the OpenAI client for embedding generation.
// A Client constructed without an API key is disabled: providers built on it
// degrade to empty results instead of failing the process.
type Client struct {
	client *openai.Client
}

// NewClient creates an OpenAI client for embedding generation.
// An empty apiKey yields a disabled client. Extra options can override the
// endpoint or transport.
func NewClient(apiKey string, opts ...option.RequestOption) *Client {
	if apiKey == "" {
		return &Client{}
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &Client{client: &client}
}

// Enabled reports whether the client holds a usable connection.
func (c *Client) Enabled() bool {
	return c.client != nil
}

// Client returns the underlying OpenAI client for use in other packages.
// Returns nil when disabled.
func (c *Client) Client() *openai.Client {
	return c.client
}
