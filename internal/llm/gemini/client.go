// Package gemini implements llm.Backend with the google genai client.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/zakahfir/microflow-ai/internal/llm"
)

type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &Client{client: c, model: model}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", llm.ErrBackendUnavailable, err)
	}
	out := strings.TrimSpace(res.Text())
	if out == "" {
		return "", fmt.Errorf("%w: empty gemini response", llm.ErrBackendUnavailable)
	}
	return out, nil
}
